package domain

import (
	"context"
	"time"
)

// QualifierType 三类平铺字典
type QualifierType string

const (
	QualifierProduct  QualifierType = "product"
	QualifierCustomer QualifierType = "customer"
	QualifierTag      QualifierType = "tag"
)

func (t QualifierType) Valid() bool {
	switch t {
	case QualifierProduct, QualifierCustomer, QualifierTag:
		return true
	}
	return false
}

// QualifierTypes 全部类型，缓存失效时用
var QualifierTypes = []QualifierType{QualifierProduct, QualifierCustomer, QualifierTag}

type Qualifier struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Type      QualifierType `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Qualifier) TableName() string { return "qualifiers" }

type QualifierPatch struct {
	Name *string        `json:"name"`
	Type *QualifierType `json:"type"`
}

type QualifierRepository interface {
	// BulkInsert 已存在的 (type, name) 直接跳过，只返回新插入的行
	BulkInsert(ctx context.Context, names []string, t QualifierType) ([]Qualifier, error)
	List(ctx context.Context, t QualifierType) ([]Qualifier, error)
	Find(ctx context.Context, id uint) (*Qualifier, error)
	Update(ctx context.Context, id uint, p QualifierPatch) (*Qualifier, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
