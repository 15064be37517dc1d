package domain

import (
	"context"
	"time"

	"github.com/lib/pq"
)

// SearchLimit 搜索结果上限
const SearchLimit = 100

type Lead struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ListID        uint           `gorm:"not null;index" json:"list_id"`
	ListName      string         `gorm:"->;-:migration" json:"list_name,omitempty"`
	Fname         string         `gorm:"not null" json:"fname"`
	Lname         *string        `json:"lname"`
	Designation   *string        `json:"designation"`
	Organization  *string        `json:"organization"`
	Email         *string        `json:"email"`
	Mobile        string         `gorm:"not null" json:"mobile"`
	Tel1          *string        `json:"tel1"`
	Tel2          *string        `json:"tel2"`
	Website       *string        `json:"website"`
	Address       *string        `json:"address"`
	Notes         *string        `json:"notes"`
	DealSize      *string        `json:"deal_size"`
	LeadPotential *string        `json:"lead_potential"`
	LeadStage     *string        `json:"lead_stage"`
	ProductGroup  *string        `json:"product_group"`
	CustomerGroup *string        `json:"customer_group"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

// NewLead 创建入参；qualifier 相关字段沿用前端的 camelCase
type NewLead struct {
	ListID        uint     `json:"list_id"`
	Fname         string   `json:"fname"`
	Lname         *string  `json:"lname"`
	Designation   *string  `json:"designation"`
	Organization  *string  `json:"organization"`
	Email         *string  `json:"email"`
	Mobile        string   `json:"mobile"`
	Tel1          *string  `json:"tel1"`
	Tel2          *string  `json:"tel2"`
	Website       *string  `json:"website"`
	Address       *string  `json:"address"`
	Notes         *string  `json:"notes"`
	DealSize      *string  `json:"dealSize"`
	LeadPotential *string  `json:"leadPotential"`
	LeadStage     *string  `json:"leadStage"`
	ProductGroup  *string  `json:"productGroup"`
	CustomerGroup *string  `json:"customerGroup"`
	Tags          []string `json:"tags"`
}

// LeadPatch nil = 不修改；非 nil（包括空串）= 写入
type LeadPatch struct {
	ListID        *uint     `json:"list_id"`
	Fname         *string   `json:"fname"`
	Lname         *string   `json:"lname"`
	Designation   *string   `json:"designation"`
	Organization  *string   `json:"organization"`
	Email         *string   `json:"email"`
	Mobile        *string   `json:"mobile"`
	Tel1          *string   `json:"tel1"`
	Tel2          *string   `json:"tel2"`
	Website       *string   `json:"website"`
	Address       *string   `json:"address"`
	Notes         *string   `json:"notes"`
	DealSize      *string   `json:"dealSize"`
	LeadPotential *string   `json:"leadPotential"`
	LeadStage     *string   `json:"leadStage"`
	ProductGroup  *string   `json:"productGroup"`
	CustomerGroup *string   `json:"customerGroup"`
	Tags          *[]string `json:"tags"`
}

// Columns 把 patch 展开成 列名 → 值，只包含出现的字段
func (p LeadPatch) Columns() map[string]any {
	out := map[string]any{}
	if p.ListID != nil {
		out["list_id"] = *p.ListID
	}
	str := func(col string, v *string) {
		if v != nil {
			out[col] = *v
		}
	}
	str("fname", p.Fname)
	str("lname", p.Lname)
	str("designation", p.Designation)
	str("organization", p.Organization)
	str("email", p.Email)
	str("mobile", p.Mobile)
	str("tel1", p.Tel1)
	str("tel2", p.Tel2)
	str("website", p.Website)
	str("address", p.Address)
	str("notes", p.Notes)
	str("deal_size", p.DealSize)
	str("lead_potential", p.LeadPotential)
	str("lead_stage", p.LeadStage)
	str("product_group", p.ProductGroup)
	str("customer_group", p.CustomerGroup)
	if p.Tags != nil {
		out["tags"] = pq.StringArray(*p.Tags)
	}
	return out
}

type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	Find(ctx context.Context, id uint) (*Lead, error)
	FindVisible(ctx context.Context, a Actor, id uint) (*Lead, error)
	ListVisible(ctx context.Context, a Actor) ([]Lead, error)
	ListByList(ctx context.Context, listID uint) ([]Lead, error)
	UpdateVisible(ctx context.Context, a Actor, id uint, p LeadPatch) (*Lead, error)
	DeleteVisible(ctx context.Context, a Actor, id uint) (bool, error)
	SearchVisible(ctx context.Context, a Actor, term string, limit int) ([]Lead, error)
}
