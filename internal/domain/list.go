package domain

import (
	"context"
	"time"
)

// List 单一 owner 的线索容器
type List struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	OwnerUsername string    `gorm:"->;-:migration" json:"owner_username,omitempty"`
	Subject       *string   `json:"subject"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (List) TableName() string { return "lists" }

// ListSummary 管理端看板：list × owner × 线索数
type ListSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	ListOwner   *string   `json:"list_owner"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	TotalLeads  int64     `json:"total_leads"`
}

type NewList struct {
	Name        string  `json:"name"`
	ListOwner   string  `json:"list_owner"`
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
}

type ListPatch struct {
	Name        *string `json:"name"`
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
}

func (p ListPatch) Empty() bool {
	return p.Name == nil && p.Subject == nil && p.Description == nil
}

// ListRepository 带 Visible 的方法都把 owner 谓词写进 WHERE
type ListRepository interface {
	Create(ctx context.Context, l *List) error
	Find(ctx context.Context, id uint) (*List, error)
	FindVisible(ctx context.Context, a Actor, id uint) (*List, error)
	ListVisible(ctx context.Context, a Actor) ([]List, error)
	UpdateVisible(ctx context.Context, a Actor, id uint, p ListPatch) (*List, error)
	DeleteVisible(ctx context.Context, a Actor, id uint) (bool, error)
	Summaries(ctx context.Context) ([]ListSummary, error)
}
