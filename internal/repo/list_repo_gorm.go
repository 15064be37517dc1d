package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realestate-crm/internal/domain"
)

type ListRepo struct{ db *gorm.DB }

func NewListRepo(db *gorm.DB) *ListRepo { return &ListRepo{db: db} }

// withOwner 读 list 时带上 owner 的 username
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.List{}).
		Select("lists.*, users.username AS owner_username").
		Joins("LEFT JOIN users ON users.id = lists.owner_id")
}

// Create 插入后补读 owner_username。行已提交，补读失败只少这个字段，
// 不能报错，否则客户端重试会插出重复 list
func (r *ListRepo) Create(ctx context.Context, l *domain.List) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return err
	}
	if got, err := r.Find(ctx, l.ID); err == nil && got != nil {
		*l = *got
	}
	return nil
}

func (r *ListRepo) Find(ctx context.Context, id uint) (*domain.List, error) {
	return r.take(r.db.WithContext(ctx).Scopes(withOwner).Where("lists.id = ?", id))
}

func (r *ListRepo) FindVisible(ctx context.Context, a domain.Actor, id uint) (*domain.List, error) {
	return r.take(r.db.WithContext(ctx).Scopes(withOwner, ownedLists(a, "lists")).Where("lists.id = ?", id))
}

func (r *ListRepo) take(q *gorm.DB) (*domain.List, error) {
	var l domain.List
	err := q.Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListRepo) ListVisible(ctx context.Context, a domain.Actor) ([]domain.List, error) {
	var out []domain.List
	err := r.db.WithContext(ctx).
		Scopes(withOwner, ownedLists(a, "lists")).
		Order("lists.created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateVisible 单条 UPDATE ... WHERE id AND 谓词 RETURNING，没有匹配行返回 nil
func (r *ListRepo) UpdateVisible(ctx context.Context, a domain.Actor, id uint, p domain.ListPatch) (*domain.List, error) {
	if p.Empty() {
		return r.FindVisible(ctx, a, id)
	}
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Subject != nil {
		cols["subject"] = *p.Subject
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}

	var l domain.List
	res := r.db.WithContext(ctx).Model(&l).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Scopes(ownedLists(a, "lists")).
		Where("lists.id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.Find(ctx, id)
}

func (r *ListRepo) DeleteVisible(ctx context.Context, a domain.Actor, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(ownedLists(a, "lists")).
		Where("lists.id = ?", id).
		Delete(&domain.List{})
	return res.RowsAffected > 0, res.Error
}

func (r *ListRepo) Summaries(ctx context.Context) ([]domain.ListSummary, error) {
	var out []domain.ListSummary
	err := r.db.WithContext(ctx).
		Table("lists AS l").
		Select("l.id, l.name, u.username AS list_owner, l.description, l.created_at, COUNT(ld.id) AS total_leads").
		Joins("LEFT JOIN leads ld ON ld.list_id = l.id").
		Joins("LEFT JOIN users u ON u.id = l.owner_id").
		Group("l.id, l.name, u.username, l.description, l.created_at").
		Order("l.created_at DESC").
		Scan(&out).Error
	return out, err
}
