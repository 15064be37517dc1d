package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"realestate-crm/internal/domain"
)

type LeadRepo struct{ db *gorm.DB }

func NewLeadRepo(db *gorm.DB) *LeadRepo { return &LeadRepo{db: db} }

// withList 所有读路径都带上 list 名称
func (r *LeadRepo) withList(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Select("leads.*, lists.name AS list_name").
		Joins("INNER JOIN lists ON lists.id = leads.list_id")
}

// Create 同 ListRepo.Create：补读 list_name 失败不影响结果
func (r *LeadRepo) Create(ctx context.Context, l *domain.Lead) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return err
	}
	if got, err := r.Find(ctx, l.ID); err == nil && got != nil {
		*l = *got
	}
	return nil
}

func (r *LeadRepo) Find(ctx context.Context, id uint) (*domain.Lead, error) {
	return takeLead(r.withList(ctx).Where("leads.id = ?", id))
}

func (r *LeadRepo) FindVisible(ctx context.Context, a domain.Actor, id uint) (*domain.Lead, error) {
	return takeLead(r.withList(ctx).Scopes(ownedLists(a, "lists")).Where("leads.id = ?", id))
}

func takeLead(q *gorm.DB) (*domain.Lead, error) {
	var l domain.Lead
	err := q.Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) ListVisible(ctx context.Context, a domain.Actor) ([]domain.Lead, error) {
	var out []domain.Lead
	err := r.withList(ctx).
		Scopes(ownedLists(a, "lists")).
		Order("leads.created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *LeadRepo) ListByList(ctx context.Context, listID uint) ([]domain.Lead, error) {
	var out []domain.Lead
	err := r.withList(ctx).
		Where("leads.list_id = ?", listID).
		Order("leads.created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateVisible 谓词和修改在同一条语句里；没有匹配行返回 nil
func (r *LeadRepo) UpdateVisible(ctx context.Context, a domain.Actor, id uint, p domain.LeadPatch) (*domain.Lead, error) {
	cols := p.Columns()
	if len(cols) == 0 {
		return r.FindVisible(ctx, a, id)
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Scopes(ownedLeads(a, r.db)).
		Where("leads.id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.Find(ctx, id)
}

func (r *LeadRepo) DeleteVisible(ctx context.Context, a domain.Actor, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(ownedLeads(a, r.db)).
		Where("leads.id = ?", id).
		Delete(&domain.Lead{})
	return res.RowsAffected > 0, res.Error
}

var searchColumns = []string{"fname", "lname", "email", "mobile", "organization"}

func (r *LeadRepo) SearchVisible(ctx context.Context, a domain.Actor, term string, limit int) ([]domain.Lead, error) {
	pattern := "%" + EscapeLike(term) + "%"
	conds := make([]string, len(searchColumns))
	args := make([]any, len(searchColumns))
	for i, c := range searchColumns {
		conds[i] = "leads." + c + " ILIKE ?"
		args[i] = pattern
	}

	var out []domain.Lead
	err := r.withList(ctx).
		Scopes(ownedLists(a, "lists")).
		Where(strings.Join(conds, " OR "), args...).
		Order("leads.created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike 让 LIKE/ILIKE 按字面子串匹配（Postgres 默认转义符为 \）
func EscapeLike(s string) string { return likeEscaper.Replace(s) }
