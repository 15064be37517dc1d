package repo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realestate-crm/internal/domain"
)

type QualifierRepo struct{ db *gorm.DB }

func NewQualifierRepo(db *gorm.DB) *QualifierRepo { return &QualifierRepo{db: db} }

func (r *QualifierRepo) BulkInsert(ctx context.Context, names []string, t domain.QualifierType) ([]domain.Qualifier, error) {
	out := []domain.Qualifier{}
	if len(names) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO qualifiers (name, type)
		SELECT unnest(?::text[]), ?
		ON CONFLICT (type, name) DO NOTHING
		RETURNING id, name, type, created_at`,
		pq.Array(names), t,
	).Scan(&out).Error
	return out, err
}

// List t 为空时返回全部类型
func (r *QualifierRepo) List(ctx context.Context, t domain.QualifierType) ([]domain.Qualifier, error) {
	q := r.db.WithContext(ctx).Model(&domain.Qualifier{})
	if t != "" {
		q = q.Where("type = ?", t)
	}
	var out []domain.Qualifier
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *QualifierRepo) Find(ctx context.Context, id uint) (*domain.Qualifier, error) {
	var q domain.Qualifier
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QualifierRepo) Update(ctx context.Context, id uint, p domain.QualifierPatch) (*domain.Qualifier, error) {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Type != nil {
		cols["type"] = *p.Type
	}
	if len(cols) == 0 {
		return r.Find(ctx, id)
	}
	var q domain.Qualifier
	res := r.db.WithContext(ctx).Model(&q).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &q, nil
}

func (r *QualifierRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Qualifier{})
	return res.RowsAffected > 0, res.Error
}
