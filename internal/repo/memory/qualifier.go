package memory

import (
	"context"
	"time"

	"realestate-crm/internal/domain"
)

type QualifierRepo struct{ s *Store }

var _ domain.QualifierRepository = (*QualifierRepo)(nil)

func (r *QualifierRepo) exists(self uint, t domain.QualifierType, name string) bool {
	for id, q := range r.s.quals {
		if id != self && q.Type == t && q.Name == name {
			return true
		}
	}
	return false
}

// BulkInsert ON CONFLICT DO NOTHING 语义
func (r *QualifierRepo) BulkInsert(_ context.Context, names []string, t domain.QualifierType) ([]domain.Qualifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Qualifier{}
	for _, n := range names {
		if r.exists(0, t, n) {
			continue
		}
		q := domain.Qualifier{Name: n, Type: t}
		q.ID, q.CreatedAt = r.s.next()
		r.s.quals[q.ID] = q
		out = append(out, q)
	}
	return out, nil
}

func (r *QualifierRepo) List(_ context.Context, t domain.QualifierType) ([]domain.Qualifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Qualifier{}
	for _, q := range r.s.quals {
		if t == "" || q.Type == t {
			out = append(out, q)
		}
	}
	newestFirst(out, func(q domain.Qualifier) time.Time { return q.CreatedAt })
	return out, nil
}

func (r *QualifierRepo) Find(_ context.Context, id uint) (*domain.Qualifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quals[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *QualifierRepo) Update(_ context.Context, id uint, p domain.QualifierPatch) (*domain.Qualifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quals[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		q.Name = *p.Name
	}
	if p.Type != nil {
		q.Type = *p.Type
	}
	if r.exists(id, q.Type, q.Name) {
		return nil, errDuplicate
	}
	r.s.quals[id] = q
	return &q, nil
}

func (r *QualifierRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quals[id]; !ok {
		return false, nil
	}
	delete(r.s.quals, id)
	return true, nil
}
