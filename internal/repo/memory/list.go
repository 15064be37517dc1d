package memory

import (
	"context"
	"time"

	"realestate-crm/internal/domain"
)

type ListRepo struct{ s *Store }

var _ domain.ListRepository = (*ListRepo)(nil)

func (r *ListRepo) Create(_ context.Context, l *domain.List) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[l.OwnerID]; !ok {
		return errForeignKey
	}
	l.ID, l.CreatedAt = r.s.next()
	r.s.lists[l.ID] = *l
	*l = r.s.withOwner(*l)
	return nil
}

func (r *ListRepo) Find(_ context.Context, id uint) (*domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lists[id]
	if !ok {
		return nil, nil
	}
	l = r.s.withOwner(l)
	return &l, nil
}

func (r *ListRepo) FindVisible(_ context.Context, a domain.Actor, id uint) (*domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsList(a, id) {
		return nil, nil
	}
	l := r.s.withOwner(r.s.lists[id])
	return &l, nil
}

func (r *ListRepo) ListVisible(_ context.Context, a domain.Actor) ([]domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.List{}
	for id, l := range r.s.lists {
		if r.s.ownsList(a, id) {
			out = append(out, r.s.withOwner(l))
		}
	}
	newestFirst(out, func(l domain.List) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *ListRepo) UpdateVisible(_ context.Context, a domain.Actor, id uint, p domain.ListPatch) (*domain.List, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsList(a, id) {
		return nil, nil
	}
	l := r.s.lists[id]
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Subject != nil {
		l.Subject = p.Subject
	}
	if p.Description != nil {
		l.Description = p.Description
	}
	r.s.lists[id] = l
	l = r.s.withOwner(l)
	return &l, nil
}

// DeleteVisible leads.list_id 为 CASCADE
func (r *ListRepo) DeleteVisible(_ context.Context, a domain.Actor, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsList(a, id) {
		return false, nil
	}
	delete(r.s.lists, id)
	for lid, ld := range r.s.leads {
		if ld.ListID == id {
			delete(r.s.leads, lid)
		}
	}
	return true, nil
}

func (r *ListRepo) Summaries(context.Context) ([]domain.ListSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[uint]int64{}
	for _, ld := range r.s.leads {
		counts[ld.ListID]++
	}
	out := make([]domain.ListSummary, 0, len(r.s.lists))
	for _, l := range r.s.lists {
		sum := domain.ListSummary{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			CreatedAt:   l.CreatedAt,
			TotalLeads:  counts[l.ID],
		}
		if u, ok := r.s.users[l.OwnerID]; ok {
			name := u.Username
			sum.ListOwner = &name
		}
		out = append(out, sum)
	}
	newestFirst(out, func(l domain.ListSummary) time.Time { return l.CreatedAt })
	return out, nil
}
