package memory

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"

	"realestate-crm/internal/domain"
)

type LeadRepo struct{ s *Store }

var _ domain.LeadRepository = (*LeadRepo)(nil)

func (r *LeadRepo) Create(_ context.Context, l *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lists[l.ListID]; !ok {
		return errForeignKey
	}
	l.ID, l.CreatedAt = r.s.next()
	l.UpdatedAt = l.CreatedAt
	l.ListName = ""
	r.s.leads[l.ID] = *l
	*l = r.s.withList(*l)
	return nil
}

func (r *LeadRepo) Find(_ context.Context, id uint) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	l = r.s.withList(l)
	return &l, nil
}

func (r *LeadRepo) FindVisible(_ context.Context, a domain.Actor, id uint) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || !r.s.ownsList(a, l.ListID) {
		return nil, nil
	}
	l = r.s.withList(l)
	return &l, nil
}

func (r *LeadRepo) collect(match func(domain.Lead) bool, limit int) []domain.Lead {
	out := []domain.Lead{}
	for _, l := range r.s.leads {
		if match(l) {
			out = append(out, r.s.withList(l))
		}
	}
	newestFirst(out, func(l domain.Lead) time.Time { return l.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *LeadRepo) ListVisible(_ context.Context, a domain.Actor) ([]domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l domain.Lead) bool { return r.s.ownsList(a, l.ListID) }, 0), nil
}

func (r *LeadRepo) ListByList(_ context.Context, listID uint) ([]domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(l domain.Lead) bool { return l.ListID == listID }, 0), nil
}

func (r *LeadRepo) UpdateVisible(_ context.Context, a domain.Actor, id uint, p domain.LeadPatch) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || !r.s.ownsList(a, l.ListID) {
		return nil, nil
	}
	if p.ListID != nil {
		if _, ok := r.s.lists[*p.ListID]; !ok {
			return nil, errForeignKey
		}
		l.ListID = *p.ListID
	}
	set := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}
	if p.Fname != nil {
		l.Fname = *p.Fname
	}
	if p.Mobile != nil {
		l.Mobile = *p.Mobile
	}
	set(&l.Lname, p.Lname)
	set(&l.Designation, p.Designation)
	set(&l.Organization, p.Organization)
	set(&l.Email, p.Email)
	set(&l.Tel1, p.Tel1)
	set(&l.Tel2, p.Tel2)
	set(&l.Website, p.Website)
	set(&l.Address, p.Address)
	set(&l.Notes, p.Notes)
	set(&l.DealSize, p.DealSize)
	set(&l.LeadPotential, p.LeadPotential)
	set(&l.LeadStage, p.LeadStage)
	set(&l.ProductGroup, p.ProductGroup)
	set(&l.CustomerGroup, p.CustomerGroup)
	if p.Tags != nil {
		l.Tags = pq.StringArray(append([]string(nil), *p.Tags...))
	}
	if len(p.Columns()) > 0 {
		_, l.UpdatedAt = r.s.next()
	}
	r.s.leads[id] = l
	l = r.s.withList(l)
	return &l, nil
}

func (r *LeadRepo) DeleteVisible(_ context.Context, a domain.Actor, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || !r.s.ownsList(a, l.ListID) {
		return false, nil
	}
	delete(r.s.leads, id)
	return true, nil
}

// SearchVisible 大小写不敏感的字面子串匹配，和 ILIKE + EscapeLike 等价
func (r *LeadRepo) SearchVisible(_ context.Context, a domain.Actor, term string, limit int) ([]domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := strings.ToLower(term)
	return r.collect(func(l domain.Lead) bool {
		if !r.s.ownsList(a, l.ListID) {
			return false
		}
		return containsFold(&l.Fname, t) || containsFold(l.Lname, t) || containsFold(l.Email, t) ||
			containsFold(&l.Mobile, t) || containsFold(l.Organization, t)
	}, limit), nil
}
