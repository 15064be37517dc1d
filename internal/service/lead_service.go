package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
)

type LeadService struct {
	leads  domain.LeadRepository
	access *Access
}

func NewLeadService(leads domain.LeadRepository, access *Access) *LeadService {
	return &LeadService{leads: leads, access: access}
}

func (s *LeadService) Create(ctx context.Context, actor domain.Actor, in domain.NewLead) (*domain.Lead, error) {
	fname := strings.TrimSpace(in.Fname)
	mobile := strings.TrimSpace(in.Mobile)
	if fname == "" || mobile == "" || in.ListID == 0 {
		return nil, errs.Validation("First name, mobile, and list_id are required")
	}

	ok, err := s.access.CanAccessList(ctx, actor, in.ListID)
	if err != nil {
		return nil, errs.Internal("Lead creation failed", err)
	}
	if !ok {
		return nil, errs.Forbidden("You don't have permission to add leads to this list")
	}

	l := &domain.Lead{
		ListID:        in.ListID,
		Fname:         fname,
		Lname:         nilIfBlank(in.Lname),
		Designation:   nilIfBlank(in.Designation),
		Organization:  nilIfBlank(in.Organization),
		Email:         nilIfBlank(in.Email),
		Mobile:        mobile,
		Tel1:          nilIfBlank(in.Tel1),
		Tel2:          nilIfBlank(in.Tel2),
		Website:       nilIfBlank(in.Website),
		Address:       nilIfBlank(in.Address),
		Notes:         nilIfBlank(in.Notes),
		DealSize:      nilIfBlank(in.DealSize),
		LeadPotential: nilIfBlank(in.LeadPotential),
		LeadStage:     nilIfBlank(in.LeadStage),
		ProductGroup:  nilIfBlank(in.ProductGroup),
		CustomerGroup: nilIfBlank(in.CustomerGroup),
	}
	if len(in.Tags) > 0 {
		l.Tags = in.Tags
	}
	if err := s.leads.Create(ctx, l); err != nil {
		if isForeignKey(err) {
			return nil, errs.NotFound("List not found")
		}
		return nil, errs.Internal("Lead creation failed", err)
	}
	return l, nil
}

// GetAll admin 看全部，其余只看自己 list 下的线索
func (s *LeadService) GetAll(ctx context.Context, actor domain.Actor) ([]domain.Lead, error) {
	out, err := s.leads.ListVisible(ctx, actor)
	if err != nil {
		return nil, errs.Internal("Failed to fetch leads", err)
	}
	return nonNil(out), nil
}

func (s *LeadService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*domain.Lead, error) {
	l, err := s.leads.FindVisible(ctx, actor, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch lead", err)
	}
	if l == nil {
		return nil, s.denied(ctx, actor, id, "view")
	}
	return l, nil
}

func (s *LeadService) ListByList(ctx context.Context, actor domain.Actor, listID uint) ([]domain.Lead, error) {
	if err := s.access.CheckList(ctx, actor, listID, "view leads from"); err != nil {
		return nil, err
	}
	out, err := s.leads.ListByList(ctx, listID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch leads", err)
	}
	return nonNil(out), nil
}

func (s *LeadService) Update(ctx context.Context, actor domain.Actor, id uint, p domain.LeadPatch) (*domain.Lead, error) {
	if blankPtr(p.Fname) || blankPtr(p.Mobile) {
		return nil, errs.Validation("First name and mobile cannot be empty")
	}
	p.Fname = trimPtr(p.Fname)
	p.Mobile = trimPtr(p.Mobile)

	if p.ListID != nil {
		if *p.ListID == 0 {
			return nil, errs.Validation("list_id cannot be empty")
		}
		ok, err := s.access.CanAccessList(ctx, actor, *p.ListID)
		if err != nil {
			return nil, errs.Internal("Lead update failed", err)
		}
		if !ok {
			return nil, errs.Forbidden("You don't have permission to move leads to this list")
		}
	}

	l, err := s.leads.UpdateVisible(ctx, actor, id, p)
	if err != nil {
		if isForeignKey(err) {
			return nil, errs.NotFound("List not found")
		}
		return nil, errs.Internal("Lead update failed", err)
	}
	if l == nil {
		return nil, s.denied(ctx, actor, id, "update")
	}
	return l, nil
}

func (s *LeadService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	ok, err := s.leads.DeleteVisible(ctx, actor, id)
	if err != nil {
		return errs.Internal("Lead deletion failed", err)
	}
	if !ok {
		return s.denied(ctx, actor, id, "delete")
	}
	return nil
}

func (s *LeadService) Search(ctx context.Context, actor domain.Actor, query string) ([]domain.Lead, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < 2 {
		return nil, errs.Validation("Query must be at least 2 characters")
	}
	out, err := s.leads.SearchVisible(ctx, actor, q, domain.SearchLimit)
	if err != nil {
		return nil, errs.Internal("Lead search failed", err)
	}
	return nonNil(out), nil
}

func (s *LeadService) denied(ctx context.Context, actor domain.Actor, id uint, verb string) error {
	if err := s.access.CheckLead(ctx, actor, id, verb); err != nil {
		return err
	}
	return errs.NotFound("Lead not found")
}

func nonNil(in []domain.Lead) []domain.Lead {
	if in == nil {
		return []domain.Lead{}
	}
	return in
}
