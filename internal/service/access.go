package service

import (
	"context"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
)

// Access 所有权谓词的唯一实现：admin，或 list.owner_id == actor.id（线索经由所属 list 传递）。
// 按 id 访问的统一结果：不存在 → 404；存在但无权 → 403。
type Access struct {
	lists domain.ListRepository
	leads domain.LeadRepository
}

func NewAccess(lists domain.ListRepository, leads domain.LeadRepository) *Access {
	return &Access{lists: lists, leads: leads}
}

func (a *Access) CanAccessList(ctx context.Context, actor domain.Actor, listID uint) (bool, error) {
	l, err := a.lists.Find(ctx, listID)
	if err != nil || l == nil {
		return false, err
	}
	return actor.IsAdmin() || l.OwnerID == actor.ID, nil
}

func (a *Access) CanAccessLead(ctx context.Context, actor domain.Actor, leadID uint) (bool, error) {
	ld, err := a.leads.Find(ctx, leadID)
	if err != nil || ld == nil {
		return false, err
	}
	return a.CanAccessList(ctx, actor, ld.ListID)
}

// CheckList verb 只用于错误文案，如 "view" / "update"
func (a *Access) CheckList(ctx context.Context, actor domain.Actor, listID uint, verb string) error {
	l, err := a.lists.Find(ctx, listID)
	if err != nil {
		return errs.Internal("Failed to check list access", err)
	}
	if l == nil {
		return errs.NotFound("List not found")
	}
	if !actor.IsAdmin() && l.OwnerID != actor.ID {
		return errs.Forbidden("You don't have permission to " + verb + " this list")
	}
	return nil
}

func (a *Access) CheckLead(ctx context.Context, actor domain.Actor, leadID uint, verb string) error {
	ld, err := a.leads.Find(ctx, leadID)
	if err != nil {
		return errs.Internal("Failed to check lead access", err)
	}
	if ld == nil {
		return errs.NotFound("Lead not found")
	}
	ok, err := a.CanAccessList(ctx, actor, ld.ListID)
	if err != nil {
		return errs.Internal("Failed to check lead access", err)
	}
	if !ok {
		return errs.Forbidden("You don't have permission to " + verb + " this lead")
	}
	return nil
}
