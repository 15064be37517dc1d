package service

import (
	"context"
	"strings"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
)

type ListService struct {
	lists  domain.ListRepository
	users  domain.UserRepository
	access *Access
}

func NewListService(lists domain.ListRepository, users domain.UserRepository, access *Access) *ListService {
	return &ListService{lists: lists, users: users, access: access}
}

// Create owner 可以是任意已存在用户，不要求是调用者本人
func (s *ListService) Create(ctx context.Context, actor domain.Actor, in domain.NewList) (*domain.List, error) {
	name := strings.TrimSpace(in.Name)
	owner := strings.TrimSpace(in.ListOwner)
	if name == "" || owner == "" {
		return nil, errs.Validation("List name and owner are required")
	}

	u, err := s.users.FindByUsername(ctx, owner)
	if err != nil {
		return nil, errs.Internal("List creation failed", err)
	}
	if u == nil {
		return nil, errs.NotFound("List owner user not found")
	}

	l := &domain.List{
		Name:        name,
		OwnerID:     u.ID,
		Subject:     nilIfBlank(in.Subject),
		Description: nilIfBlank(in.Description),
	}
	if err := s.lists.Create(ctx, l); err != nil {
		if isForeignKey(err) {
			return nil, errs.NotFound("List owner user not found")
		}
		return nil, errs.Internal("List creation failed", err)
	}
	return l, nil
}

func (s *ListService) List(ctx context.Context, actor domain.Actor) ([]domain.List, error) {
	out, err := s.lists.ListVisible(ctx, actor)
	if err != nil {
		return nil, errs.Internal("Failed to fetch lists", err)
	}
	if out == nil {
		out = []domain.List{}
	}
	return out, nil
}

func (s *ListService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.List, error) {
	l, err := s.lists.FindVisible(ctx, actor, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch list", err)
	}
	if l == nil {
		return nil, s.denied(ctx, actor, id, "view")
	}
	return l, nil
}

func (s *ListService) Update(ctx context.Context, actor domain.Actor, id uint, p domain.ListPatch) (*domain.List, error) {
	if blankPtr(p.Name) {
		return nil, errs.Validation("List name cannot be empty")
	}
	p.Name = trimPtr(p.Name)

	l, err := s.lists.UpdateVisible(ctx, actor, id, p)
	if err != nil {
		return nil, errs.Internal("List update failed", err)
	}
	if l == nil {
		return nil, s.denied(ctx, actor, id, "update")
	}
	return l, nil
}

func (s *ListService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	ok, err := s.lists.DeleteVisible(ctx, actor, id)
	if err != nil {
		return errs.Internal("List deletion failed", err)
	}
	if !ok {
		return s.denied(ctx, actor, id, "delete")
	}
	return nil
}

// Summaries 管理端看板聚合，不做所有权过滤（路由层限定 admin）
func (s *ListService) Summaries(ctx context.Context) ([]domain.ListSummary, error) {
	out, err := s.lists.Summaries(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch lists with counts", err)
	}
	if out == nil {
		out = []domain.ListSummary{}
	}
	return out, nil
}

// denied 零行结果归类为 404 或 403
func (s *ListService) denied(ctx context.Context, actor domain.Actor, id uint, verb string) error {
	if err := s.access.CheckList(ctx, actor, id, verb); err != nil {
		return err
	}
	// 两次查询之间被删除
	return errs.NotFound("List not found")
}
