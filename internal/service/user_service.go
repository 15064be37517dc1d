package service

import (
	"context"
	"strings"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
	"realestate-crm/pkg/utils"
)

// UserService 管理端用户维护
type UserService struct {
	users domain.UserRepository
	cost  int
}

func NewUserService(users domain.UserRepository, cost int) *UserService {
	return &UserService{users: users, cost: cost}
}

type NewUser struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, errs.Validation("Username, email, password and role are required")
	}
	if !in.Role.Valid() {
		return nil, errs.Validation("Invalid role")
	}
	if !validEmail(email) {
		return nil, errs.Validation("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, errs.Validation("Password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, errs.Internal("User creation failed", err)
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, errs.Conflict("Username or email already exists")
		}
		return nil, errs.Internal("User creation failed", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, errs.Internal("Failed to fetch users", err)
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch user", err)
	}
	if u == nil {
		return nil, errs.NotFound("User not found")
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, p domain.UserPatch) (*domain.User, error) {
	if blankPtr(p.Username) || blankPtr(p.Email) {
		return nil, errs.Validation("Username and email cannot be empty")
	}
	p.Username = trimPtr(p.Username)
	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		if !validEmail(e) {
			return nil, errs.Validation("Invalid email address")
		}
		p.Email = &e
	}
	if p.Role != nil && !p.Role.Valid() {
		return nil, errs.Validation("Invalid role")
	}
	p.PasswordHash = nil
	if p.Password != nil {
		if len(*p.Password) < minPasswordLen {
			return nil, errs.Validation("Password must be at least 6 characters")
		}
		hash, err := utils.HashPassword(*p.Password, s.cost)
		if err != nil {
			return nil, errs.Internal("User update failed", err)
		}
		p.PasswordHash = &hash
		p.Password = nil
	}

	u, err := s.users.Update(ctx, id, p)
	if err != nil {
		if isDuplicate(err) {
			return nil, errs.Conflict("Username or email already exists")
		}
		return nil, errs.Internal("User update failed", err)
	}
	if u == nil {
		return nil, errs.NotFound("User not found")
	}
	return u, nil
}

func (s *UserService) Deactivate(ctx context.Context, id uint) error {
	ok, err := s.users.SetActive(ctx, id, false)
	if err != nil {
		return errs.Internal("User deactivation failed", err)
	}
	if !ok {
		return errs.NotFound("User not found")
	}
	return nil
}

// Delete 硬删除；名下还有 list 时拒绝
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		if isForeignKey(err) {
			return errs.Conflict("User still owns lists")
		}
		return errs.Internal("User deletion failed", err)
	}
	if !ok {
		return errs.NotFound("User not found")
	}
	return nil
}
