package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
	"realestate-crm/pkg/utils"
)

const minPasswordLen = 6

var validate = validator.New()

func validEmail(s string) bool { return validate.Var(s, "required,email") == nil }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Tokens 签发 token 的能力
type Tokens interface {
	Issue(u *domain.User) (string, error)
}

var _ Tokens = (*auth.JWTer)(nil)

type AuthService struct {
	users        domain.UserRepository
	tokens       Tokens
	registerRole domain.Role
	cost         int
	// dummyHash 邮箱不存在时也做一次 bcrypt 比较，避免通过耗时区分
	dummyHash string
}

func NewAuthService(users domain.UserRepository, tokens Tokens, registerRole domain.Role, cost int) *AuthService {
	if !registerRole.Valid() {
		registerRole = domain.RoleAdmin
	}
	dummy, _ := utils.HashPassword("not-a-real-password", cost)
	return &AuthService{users: users, tokens: tokens, registerRole: registerRole, cost: cost, dummyHash: dummy}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, errs.Validation("Username, email and password are required")
	}
	if !validEmail(email) {
		return nil, errs.Validation("Invalid email address")
	}
	if len(password) < minPasswordLen {
		return nil, errs.Validation("Password must be at least 6 characters")
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, errs.Internal("Registration failed", err)
	}
	if exists {
		return nil, errs.Conflict("Username or email already exists")
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, errs.Internal("Registration failed", err)
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         s.registerRole,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发兜底：唯一约束
		if isDuplicate(err) {
			return nil, errs.Conflict("Username or email already exists")
		}
		return nil, errs.Internal("Registration failed", err)
	}
	return u, nil
}

// Login 邮箱不存在、已停用、密码错误统一返回同一条信息
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.Validation("Email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.Internal("Login failed", err)
	}
	if u == nil {
		utils.CheckPassword(password, s.dummyHash)
		return nil, errs.Unauthorized("Invalid credentials")
	}
	if !utils.CheckPassword(password, u.PasswordHash) || !u.IsActive {
		return nil, errs.Unauthorized("Invalid credentials")
	}

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, errs.Internal("Login failed", err)
	}
	return &LoginResult{Token: tok, User: u}, nil
}

func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch user", err)
	}
	if u == nil {
		return nil, errs.NotFound("User not found")
	}
	return u, nil
}
