package domain

import (
	"context"
	"time"
)

// Role 用户角色（封闭集合）
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleL1      Role = "l1"
	RoleL2      Role = "l2"
	RoleSales   Role = "sales"
)

var roles = map[Role]struct{}{
	RoleAdmin: {}, RoleOwner: {}, RoleManager: {}, RoleL1: {}, RoleL2: {}, RoleSales: {},
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserPatch 只有非 nil 的字段会被写入
type UserPatch struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Role         *Role   `json:"role"`
	IsActive     *bool   `json:"is_active"`
	Password     *string `json:"password"`
	PasswordHash *string `json:"-"`
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Role == nil && p.IsActive == nil && p.PasswordHash == nil
}

// UserRepository 查不到时返回 (nil, nil) / (false, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uint, p UserPatch) (*User, error)
	SetActive(ctx context.Context, id uint, active bool) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
