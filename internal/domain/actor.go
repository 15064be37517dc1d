package domain

// Actor 当前请求的调用者，来自已校验的 token
type Actor struct {
	ID    uint
	Email string
	Role  Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
