package memory

import (
	"context"
	"time"

	"realestate-crm/internal/domain"
)

type UserRepo struct{ s *Store }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(0, u.Email, u.Username) {
		return errDuplicate
	}
	u.ID, u.CreatedAt = r.s.next()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

// taken 除 self 之外是否已有相同 email 或 username
func (r *UserRepo) taken(self uint, email, username string) bool {
	for id, u := range r.s.users {
		if id != self && (u.Email == email || u.Username == username) {
			return true
		}
	}
	return false
}

func (r *UserRepo) find(match func(domain.User) bool) *domain.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.taken(0, email, username), nil
}

func (r *UserRepo) List(context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	newestFirst(out, func(u domain.User) time.Time { return u.CreatedAt })
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, id uint, p domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if r.taken(id, u.Email, u.Username) {
		return nil, errDuplicate
	}
	if !p.Empty() {
		_, u.UpdatedAt = r.s.next()
	}
	r.s.users[id] = u
	return &u, nil
}

func (r *UserRepo) SetActive(_ context.Context, id uint, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = active
	r.s.users[id] = u
	return true, nil
}

// Delete lists.owner_id 为 RESTRICT
func (r *UserRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for _, l := range r.s.lists {
		if l.OwnerID == id {
			return false, errForeignKey
		}
	}
	delete(r.s.users, id)
	return true, nil
}
