// Package memory 进程内实现的仓储，语义与 gorm/Postgres 版本一致
// （唯一约束、外键、级联删除、所有权谓词），供 service 和 HTTP 测试使用。
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"realestate-crm/internal/domain"
)

type Store struct {
	mu    sync.Mutex
	seq   uint
	clock time.Time

	users map[uint]domain.User
	lists map[uint]domain.List
	leads map[uint]domain.Lead
	quals map[uint]domain.Qualifier
}

func New() *Store {
	return &Store{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[uint]domain.User{},
		lists: map[uint]domain.List{},
		leads: map[uint]domain.Lead{},
		quals: map[uint]domain.Qualifier{},
	}
}

func (s *Store) Users() *UserRepo           { return &UserRepo{s} }
func (s *Store) Lists() *ListRepo           { return &ListRepo{s} }
func (s *Store) Leads() *LeadRepo           { return &LeadRepo{s} }
func (s *Store) Qualifiers() *QualifierRepo { return &QualifierRepo{s} }

// next 自增 id，时间严格递增，保证"最新在前"的排序可预期
func (s *Store) next() (uint, time.Time) {
	s.seq++
	s.clock = s.clock.Add(time.Second)
	return s.seq, s.clock
}

func (s *Store) ownsList(a domain.Actor, listID uint) bool {
	l, ok := s.lists[listID]
	return ok && (a.IsAdmin() || l.OwnerID == a.ID)
}

func (s *Store) withOwner(l domain.List) domain.List {
	if u, ok := s.users[l.OwnerID]; ok {
		l.OwnerUsername = u.Username
	}
	return l
}

func (s *Store) withList(ld domain.Lead) domain.Lead {
	if l, ok := s.lists[ld.ListID]; ok {
		ld.ListName = l.Name
	}
	return ld
}

func newestFirst[T any](in []T, created func(T) time.Time) {
	sort.SliceStable(in, func(i, j int) bool { return created(in[i]).After(created(in[j])) })
}

var errDuplicate = gorm.ErrDuplicatedKey
var errForeignKey = gorm.ErrForeignKeyViolated

func containsFold(field *string, term string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), term)
}
