package service

import (
	"context"
	"strings"
	"time"

	"realestate-crm/internal/core/cache"
	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
)

type QualifierService struct {
	repo  domain.QualifierRepository
	cache *cache.Cache
	ttl   time.Duration
}

// NewQualifierService c 可以为 nil（不缓存）
func NewQualifierService(repo domain.QualifierRepository, c *cache.Cache, ttl time.Duration) *QualifierService {
	return &QualifierService{repo: repo, cache: c, ttl: ttl}
}

func cacheKey(t domain.QualifierType) string {
	if t == "" {
		return "qualifiers:all"
	}
	return "qualifiers:" + string(t)
}

func (s *QualifierService) invalidate(ctx context.Context) {
	keys := []string{cacheKey("")}
	for _, t := range domain.QualifierTypes {
		keys = append(keys, cacheKey(t))
	}
	s.cache.Invalidate(ctx, keys...)
}

// BulkCreate 插入或忽略：已存在的 (type, name) 不会被修改，只返回本次新插入的行
func (s *QualifierService) BulkCreate(ctx context.Context, names []string, t domain.QualifierType) ([]domain.Qualifier, error) {
	if !t.Valid() {
		return nil, errs.Validation("Invalid qualifier type")
	}
	clean := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		clean = append(clean, n)
	}
	if len(clean) == 0 {
		return nil, errs.Validation("No valid names provided")
	}

	out, err := s.repo.BulkInsert(ctx, clean, t)
	if err != nil {
		return nil, errs.Internal("Qualifier creation failed", err)
	}
	s.invalidate(ctx)
	if out == nil {
		out = []domain.Qualifier{}
	}
	return out, nil
}

// Create name 支持逗号分隔的多个值
func (s *QualifierService) Create(ctx context.Context, name string, t domain.QualifierType) ([]domain.Qualifier, error) {
	if strings.TrimSpace(name) == "" || t == "" {
		return nil, errs.Validation("Name and type are required")
	}
	return s.BulkCreate(ctx, strings.Split(name, ","), t)
}

func (s *QualifierService) List(ctx context.Context, t domain.QualifierType) ([]domain.Qualifier, error) {
	if t != "" && !t.Valid() {
		return nil, errs.Validation("Invalid type filter")
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKey(t), s.ttl, func(ctx context.Context) ([]domain.Qualifier, error) {
		rows, err := s.repo.List(ctx, t)
		if rows == nil {
			rows = []domain.Qualifier{}
		}
		return rows, err
	})
	if err != nil {
		return nil, errs.Internal("Failed to fetch qualifiers", err)
	}
	return out, nil
}

func (s *QualifierService) Get(ctx context.Context, id uint) (*domain.Qualifier, error) {
	q, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, errs.Internal("Failed to fetch qualifier", err)
	}
	if q == nil {
		return nil, errs.NotFound("Qualifier not found")
	}
	return q, nil
}

func (s *QualifierService) Update(ctx context.Context, id uint, p domain.QualifierPatch) (*domain.Qualifier, error) {
	if p.Type != nil && !p.Type.Valid() {
		return nil, errs.Validation("Invalid qualifier type")
	}
	if blankPtr(p.Name) {
		return nil, errs.Validation("Qualifier name cannot be empty")
	}
	p.Name = trimPtr(p.Name)

	q, err := s.repo.Update(ctx, id, p)
	if err != nil {
		if isDuplicate(err) {
			return nil, errs.Conflict("Qualifier already exists")
		}
		return nil, errs.Internal("Qualifier update failed", err)
	}
	if q == nil {
		return nil, errs.NotFound("Qualifier not found")
	}
	s.invalidate(ctx)
	return q, nil
}

func (s *QualifierService) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errs.Internal("Qualifier deletion failed", err)
	}
	if !ok {
		return errs.NotFound("Qualifier not found")
	}
	s.invalidate(ctx)
	return nil
}
