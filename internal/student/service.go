package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rollcall/internal/apperr"
)

const deptCacheKey = "rollcall:departments"

// Repo is the persistence surface the service needs.
type Repo interface {
	Insert(ctx context.Context, st Student) (Student, error)
	List(ctx context.Context, department string) ([]Student, error)
	Departments(ctx context.Context) ([]string, error)
}

// Cache is a fail-safe byte cache; errors behave as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Rejected []string `json:"rejected,omitempty"` // roll_nos that were skipped
}

// Service implements single add and bulk import of students.
type Service struct {
	repo     Repo
	cache    Cache
	cacheTTL time.Duration
}

// NewService creates a service. cache may be nil.
func NewService(repo Repo, cache Cache, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func validate(st Student) error {
	if st.RollNo == "" {
		return fmt.Errorf("%w: roll_no required", apperr.ErrValidation)
	}
	if st.Name == "" {
		return fmt.Errorf("%w: name required", apperr.ErrValidation)
	}
	if st.Year < 1 {
		return fmt.Errorf("%w: year must be positive", apperr.ErrValidation)
	}
	if st.Department == "" {
		return fmt.Errorf("%w: department required", apperr.ErrValidation)
	}
	return nil
}

// Add inserts a single student. A duplicate roll_no fails the whole call.
func (s *Service) Add(ctx context.Context, st Student) (Student, error) {
	if err := validate(st); err != nil {
		return Student{}, err
	}
	created, err := s.repo.Insert(ctx, st)
	if err != nil {
		return Student{}, err
	}
	s.invalidateDepartments(ctx)
	return created, nil
}

// Import inserts each row, skipping duplicates and invalid rows without
// aborting the batch. The returned count covers only rows actually inserted.
func (s *Service) Import(ctx context.Context, rows []Student) (ImportResult, error) {
	var res ImportResult
	for _, row := range rows {
		if err := validate(row); err != nil {
			res.Rejected = append(res.Rejected, row.RollNo)
			continue
		}
		if _, err := s.repo.Insert(ctx, row); err != nil {
			if errors.Is(err, apperr.ErrConstraint) {
				res.Rejected = append(res.Rejected, row.RollNo)
				continue
			}
			return res, err
		}
		res.Inserted++
	}
	if res.Inserted > 0 {
		s.invalidateDepartments(ctx)
	}
	return res, nil
}

// List returns students ordered by roll_no; empty department means all.
func (s *Service) List(ctx context.Context, department string) ([]Student, error) {
	return s.repo.List(ctx, department)
}

// Departments returns the distinct department list, served from cache when
// possible.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if raw, _ := s.cache.Get(ctx, deptCacheKey); raw != nil {
			var cached []string
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}
	departments, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(departments); err == nil {
			_ = s.cache.Set(ctx, deptCacheKey, raw, s.cacheTTL)
		}
	}
	return departments, nil
}

func (s *Service) invalidateDepartments(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, deptCacheKey)
	}
}
