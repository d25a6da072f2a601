package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the Redis cache for list payloads. When disabled or
// misconfigured it degrades to a permanent miss so reads always fall through
// to PostgreSQL.
type CacheService struct {
	store   cacheStore
	enabled bool
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCacheService constructs the cache service. A nil store disables caching.
func NewCacheService(store cacheStore, enabled bool, ttl time.Duration, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		enabled = false
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CacheService{store: store, enabled: enabled, ttl: ttl, logger: logger}
}

// Lookup loads a cached payload. It returns false on miss or on any cache
// failure; cache errors are logged, never surfaced.
func (s *CacheService) Lookup(ctx context.Context, key string, dest interface{}) bool {
	if !s.enabled {
		return false
	}
	err := s.store.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if err != appErrors.ErrCacheMiss {
		s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

// Store saves a payload under the configured TTL, logging failures.
func (s *CacheService) Store(ctx context.Context, key string, value interface{}) {
	if !s.enabled {
		return
	}
	if err := s.store.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every key matching the pattern, logging failures.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.enabled {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// courseListKey derives the cache key for a course listing.
func courseListKey(filter models.CourseFilter) string {
	return fmt.Sprintf("courses:list:%s:%s:%d:%d:%d:%d:%s:%s",
		filter.Search, filter.Semester, filter.Year, filter.TeacherID,
		filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

// enrollmentListKey derives the cache key for an enrollment listing.
func enrollmentListKey(filter models.EnrollmentFilter) string {
	return fmt.Sprintf("enrollments:list:%d:%d:%s:%d:%d:%s:%s",
		filter.StudentID, filter.CourseID, filter.Status,
		filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}
