package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	"github.com/Yayabtw/ishak-school-new/internal/validation"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
)

type fakeCacheStore struct {
	values map[string][]byte
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{values: map[string][]byte{}}
}

func (f *fakeCacheStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func (f *fakeCacheStore) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			delete(f.values, key)
		}
	}
	return nil
}

func TestCacheServiceLookupMissAndHit(t *testing.T) {
	store := newFakeCacheStore()
	cache := NewCacheService(store, true, time.Minute, nil)

	var out string
	assert.False(t, cache.Lookup(context.Background(), "k", &out))

	cache.Store(context.Background(), "k", "valeur")
	require.True(t, cache.Lookup(context.Background(), "k", &out))
	assert.Equal(t, "valeur", out)
}

func TestCacheServiceDisabledNeverHits(t *testing.T) {
	store := newFakeCacheStore()
	cache := NewCacheService(store, false, time.Minute, nil)

	cache.Store(context.Background(), "k", "valeur")
	var out string
	assert.False(t, cache.Lookup(context.Background(), "k", &out))
	assert.Empty(t, store.values)
}

func TestCourseServiceListUsesCache(t *testing.T) {
	courses := newMockCourseRepo()
	teachers := newMockTeacherRepo()
	teachers.teachers[1] = models.Teacher{ID: 1, FirstName: "Marie", LastName: "Dupont", Email: "marie.dupont@example.com", Speciality: "Mathématiques"}
	cache := NewCacheService(newFakeCacheStore(), true, time.Minute, nil)
	svc := NewCourseService(courses, teachers, cache, validation.New(testNow), nil, testNow)

	_, err := svc.Create(context.Background(), coursePayload())
	require.NoError(t, err)

	_, _, hit, err := svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.False(t, hit)

	items, pagination, hit, err := svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)

	// A mutation invalidates the listings.
	payload := coursePayload()
	payload.Code = strPtr("PHYS201")
	payload.Name = strPtr("Physique quantique")
	_, err = svc.Create(context.Background(), payload)
	require.NoError(t, err)

	_, _, hit, err = svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
}
