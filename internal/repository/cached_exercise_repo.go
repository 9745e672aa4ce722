package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
)

const (
	exerciseByIDKeyPrefix   = "exercise:id:"
	exerciseSearchKeyPrefix = "exercise:search:"
	exerciseCacheTTL        = 10 * time.Minute
)

// CachedExerciseRepository wraps an exercise repository with Redis caching.
// Writes go straight through and invalidate the affected keys.
type CachedExerciseRepository struct {
	repo  domain.ExerciseRepository
	cache *RedisCacheRepository
}

// NewCachedExerciseRepository creates a new cached exercise repository
func NewCachedExerciseRepository(repo domain.ExerciseRepository, cache *RedisCacheRepository) *CachedExerciseRepository {
	return &CachedExerciseRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetByID retrieves an exercise with caching
func (r *CachedExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	key := exerciseByIDKeyPrefix + id

	// Try cache first
	var exercise domain.Exercise
	if err := r.cache.Get(ctx, key, &exercise); err == nil {
		return &exercise, nil
	}

	// Cache miss - fetch from MongoDB
	result, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, exerciseCacheTTL)

	return result, nil
}

// Search caches each distinct query
func (r *CachedExerciseRepository) Search(ctx context.Context, name string) ([]*domain.Exercise, error) {
	key := exerciseSearchKeyPrefix + strings.ToLower(name)

	var exercises []*domain.Exercise
	if err := r.cache.Get(ctx, key, &exercises); err == nil {
		return exercises, nil
	}

	result, err := r.repo.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, result, exerciseCacheTTL)

	return result, nil
}

// Create creates an exercise and invalidates cached searches
func (r *CachedExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.repo.Create(ctx, exercise); err != nil {
		return err
	}
	r.invalidate(ctx, exercise.ID)
	return nil
}

// Update updates an exercise and invalidates its caches
func (r *CachedExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.repo.Update(ctx, exercise); err != nil {
		return err
	}
	r.invalidate(ctx, exercise.ID)
	return nil
}

// Delete deletes an exercise and invalidates its caches
func (r *CachedExerciseRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate clears the exercise and cached searches once the write is
// committed, so a concurrent read cannot re-cache the old document. Cache
// errors are ignored, entries expire on their own.
func (r *CachedExerciseRepository) invalidate(ctx context.Context, id string) {
	domain.AfterCommit(ctx, func(ctx context.Context) {
		_ = r.cache.Delete(ctx, exerciseByIDKeyPrefix+id)
		_ = r.cache.DeleteByPattern(ctx, exerciseSearchKeyPrefix+"*")
	})
}
