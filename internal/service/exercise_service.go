package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
)

// ErrMediaStorageDisabled is returned by media uploads when no object storage is configured.
var ErrMediaStorageDisabled = errors.New("media storage is not configured")

// ExerciseService manages the shared exercise library.
type ExerciseService struct {
	guard     *AccessGuard
	exercises domain.ExerciseRepository
	programs  domain.ProgramRepository
	files     domain.FileRepository
	tx        domain.Transactor
}

// NewExerciseService creates the service. files may be nil, media uploads then fail.
func NewExerciseService(
	guard *AccessGuard,
	exercises domain.ExerciseRepository,
	programs domain.ProgramRepository,
	files domain.FileRepository,
	tx domain.Transactor,
) *ExerciseService {
	return &ExerciseService{
		guard:     guard,
		exercises: exercises,
		programs:  programs,
		files:     files,
		tx:        tx,
	}
}

func (s *ExerciseService) Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	exercise.ID = ""
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

// Search matches names case-insensitively. An empty query lists the whole library.
func (s *ExerciseService) Search(ctx context.Context, name string) ([]*domain.Exercise, error) {
	exercises, err := s.exercises.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}
	return exercises, nil
}

// Update rewrites an exercise. It is refused when a program of another user
// uses the exercise. A new name is copied onto every planned exercise using it.
func (s *ExerciseService) Update(ctx context.Context, username, id string, in *domain.Exercise) (*domain.Exercise, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Exercise
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, using, err := s.editable(ctx, username, id)
		if err != nil {
			return err
		}

		next := *current
		next.Name = in.Name
		next.Description = in.Description
		next.DefaultSets = in.DefaultSets
		next.DefaultRepsPerSet = in.DefaultRepsPerSet
		next.DefaultRestPeriodBetweenSets = copyInt(in.DefaultRestPeriodBetweenSets)
		if in.MediaLink != "" {
			next.MediaLink = in.MediaLink
		}
		next.UpdatedAt = time.Now()

		if err := s.exercises.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}
		if next.Name != current.Name && len(using) > 0 {
			if err := s.programs.RenameExercise(ctx, id, next.Name); err != nil {
				return fmt.Errorf("failed to rename planned exercises: %w", err)
			}
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// editable loads an exercise the requester may change: every program that
// plans it must be theirs. It also returns those programs.
func (s *ExerciseService) editable(ctx context.Context, username, id string) (*domain.Exercise, []*domain.WorkoutProgram, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	using, err := s.programs.ListByExercise(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list programs using exercise: %w", err)
	}
	for _, p := range using {
		if err := CheckOwner(p.OwnerID, requester); err != nil {
			return nil, nil, err
		}
	}
	return exercise, using, nil
}

// Delete removes an exercise and every planned exercise referencing it, in
// any program. Progress entries keep their recorded name.
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.delete(ctx, id)
	})
}

// BatchDelete removes several exercises atomically. Any unknown id aborts the batch.
func (s *ExerciseService) BatchDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domain.Invalid("at least one exercise id is required")
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ExerciseService) delete(ctx context.Context, id string) error {
	if _, err := s.exercises.GetByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.programs.RemoveExerciseUsages(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to remove exercise usages: %w", err)
	}
	if err := s.exercises.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if removed > 0 {
		log.Printf("Exercise %s deleted, removed from %d program(s)", id, removed)
	}
	return nil
}

// Usage reports which of the requester's programs and days use an exercise
func (s *ExerciseService) Usage(ctx context.Context, username, id string) (*domain.ExerciseUsage, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}

	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByExercise(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs using exercise: %w", err)
	}

	usage := &domain.ExerciseUsage{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Programs:     []domain.ExerciseProgramUsage{},
	}
	for _, p := range programs {
		if CheckOwner(p.OwnerID, requester) != nil {
			continue
		}
		pu := domain.ExerciseProgramUsage{ProgramID: p.ID, ProgramName: p.Name}
		for _, day := range p.Presented().Days {
			for _, planned := range day.Exercises {
				if planned.ExerciseID == id {
					pu.Days = append(pu.Days, domain.ExerciseDayUsage{DayID: day.ID, DayOfWeek: day.DayOfWeek})
					break
				}
			}
		}
		usage.Programs = append(usage.Programs, pu)
	}
	return usage, nil
}

// UploadMedia stores a demonstration file and links it to the exercise.
// The same ownership rule as Update applies.
func (s *ExerciseService) UploadMedia(ctx context.Context, username, id string, file []byte, filename, contentType string) (*domain.Exercise, error) {
	if s.files == nil {
		return nil, ErrMediaStorageDisabled
	}

	exercise, _, err := s.editable(ctx, username, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exercises/%s/%s%s", id, generateULID(), filepath.Ext(filename))
	url, err := s.files.Upload(ctx, file, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload media: %w", err)
	}

	next := *exercise
	next.MediaLink = url
	next.UpdatedAt = time.Now()
	if err := s.exercises.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return &next, nil
}
