package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/mansoorceksport/fitbuddy/internal/service"

// generateULID creates a new ULID string
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ProgramReconciler builds and merges program trees. Days are diffed by id so
// unchanged days keep their identity; a day's exercise list is always
// replaced wholesale with freshly identified rows.
//
// The reconciler never writes. Callers persist the result inside a transaction.
type ProgramReconciler struct {
	exercises domain.ExerciseRepository
	newID     func() string
}

func NewProgramReconciler(exercises domain.ExerciseRepository) *ProgramReconciler {
	return &ProgramReconciler{
		exercises: exercises,
		newID:     generateULID,
	}
}

// Build creates a brand new program tree owned by ownerID. Incoming day ids are ignored.
func (r *ProgramReconciler) Build(ctx context.Context, ownerID string, in domain.ProgramInput) (*domain.WorkoutProgram, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProgramReconciler.Build")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	days := make([]*domain.WorkoutDay, 0, len(in.WorkoutDays))
	for _, dayIn := range in.WorkoutDays {
		day, err := r.newDay(ctx, dayIn)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	span.SetAttributes(attribute.Int("program.days", len(days)))

	now := time.Now()
	return &domain.WorkoutProgram{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Days:        days,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Reconcile applies a full program update on top of current and returns the
// new tree together with the days that were dropped. current is not modified.
func (r *ProgramReconciler) Reconcile(ctx context.Context, current *domain.WorkoutProgram, in domain.ProgramInput) (*domain.WorkoutProgram, []*domain.WorkoutDay, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProgramReconciler.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("program.id", current.ID))

	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	merged, removed, err := r.MergeDaysByID(ctx, current.Days, in.WorkoutDays)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(
		attribute.Int("program.days", len(merged)),
		attribute.Int("program.days_removed", len(removed)),
	)

	updated := *current
	updated.Name = in.Name
	updated.Description = in.Description
	updated.Days = merged
	updated.UpdatedAt = time.Now()
	return &updated, removed, nil
}

// ReplaceDay replaces the exercises of one day of program and, when given,
// its day of week. Other days are shared with program unchanged.
func (r *ProgramReconciler) ReplaceDay(ctx context.Context, program *domain.WorkoutProgram, dayID string, in domain.DayInput) (*domain.WorkoutProgram, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProgramReconciler.ReplaceDay")
	defer span.End()
	span.SetAttributes(attribute.String("program.id", program.ID), attribute.String("day.id", dayID))

	if program.Day(dayID) == nil {
		return nil, domain.ErrWorkoutDayNotFound
	}

	updated := *program
	updated.Days = make([]*domain.WorkoutDay, len(program.Days))
	for i, day := range program.Days {
		if day.ID != dayID {
			updated.Days[i] = day
			continue
		}
		replaced, err := r.updateDay(ctx, day, in)
		if err != nil {
			return nil, err
		}
		updated.Days[i] = replaced
	}
	updated.UpdatedAt = time.Now()
	return &updated, nil
}

// MergeDaysByID matches incoming days to existing ones by id. A matched day
// keeps its id and gets the incoming day of week and a fresh exercise list.
// Unmatched incoming days are created, unmatched existing days are returned
// as removed. The merged list follows the incoming order.
func (r *ProgramReconciler) MergeDaysByID(ctx context.Context, existing []*domain.WorkoutDay, incoming []domain.DayInput) ([]*domain.WorkoutDay, []*domain.WorkoutDay, error) {
	byID := make(map[string]*domain.WorkoutDay, len(existing))
	for _, day := range existing {
		byID[day.ID] = day
	}

	merged := make([]*domain.WorkoutDay, 0, len(incoming))
	for _, in := range incoming {
		if current, ok := byID[in.ID]; ok && in.ID != "" {
			delete(byID, in.ID)
			day, err := r.updateDay(ctx, current, in)
			if err != nil {
				return nil, nil, err
			}
			merged = append(merged, day)
			continue
		}
		day, err := r.newDay(ctx, in)
		if err != nil {
			return nil, nil, err
		}
		merged = append(merged, day)
	}

	var removed []*domain.WorkoutDay
	for _, day := range existing {
		if _, ok := byID[day.ID]; ok {
			removed = append(removed, day)
		}
	}
	return merged, removed, nil
}

// ReplaceExercises turns a submitted exercise list into new planned exercise
// rows sorted by order index. Defaults are resolved against each referenced exercise.
func (r *ProgramReconciler) ReplaceExercises(ctx context.Context, inputs []domain.PlannedExerciseInput) ([]*domain.WorkoutDayExercise, error) {
	if err := validateOrderIndexes(len(inputs), func(i int) *int { return inputs[i].OrderIndex }); err != nil {
		return nil, err
	}

	resolved := make(map[string]*domain.Exercise)
	rows := make([]*domain.WorkoutDayExercise, 0, len(inputs))
	for _, in := range inputs {
		ex, ok := resolved[in.ExerciseID]
		if !ok {
			var err error
			ex, err = r.exercises.GetByID(ctx, in.ExerciseID)
			if err != nil {
				return nil, fmt.Errorf("exercise %s: %w", in.ExerciseID, err)
			}
			resolved[in.ExerciseID] = ex
		}

		v := ResolveExerciseDefaults(in, ex)
		if v.Sets < 1 {
			return nil, domain.Invalid("sets for %s must be at least 1", ex.Name)
		}
		if v.RepsPerSet < 1 {
			return nil, domain.Invalid("reps per set for %s must be at least 1", ex.Name)
		}
		if v.RestPeriodBetweenSets != nil && *v.RestPeriodBetweenSets < 0 {
			return nil, domain.Invalid("rest period for %s cannot be negative", ex.Name)
		}

		rows = append(rows, &domain.WorkoutDayExercise{
			ID:                    r.newID(),
			ExerciseID:            ex.ID,
			ExerciseName:          ex.Name,
			OrderIndex:            *in.OrderIndex,
			Sets:                  v.Sets,
			RepsPerSet:            v.RepsPerSet,
			RestPeriodBetweenSets: v.RestPeriodBetweenSets,
			Notes:                 in.Notes,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OrderIndex < rows[j].OrderIndex
	})
	return rows, nil
}

func (r *ProgramReconciler) newDay(ctx context.Context, in domain.DayInput) (*domain.WorkoutDay, error) {
	dow, err := domain.ParseDayOfWeek(in.DayOfWeek)
	if err != nil {
		return nil, err
	}
	exercises, err := r.ReplaceExercises(ctx, in.Exercises)
	if err != nil {
		return nil, err
	}
	return &domain.WorkoutDay{
		ID:        r.newID(),
		DayOfWeek: dow,
		Exercises: exercises,
	}, nil
}

func (r *ProgramReconciler) updateDay(ctx context.Context, current *domain.WorkoutDay, in domain.DayInput) (*domain.WorkoutDay, error) {
	dow := current.DayOfWeek
	if in.DayOfWeek != "" {
		parsed, err := domain.ParseDayOfWeek(in.DayOfWeek)
		if err != nil {
			return nil, err
		}
		dow = parsed
	}
	exercises, err := r.ReplaceExercises(ctx, in.Exercises)
	if err != nil {
		return nil, err
	}
	return &domain.WorkoutDay{
		ID:        current.ID,
		DayOfWeek: dow,
		Exercises: exercises,
	}, nil
}

// validateOrderIndexes requires every order index to be present, non negative and unique.
func validateOrderIndexes(n int, at func(i int) *int) error {
	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		idx := at(i)
		if idx == nil {
			return domain.Invalid("order index is required")
		}
		if *idx < 0 {
			return domain.Invalid("order index cannot be negative")
		}
		if seen[*idx] {
			return domain.Invalid("duplicate order index %d", *idx)
		}
		seen[*idx] = true
	}
	return nil
}
