package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ProgressRecorder turns submitted workout results into a normalized progress
// log. Planned exercises are looked up inside the log's program, replacement
// exercises in the shared library.
type ProgressRecorder struct {
	exercises domain.ExerciseRepository
	newID     func() string
}

func NewProgressRecorder(exercises domain.ExerciseRepository) *ProgressRecorder {
	return &ProgressRecorder{
		exercises: exercises,
		newID:     generateULID,
	}
}

// Record builds a log for program from in. The returned log has no id yet.
func (r *ProgressRecorder) Record(ctx context.Context, program *domain.WorkoutProgram, in domain.ProgressLogInput) (*domain.ProgressLog, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProgressRecorder.Record")
	defer span.End()
	span.SetAttributes(
		attribute.String("program.id", program.ID),
		attribute.Int("progress.entries", len(in.ExerciseProgresses)),
	)

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.WorkoutProgramID != program.ID {
		return nil, domain.Invalid("progress log must reference program %s", program.ID)
	}
	day := program.Day(in.WorkoutDayID)
	if day == nil {
		return nil, domain.Invalid("workout day %s is not part of program %s", in.WorkoutDayID, program.ID)
	}

	entries, err := r.RecordEntries(ctx, program, in.ExerciseProgresses)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &domain.ProgressLog{
		Date:               domain.CalendarDate(in.Date),
		Notes:              in.Notes,
		WorkoutProgramID:   program.ID,
		WorkoutDayID:       day.ID,
		WorkoutDayName:     day.DayOfWeek,
		ExerciseProgresses: entries,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// RecordEntries normalizes every submitted entry and returns them ordered by order index.
func (r *ProgressRecorder) RecordEntries(ctx context.Context, program *domain.WorkoutProgram, inputs []domain.ExerciseProgressInput) ([]*domain.ExerciseProgress, error) {
	if err := validateOrderIndexes(len(inputs), func(i int) *int { return inputs[i].OrderIndex }); err != nil {
		return nil, err
	}

	entries := make([]*domain.ExerciseProgress, 0, len(inputs))
	for _, in := range inputs {
		entry, err := r.recordEntry(ctx, program, in)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OrderIndex < entries[j].OrderIndex
	})
	return entries, nil
}

func (r *ProgressRecorder) recordEntry(ctx context.Context, program *domain.WorkoutProgram, in domain.ExerciseProgressInput) (*domain.ExerciseProgress, error) {
	var planned *domain.WorkoutDayExercise
	if in.PlannedExerciseID != "" {
		_, planned = program.PlannedExercise(in.PlannedExerciseID)
		if planned == nil {
			return nil, fmt.Errorf("%s: %w", in.PlannedExerciseID, domain.ErrPlannedExerciseNotFound)
		}
	}

	var replacement *domain.Exercise
	if in.ReplacementExerciseID != "" {
		ex, err := r.exercises.GetByID(ctx, in.ReplacementExerciseID)
		if err != nil {
			return nil, fmt.Errorf("replacement exercise %s: %w", in.ReplacementExerciseID, err)
		}
		replacement = ex
	}

	details, err := ZipSetDetails(in.RepsPerSet, in.WeightPerSet)
	if err != nil {
		return nil, err
	}

	actualSets := len(details)
	if in.ActualSets != nil {
		if *in.ActualSets < 0 {
			return nil, domain.Invalid("actual sets cannot be negative")
		}
		actualSets = *in.ActualSets
	}
	if in.RestPeriodBetweenSets != nil && *in.RestPeriodBetweenSets < 0 {
		return nil, domain.Invalid("rest period cannot be negative")
	}

	return &domain.ExerciseProgress{
		ID:                    r.newID(),
		PlannedExerciseID:     in.PlannedExerciseID,
		ReplacementExerciseID: in.ReplacementExerciseID,
		ExerciseName:          DisplayName(planned, replacement),
		OrderIndex:            *in.OrderIndex,
		ActualSets:            actualSets,
		SetDetails:            details,
		RestPeriodBetweenSets: copyInt(in.RestPeriodBetweenSets),
		Completed:             in.Completed,
		Skipped:               in.Skipped,
		Notes:                 in.Notes,
	}, nil
}

// DisplayName prefers the planned exercise name and falls back to the replacement.
func DisplayName(planned *domain.WorkoutDayExercise, replacement *domain.Exercise) string {
	if planned != nil && planned.ExerciseName != "" {
		return planned.ExerciseName
	}
	if replacement != nil {
		return replacement.Name
	}
	return ""
}

// ZipSetDetails pairs reps with weights position by position. An empty weight
// list means bodyweight sets (weight 0).
func ZipSetDetails(reps []int, weights []float64) ([]domain.SetDetail, error) {
	if len(reps) == 0 {
		return nil, domain.Invalid("reps per set must not be empty")
	}
	if len(weights) != 0 && len(weights) != len(reps) {
		return nil, domain.Invalid("weight per set has %d values for %d sets", len(weights), len(reps))
	}

	details := make([]domain.SetDetail, len(reps))
	for i, rep := range reps {
		if rep < 0 {
			return nil, domain.Invalid("reps cannot be negative")
		}
		details[i].Reps = rep
		if len(weights) > 0 {
			if weights[i] < 0 {
				return nil, domain.Invalid("weight cannot be negative")
			}
			details[i].Weight = weights[i]
		}
	}
	return details, nil
}
