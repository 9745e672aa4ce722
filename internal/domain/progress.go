package domain

import (
	"context"
	"fmt"
	"time"
)

var (
	ErrProgressLogNotFound      = fmt.Errorf("progress log %w", ErrNotFound)
	ErrExerciseProgressNotFound = fmt.Errorf("exercise progress %w", ErrNotFound)
)

// SetDetail is what was actually done in one set.
type SetDetail struct {
	Reps   int     `json:"reps" bson:"reps"`
	Weight float64 `json:"weight" bson:"weight"`
}

// ExerciseProgress is the outcome for one exercise of a logged session.
// It only exists inside its ProgressLog.
type ExerciseProgress struct {
	ID                    string      `json:"id" bson:"id"`
	PlannedExerciseID     string      `json:"workout_day_exercise_id,omitempty" bson:"planned_exercise_id,omitempty"`
	ReplacementExerciseID string      `json:"replacement_exercise_id,omitempty" bson:"replacement_exercise_id,omitempty"`
	ExerciseName          string      `json:"exercise_name" bson:"exercise_name"` // Snapshot at record time
	OrderIndex            int         `json:"order_index" bson:"order_index"`
	ActualSets            int         `json:"actual_sets" bson:"actual_sets"`
	SetDetails            []SetDetail `json:"set_details" bson:"set_details"`
	RestPeriodBetweenSets *int        `json:"rest_period_between_sets,omitempty" bson:"rest_period_between_sets,omitempty"`
	Completed             bool        `json:"completed" bson:"completed"`
	Skipped               bool        `json:"skipped" bson:"skipped"`
	Notes                 string      `json:"notes" bson:"notes"`
}

// RepsPerSet and WeightPerSet return the set details as parallel lists,
// the shape clients submit them in.
func (e *ExerciseProgress) RepsPerSet() []int {
	reps := make([]int, len(e.SetDetails))
	for i, s := range e.SetDetails {
		reps[i] = s.Reps
	}
	return reps
}

func (e *ExerciseProgress) WeightPerSet() []float64 {
	weights := make([]float64, len(e.SetDetails))
	for i, s := range e.SetDetails {
		weights[i] = s.Weight
	}
	return weights
}

// CalendarDate drops the time of day, keeping the date as seen in t's own
// location. Log dates and range bounds are compared as calendar dates.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProgressLog records one training session against a program day.
type ProgressLog struct {
	ID                 string              `json:"id" bson:"_id,omitempty"`
	Date               time.Time           `json:"date" bson:"date"`
	Notes              string              `json:"notes" bson:"notes"`
	WorkoutProgramID   string              `json:"workout_program_id" bson:"workout_program_id"`
	WorkoutDayID       string              `json:"workout_day_id" bson:"workout_day_id"`
	WorkoutDayName     DayOfWeek           `json:"workout_day_name" bson:"workout_day_name"` // Snapshot, the day may be removed later
	ExerciseProgresses []*ExerciseProgress `json:"exercise_progresses" bson:"exercise_progresses"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// Entry finds an exercise progress entry of this log by id.
func (l *ProgressLog) Entry(id string) *ExerciseProgress {
	for _, e := range l.ExerciseProgresses {
		if e.ID == id {
			return e
		}
	}
	return nil
}

type ProgressLogRepository interface {
	Create(ctx context.Context, log *ProgressLog) error
	GetByID(ctx context.Context, id string) (*ProgressLog, error)
	// GetByEntryID returns the log owning the exercise progress entry.
	GetByEntryID(ctx context.Context, entryID string) (*ProgressLog, error)
	Replace(ctx context.Context, log *ProgressLog) error
	Delete(ctx context.Context, id string) error
	// DeleteByProgramID removes every log of a program (cascade)
	DeleteByProgramID(ctx context.Context, programID string) (int64, error)
	// ListByProgram returns a program's logs, newest date first.
	ListByProgram(ctx context.Context, programID string) ([]*ProgressLog, error)
	// ListByProgramsInRange returns logs of the given programs dated within [from, to], newest first.
	ListByProgramsInRange(ctx context.Context, programIDs []string, from, to time.Time) ([]*ProgressLog, error)
	// LastLogDates maps each program that has logs to its most recent log date.
	LastLogDates(ctx context.Context, programIDs []string) (map[string]time.Time, error)
	// ProgramIDsWithLogs is the existence check: the subset of programIDs referenced by at least one log.
	ProgramIDsWithLogs(ctx context.Context, programIDs []string) (map[string]bool, error)
}
