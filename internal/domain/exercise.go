package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

var (
	ErrExerciseNotFound = fmt.Errorf("exercise %w", ErrNotFound)
)

// Exercise is a template in the shared library. It has no owner.
type Exercise struct {
	ID                           string    `json:"id" bson:"_id,omitempty"`
	Name                         string    `json:"name" bson:"name"`
	Description                  string    `json:"description" bson:"description"`
	DefaultSets                  int       `json:"default_sets" bson:"default_sets"`
	DefaultRepsPerSet            int       `json:"default_reps_per_set" bson:"default_reps_per_set"`
	DefaultRestPeriodBetweenSets *int      `json:"default_rest_period_between_sets,omitempty" bson:"default_rest_period_between_sets,omitempty"` // seconds
	MediaLink                    string    `json:"media_link" bson:"media_link"`
	CreatedAt                    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the template fields a planned exercise may fall back on.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return Invalid("exercise name is required")
	}
	if e.DefaultSets < 1 {
		return Invalid("default sets must be at least 1")
	}
	if e.DefaultRepsPerSet < 1 {
		return Invalid("default reps must be at least 1")
	}
	if e.DefaultRestPeriodBetweenSets != nil && *e.DefaultRestPeriodBetweenSets < 0 {
		return Invalid("rest period cannot be negative")
	}
	return nil
}

// ExerciseUsage lists the caller's programs and days that plan an exercise.
type ExerciseUsage struct {
	ExerciseID   string                 `json:"exercise_id"`
	ExerciseName string                 `json:"exercise_name"`
	Programs     []ExerciseProgramUsage `json:"programs"`
}

type ExerciseProgramUsage struct {
	ProgramID   string             `json:"program_id"`
	ProgramName string             `json:"program_name"`
	Days        []ExerciseDayUsage `json:"days"`
}

type ExerciseDayUsage struct {
	DayID     string    `json:"day_id"`
	DayOfWeek DayOfWeek `json:"day_of_week"`
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	// Search matches name as a case-insensitive substring. An empty name lists everything.
	Search(ctx context.Context, name string) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id string) error
}

// FileRepository stores exercise media and returns a public link.
type FileRepository interface {
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}
