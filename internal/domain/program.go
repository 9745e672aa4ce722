package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrProgramNotFound         = fmt.Errorf("workout program %w", ErrNotFound)
	ErrWorkoutDayNotFound      = fmt.Errorf("workout day %w", ErrNotFound)
	ErrPlannedExerciseNotFound = fmt.Errorf("planned exercise %w", ErrNotFound)
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekOrder = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayOfWeek accepts any letter case ("monday", "Monday", "MONDAY").
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	d := DayOfWeek(strings.ToUpper(strings.TrimSpace(s)))
	if d.Ordinal() < 0 {
		return "", Invalid("unknown day of week %q", s)
	}
	return d, nil
}

// Ordinal is 0 for Monday through 6 for Sunday, -1 when unknown.
func (d DayOfWeek) Ordinal() int {
	for i, w := range weekOrder {
		if w == d {
			return i
		}
	}
	return -1
}

// WorkoutDayExercise is a planned exercise. It lives only inside its WorkoutDay.
type WorkoutDayExercise struct {
	ID                    string `json:"id" bson:"id"`
	ExerciseID            string `json:"exercise_id" bson:"exercise_id"`
	ExerciseName          string `json:"exercise_name" bson:"exercise_name"` // Denormalized for easy display
	OrderIndex            int    `json:"order_index" bson:"order_index"`
	Sets                  int    `json:"sets" bson:"sets"`
	RepsPerSet            int    `json:"reps_per_set" bson:"reps_per_set"`
	RestPeriodBetweenSets *int   `json:"rest_period_between_sets,omitempty" bson:"rest_period_between_sets,omitempty"`
	Notes                 string `json:"notes" bson:"notes"`
}

type WorkoutDay struct {
	ID        string                `json:"id" bson:"id"`
	DayOfWeek DayOfWeek             `json:"day_of_week" bson:"day_of_week"`
	Exercises []*WorkoutDayExercise `json:"exercises" bson:"exercises"`
}

// Exercise finds a planned exercise of this day by id.
func (d *WorkoutDay) Exercise(id string) *WorkoutDayExercise {
	for _, ex := range d.Exercises {
		if ex.ID == id {
			return ex
		}
	}
	return nil
}

// WorkoutProgram is the aggregate root. Days and their planned exercises are
// stored inside the program document, so removing a program or a day removes
// everything it owns.
type WorkoutProgram struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	OwnerID     string        `json:"owner_id" bson:"owner_id"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Days        []*WorkoutDay `json:"workout_days" bson:"workout_days"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// Day finds a day of this program by id.
func (p *WorkoutProgram) Day(id string) *WorkoutDay {
	for _, d := range p.Days {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// PlannedExercise finds a planned exercise anywhere in the program.
func (p *WorkoutProgram) PlannedExercise(id string) (*WorkoutDay, *WorkoutDayExercise) {
	for _, d := range p.Days {
		if ex := d.Exercise(id); ex != nil {
			return d, ex
		}
	}
	return nil, nil
}

// Presented returns a copy ordered for display: days by day-of-week ordinal
// (stable, so duplicate weekdays keep their stored order) and planned
// exercises by order index. The receiver is left untouched.
func (p *WorkoutProgram) Presented() *WorkoutProgram {
	out := *p
	out.Days = make([]*WorkoutDay, 0, len(p.Days))
	for _, d := range p.Days {
		day := *d
		day.Exercises = append([]*WorkoutDayExercise(nil), d.Exercises...)
		sort.SliceStable(day.Exercises, func(i, j int) bool {
			return day.Exercises[i].OrderIndex < day.Exercises[j].OrderIndex
		})
		out.Days = append(out.Days, &day)
	}
	sort.SliceStable(out.Days, func(i, j int) bool {
		return out.Days[i].DayOfWeek.Ordinal() < out.Days[j].DayOfWeek.Ordinal()
	})
	return &out
}

type ProgramRepository interface {
	Create(ctx context.Context, program *WorkoutProgram) error
	GetByID(ctx context.Context, id string) (*WorkoutProgram, error)
	// GetByDayID returns the program owning the day.
	GetByDayID(ctx context.Context, dayID string) (*WorkoutProgram, error)
	// GetByPlannedExerciseID returns the program owning the planned exercise.
	GetByPlannedExerciseID(ctx context.Context, plannedExerciseID string) (*WorkoutProgram, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*WorkoutProgram, error)
	// ListByExercise returns every program planning the exercise, across owners.
	ListByExercise(ctx context.Context, exerciseID string) ([]*WorkoutProgram, error)
	// Replace saves the whole tree. Children missing from the new tree are gone.
	Replace(ctx context.Context, program *WorkoutProgram) error
	Delete(ctx context.Context, id string) error
	// RemoveExerciseUsages pulls every planned exercise referencing the exercise.
	RemoveExerciseUsages(ctx context.Context, exerciseID string) (int64, error)
	// RenameExercise refreshes the denormalized exercise name on planned exercises.
	RenameExercise(ctx context.Context, exerciseID, name string) error
}
