package domain

import (
	"strings"
	"time"
)

// ProgramInput is the desired state of a whole program tree.
type ProgramInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	WorkoutDays []DayInput `json:"workout_days"`
}

// DayInput describes one day. An empty ID (or one the program doesn't know)
// asks for a new day.
type DayInput struct {
	ID        string                 `json:"id"`
	DayOfWeek string                 `json:"day_of_week"`
	Exercises []PlannedExerciseInput `json:"exercises"`
}

// PlannedExerciseInput leaves Sets, RepsPerSet and RestPeriodBetweenSets nil
// to take the exercise template defaults.
type PlannedExerciseInput struct {
	ExerciseID            string `json:"exercise_id"`
	OrderIndex            *int   `json:"order_index"`
	Sets                  *int   `json:"sets"`
	RepsPerSet            *int   `json:"reps_per_set"`
	RestPeriodBetweenSets *int   `json:"rest_period_between_sets"`
	Notes                 string `json:"notes"`
}

func (in ProgramInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Invalid("program name is required")
	}
	if len(in.WorkoutDays) == 0 {
		return Invalid("at least one workout day is required")
	}
	return nil
}

// ProgressLogInput is a submitted session. Entries replace whatever the log held before.
type ProgressLogInput struct {
	Date               time.Time               `json:"date"`
	Notes              string                  `json:"notes"`
	WorkoutProgramID   string                  `json:"workout_program_id"`
	WorkoutDayID       string                  `json:"workout_day_id"`
	ExerciseProgresses []ExerciseProgressInput `json:"exercise_progresses"`
}

type ExerciseProgressInput struct {
	PlannedExerciseID     string    `json:"workout_day_exercise_id"`
	ReplacementExerciseID string    `json:"replacement_exercise_id"`
	OrderIndex            *int      `json:"order_index"`
	// ActualSets defaults to len(RepsPerSet) when nil. An explicit value is
	// stored as given and is not checked against RepsPerSet.
	ActualSets            *int      `json:"actual_sets"`
	RepsPerSet            []int     `json:"reps_per_set"`
	WeightPerSet          []float64 `json:"weight_per_set"`
	RestPeriodBetweenSets *int      `json:"rest_period_between_sets"`
	Completed             bool      `json:"completed"`
	Skipped               bool      `json:"skipped"`
	Notes                 string    `json:"notes"`
}

func (in ProgressLogInput) Validate() error {
	if in.Date.IsZero() {
		return Invalid("date is required")
	}
	if in.WorkoutProgramID == "" {
		return Invalid("workout program id is required")
	}
	if in.WorkoutDayID == "" {
		return Invalid("workout day id is required")
	}
	if len(in.ExerciseProgresses) == 0 {
		return Invalid("at least one exercise progress must be recorded")
	}
	return nil
}
