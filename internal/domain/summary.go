package domain

import "time"

// LogSummary counts a log's entries. Completed and skipped are counted
// independently, an entry may be both.
type LogSummary struct {
	ID                 string    `json:"id"`
	Date               time.Time `json:"date"`
	WorkoutProgramID   string    `json:"workout_program_id"`
	WorkoutDayName     DayOfWeek `json:"workout_day_name"`
	TotalExercises     int       `json:"total_exercises"`
	CompletedExercises int       `json:"completed_exercises"`
	SkippedExercises   int       `json:"skipped_exercises"`
}

// ProgramWithLastLog is a program listing row for programs that have logs.
type ProgramWithLastLog struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LastLogDate time.Time `json:"last_log_date"`
}

// ProgramOverview is both listing views at once.
type ProgramOverview struct {
	WithLogs    []ProgramWithLastLog `json:"with_logs"`
	WithoutLogs []*WorkoutProgram    `json:"without_logs"`
}
