package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDayOfWeek(t *testing.T) {
	tests := []struct {
		in      string
		want    DayOfWeek
		wantErr bool
	}{
		{in: "MONDAY", want: Monday},
		{in: "sunday", want: Sunday},
		{in: " Wednesday ", want: Wednesday},
		{in: "", wantErr: true},
		{in: "MON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDayOfWeek(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseDayOfWeek(%q) error = %v, want validation error", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDayOfWeek(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWorkoutProgram_Presented(t *testing.T) {
	program := &WorkoutProgram{
		ID: "p1",
		Days: []*WorkoutDay{
			{ID: "sun", DayOfWeek: Sunday},
			{ID: "mon-2", DayOfWeek: Monday},
			{ID: "wed", DayOfWeek: Wednesday, Exercises: []*WorkoutDayExercise{
				{ID: "c", OrderIndex: 2},
				{ID: "a", OrderIndex: 0},
				{ID: "b", OrderIndex: 1},
			}},
			{ID: "mon-1", DayOfWeek: Monday},
		},
	}

	presented := program.Presented()

	wantDays := []string{"mon-2", "mon-1", "wed", "sun"}
	for i, id := range wantDays {
		if presented.Days[i].ID != id {
			t.Errorf("day %d = %s, want %s", i, presented.Days[i].ID, id)
		}
	}
	wantExercises := []string{"a", "b", "c"}
	for i, id := range wantExercises {
		if presented.Days[2].Exercises[i].ID != id {
			t.Errorf("exercise %d = %s, want %s", i, presented.Days[2].Exercises[i].ID, id)
		}
	}

	// the stored order is untouched
	if program.Days[0].ID != "sun" || program.Days[2].Exercises[0].ID != "c" {
		t.Errorf("Presented() modified the program")
	}
}

func TestWorkoutProgram_PlannedExercise(t *testing.T) {
	program := &WorkoutProgram{Days: []*WorkoutDay{
		{ID: "d1", Exercises: []*WorkoutDayExercise{{ID: "e1"}}},
		{ID: "d2", Exercises: []*WorkoutDayExercise{{ID: "e2"}}},
	}}

	day, ex := program.PlannedExercise("e2")
	if day == nil || day.ID != "d2" || ex == nil || ex.ID != "e2" {
		t.Errorf("PlannedExercise(e2) = %v, %v", day, ex)
	}
	if _, ex := program.PlannedExercise("missing"); ex != nil {
		t.Errorf("PlannedExercise(missing) = %v, want nil", ex)
	}
}

func TestExercise_Validate(t *testing.T) {
	rest := -1
	tests := []struct {
		name     string
		exercise Exercise
		wantErr  bool
	}{
		{"valid", Exercise{Name: "Squat", DefaultSets: 3, DefaultRepsPerSet: 5}, false},
		{"blank name", Exercise{Name: "  ", DefaultSets: 3, DefaultRepsPerSet: 5}, true},
		{"zero sets", Exercise{Name: "Squat", DefaultRepsPerSet: 5}, true},
		{"zero reps", Exercise{Name: "Squat", DefaultSets: 3}, true},
		{"negative rest", Exercise{Name: "Squat", DefaultSets: 3, DefaultRepsPerSet: 5, DefaultRestPeriodBetweenSets: &rest}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exercise.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalendarDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 2, 28, 18, 0, 0, 0, time.UTC), time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 29, 3, 0, 0, 0, jakarta), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Time{}, time.Time{}},
	}

	for _, tt := range tests {
		if got := CalendarDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("CalendarDate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
