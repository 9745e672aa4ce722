package service

import (
	"context"
	"testing"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipSetDetails(t *testing.T) {
	tests := []struct {
		name     string
		reps     []int
		weights  []float64
		expected []domain.SetDetail
		wantErr  bool
	}{
		{
			name:     "paired",
			reps:     []int{10, 10, 8},
			weights:  []float64{50, 50, 55},
			expected: []domain.SetDetail{{Reps: 10, Weight: 50}, {Reps: 10, Weight: 50}, {Reps: 8, Weight: 55}},
		},
		{
			name:     "bodyweight",
			reps:     []int{15, 12},
			expected: []domain.SetDetail{{Reps: 15}, {Reps: 12}},
		},
		{name: "no reps", reps: nil, wantErr: true},
		{name: "too few weights", reps: []int{10, 10}, weights: []float64{50}, wantErr: true},
		{name: "too many weights", reps: []int{10}, weights: []float64{50, 60}, wantErr: true},
		{name: "negative reps", reps: []int{-1}, wantErr: true},
		{name: "negative weight", reps: []int{5}, weights: []float64{-20}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := ZipSetDetails(tt.reps, tt.weights)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, details)
		})
	}
}

func TestDisplayName(t *testing.T) {
	plannedRow := &domain.WorkoutDayExercise{ExerciseName: "Back Squat"}
	replacement := &domain.Exercise{Name: "Leg Press"}

	assert.Equal(t, "Back Squat", DisplayName(plannedRow, replacement))
	assert.Equal(t, "Back Squat", DisplayName(plannedRow, nil))
	assert.Equal(t, "Leg Press", DisplayName(nil, replacement))
	assert.Equal(t, "", DisplayName(nil, nil))
}

func recorderProgram(t *testing.T, f *fixture) (*domain.WorkoutProgram, *domain.Exercise) {
	t.Helper()
	squat := f.addExercise(t, 3, 10, nil)
	program, err := f.reconciler.Build(context.Background(), "owner", domain.ProgramInput{
		Name:        "Legs",
		WorkoutDays: []domain.DayInput{dayInput("MONDAY", planned(squat.ID, 0))},
	})
	require.NoError(t, err)
	program.ID = "program-1"
	return program, squat
}

func TestProgressRecorder_Record(t *testing.T) {
	f := newFixture()
	program, squat := recorderProgram(t, f)
	legPress := f.addExercise(t, 3, 12, nil)
	day := program.Days[0]
	plannedRow := day.Exercises[0]

	progress, err := f.recorder.Record(context.Background(), program, domain.ProgressLogInput{
		Date:             date(2024, 3, 4),
		Notes:            "felt strong",
		WorkoutProgramID: program.ID,
		WorkoutDayID:     day.ID,
		ExerciseProgresses: []domain.ExerciseProgressInput{
			{
				ReplacementExerciseID: legPress.ID,
				OrderIndex:            intPtr(1),
				RepsPerSet:            []int{12, 12},
				Skipped:               true,
				Completed:             true,
			},
			{
				PlannedExerciseID:     plannedRow.ID,
				OrderIndex:            intPtr(0),
				ActualSets:            intPtr(3),
				RepsPerSet:            []int{10, 10, 8},
				WeightPerSet:          []float64{50, 50, 55},
				RestPeriodBetweenSets: intPtr(90),
				Completed:             true,
				Notes:                 "last set grindy",
			},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, progress.ID)
	assert.Equal(t, program.ID, progress.WorkoutProgramID)
	assert.Equal(t, day.ID, progress.WorkoutDayID)
	assert.Equal(t, domain.Monday, progress.WorkoutDayName)
	assert.Equal(t, "felt strong", progress.Notes)
	require.Len(t, progress.ExerciseProgresses, 2)

	first := progress.ExerciseProgresses[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, squat.Name, first.ExerciseName)
	assert.Equal(t, 3, first.ActualSets)
	assert.Equal(t, []int{10, 10, 8}, first.RepsPerSet())
	assert.Equal(t, []float64{50, 50, 55}, first.WeightPerSet())
	assert.Equal(t, 90, *first.RestPeriodBetweenSets)
	assert.True(t, first.Completed)
	assert.False(t, first.Skipped)
	assert.Equal(t, "last set grindy", first.Notes)

	second := progress.ExerciseProgresses[1]
	assert.Equal(t, legPress.Name, second.ExerciseName)
	assert.Equal(t, 2, second.ActualSets)
	assert.Equal(t, []float64{0, 0}, second.WeightPerSet())
	assert.True(t, second.Completed)
	assert.True(t, second.Skipped)
}

func TestProgressRecorder_Record_ActualSetsNotCheckedAgainstReps(t *testing.T) {
	f := newFixture()
	program, _ := recorderProgram(t, f)
	day := program.Days[0]

	progress, err := f.recorder.Record(context.Background(), program, domain.ProgressLogInput{
		Date:             date(2024, 3, 4),
		WorkoutProgramID: program.ID,
		WorkoutDayID:     day.ID,
		ExerciseProgresses: []domain.ExerciseProgressInput{{
			PlannedExerciseID: day.Exercises[0].ID,
			OrderIndex:        intPtr(0),
			ActualSets:        intPtr(5),
			RepsPerSet:        []int{10, 10},
		}},
	})
	require.NoError(t, err)
	require.Len(t, progress.ExerciseProgresses, 1)
	assert.Equal(t, 5, progress.ExerciseProgresses[0].ActualSets)
	assert.Equal(t, []int{10, 10}, progress.ExerciseProgresses[0].RepsPerSet())
}

func TestProgressRecorder_Record_Errors(t *testing.T) {
	f := newFixture()
	program, _ := recorderProgram(t, f)
	day := program.Days[0]
	entry := func(mod func(in *domain.ExerciseProgressInput)) []domain.ExerciseProgressInput {
		in := domain.ExerciseProgressInput{
			PlannedExerciseID: day.Exercises[0].ID,
			OrderIndex:        intPtr(0),
			RepsPerSet:        []int{10},
		}
		if mod != nil {
			mod(&in)
		}
		return []domain.ExerciseProgressInput{in}
	}

	tests := []struct {
		name    string
		in      domain.ProgressLogInput
		wantErr error
	}{
		{
			name:    "missing date",
			in:      domain.ProgressLogInput{WorkoutProgramID: program.ID, WorkoutDayID: day.ID, ExerciseProgresses: entry(nil)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "no entries",
			in:      domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "day from elsewhere",
			in:      domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: "foreign-day", ExerciseProgresses: entry(nil)},
			wantErr: domain.ErrValidation,
		},
		{
			name: "unknown planned exercise",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.PlannedExerciseID = "nope" })},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "unknown replacement exercise",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.ReplacementExerciseID = "nope" })},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "empty reps",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.RepsPerSet = nil })},
			wantErr: domain.ErrValidation,
		},
		{
			name: "mismatched weights",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.WeightPerSet = []float64{1, 2} })},
			wantErr: domain.ErrValidation,
		},
		{
			name: "negative actual sets",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.ActualSets = intPtr(-1) })},
			wantErr: domain.ErrValidation,
		},
		{
			name: "missing order index",
			in: domain.ProgressLogInput{Date: date(2024, 1, 1), WorkoutProgramID: program.ID, WorkoutDayID: day.ID,
				ExerciseProgresses: entry(func(in *domain.ExerciseProgressInput) { in.OrderIndex = nil })},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recorder.Record(context.Background(), program, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProgressRecorder_RecordEntries_DuplicateOrderIndex(t *testing.T) {
	f := newFixture()
	program, _ := recorderProgram(t, f)

	_, err := f.recorder.RecordEntries(context.Background(), program, []domain.ExerciseProgressInput{
		{OrderIndex: intPtr(0), RepsPerSet: []int{5}},
		{OrderIndex: intPtr(0), RepsPerSet: []int{5}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProgressRecorder_RecordEntries_KeepsSubmittedIndexes(t *testing.T) {
	f := newFixture()
	program, _ := recorderProgram(t, f)

	entries, err := f.recorder.RecordEntries(context.Background(), program, []domain.ExerciseProgressInput{
		{OrderIndex: intPtr(7), RepsPerSet: []int{5}},
		{OrderIndex: intPtr(3), RepsPerSet: []int{5}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].OrderIndex)
	assert.Equal(t, 7, entries[1].OrderIndex)
}
