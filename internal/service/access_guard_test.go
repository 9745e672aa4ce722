package service

import (
	"context"
	"testing"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOwner(t *testing.T) {
	owner := &domain.User{ID: "u1"}

	assert.NoError(t, CheckOwner("u1", owner))
	assert.ErrorIs(t, CheckOwner("u2", owner), domain.ErrAccessDenied)
	assert.ErrorIs(t, CheckOwner("", owner), domain.ErrAccessDenied)
	assert.ErrorIs(t, CheckOwner("u1", nil), domain.ErrAccessDenied)
}

// guardFixture: owner has a program with one planned exercise and one logged entry.
func guardFixture(t *testing.T) (*fixture, *domain.User, *domain.User, *domain.WorkoutProgram, *domain.ProgressLog) {
	t.Helper()
	f := newFixture()
	owner := f.addUser(t)
	stranger := f.addUser(t)
	squat := f.addExercise(t, 3, 10, nil)
	program := f.addProgram(t, owner, dayInput("MONDAY", planned(squat.ID, 0)))

	progress, err := f.progressSvc.Create(context.Background(), owner.Username, domain.ProgressLogInput{
		Date:             date(2024, 2, 2),
		WorkoutProgramID: program.ID,
		WorkoutDayID:     program.Days[0].ID,
		ExerciseProgresses: []domain.ExerciseProgressInput{
			{PlannedExerciseID: program.Days[0].Exercises[0].ID, OrderIndex: intPtr(0), RepsPerSet: []int{5, 5}},
		},
	})
	require.NoError(t, err)
	return f, owner, stranger, program, progress
}

func TestAccessGuard_Owner(t *testing.T) {
	f, owner, _, program, progress := guardFixture(t)
	ctx := context.Background()

	got, err := f.guard.AuthorizeProgram(ctx, owner.Username, program.ID)
	require.NoError(t, err)
	assert.Equal(t, program.ID, got.ID)

	_, day, err := f.guard.AuthorizeDay(ctx, owner.Username, program.ID, program.Days[0].ID)
	require.NoError(t, err)
	assert.Equal(t, program.Days[0].ID, day.ID)

	_, plannedRow, err := f.guard.AuthorizePlannedExercise(ctx, owner.Username, program.Days[0].Exercises[0].ID)
	require.NoError(t, err)
	assert.Equal(t, program.Days[0].Exercises[0].ID, plannedRow.ID)

	gotLog, gotProgram, err := f.guard.AuthorizeLog(ctx, owner.Username, progress.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, gotLog.ID)
	assert.Equal(t, program.ID, gotProgram.ID)

	entry, err := f.guard.AuthorizeExerciseProgress(ctx, owner.Username, progress.ExerciseProgresses[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5}, entry.RepsPerSet())

	ownerID, _, err := f.guard.DayOwner(ctx, program.Days[0].ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)
}

func TestAccessGuard_Stranger(t *testing.T) {
	f, _, stranger, program, progress := guardFixture(t)
	ctx := context.Background()

	_, err := f.guard.AuthorizeProgram(ctx, stranger.Username, program.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, _, err = f.guard.AuthorizeDay(ctx, stranger.Username, program.ID, program.Days[0].ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, _, err = f.guard.AuthorizePlannedExercise(ctx, stranger.Username, program.Days[0].Exercises[0].ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, _, err = f.guard.AuthorizeLog(ctx, stranger.Username, progress.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.guard.AuthorizeExerciseProgress(ctx, stranger.Username, progress.ExerciseProgresses[0].ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestAccessGuard_NotFoundBeforeOwnership(t *testing.T) {
	f, _, stranger, program, _ := guardFixture(t)
	ctx := context.Background()

	_, err := f.guard.AuthorizeProgram(ctx, stranger.Username, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrAccessDenied)

	_, _, err = f.guard.AuthorizeLog(ctx, stranger.Username, "missing")
	assert.ErrorIs(t, err, domain.ErrProgressLogNotFound)

	_, err = f.guard.AuthorizeExerciseProgress(ctx, stranger.Username, "missing")
	assert.ErrorIs(t, err, domain.ErrExerciseProgressNotFound)

	_, _, err = f.guard.AuthorizePlannedExercise(ctx, stranger.Username, "missing")
	assert.ErrorIs(t, err, domain.ErrPlannedExerciseNotFound)

	_, _, err = f.guard.AuthorizeDay(ctx, stranger.Username, program.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestAccessGuard_DayOfOtherProgram(t *testing.T) {
	f, owner, _, program, _ := guardFixture(t)
	squat := f.addExercise(t, 3, 10, nil)
	other := f.addProgram(t, owner, dayInput("FRIDAY", planned(squat.ID, 0)))

	_, _, err := f.guard.AuthorizeDay(context.Background(), owner.Username, program.ID, other.Days[0].ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutDayNotFound)
}

func TestAccessGuard_UnknownRequester(t *testing.T) {
	f, _, _, program, _ := guardFixture(t)

	_, err := f.guard.AuthorizeProgram(context.Background(), "ghost", program.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
