package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
)

// AccessGuard resolves who owns a nested resource and checks it against the
// requesting username. Resources are looked up first so a missing one is
// reported as not found before ownership is considered.
type AccessGuard struct {
	users    domain.UserRepository
	programs domain.ProgramRepository
	logs     domain.ProgressLogRepository
}

func NewAccessGuard(
	users domain.UserRepository,
	programs domain.ProgramRepository,
	logs domain.ProgressLogRepository,
) *AccessGuard {
	return &AccessGuard{
		users:    users,
		programs: programs,
		logs:     logs,
	}
}

// CheckOwner fails with ErrAccessDenied unless the requester is the owner.
func CheckOwner(ownerID string, requester *domain.User) error {
	if requester == nil || ownerID == "" || ownerID != requester.ID {
		return domain.ErrAccessDenied
	}
	return nil
}

// Requester resolves the authenticated username to a user record.
func (g *AccessGuard) Requester(ctx context.Context, username string) (*domain.User, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Owner resolvers. Each walks the reference chain of one entity type up to
// the program and returns the owning user id along with what it loaded.

func (g *AccessGuard) ProgramOwner(ctx context.Context, programID string) (string, *domain.WorkoutProgram, error) {
	program, err := g.programs.GetByID(ctx, programID)
	if err != nil {
		return "", nil, err
	}
	return program.OwnerID, program, nil
}

// DayOwner walks WorkoutDay -> WorkoutProgram -> owner.
func (g *AccessGuard) DayOwner(ctx context.Context, dayID string) (string, *domain.WorkoutProgram, error) {
	program, err := g.programs.GetByDayID(ctx, dayID)
	if err != nil {
		return "", nil, err
	}
	return program.OwnerID, program, nil
}

// PlannedExerciseOwner walks WorkoutDayExercise -> WorkoutDay -> WorkoutProgram -> owner.
func (g *AccessGuard) PlannedExerciseOwner(ctx context.Context, plannedExerciseID string) (string, *domain.WorkoutProgram, error) {
	program, err := g.programs.GetByPlannedExerciseID(ctx, plannedExerciseID)
	if err != nil {
		return "", nil, err
	}
	return program.OwnerID, program, nil
}

// LogOwner walks ProgressLog -> WorkoutProgram -> owner.
func (g *AccessGuard) LogOwner(ctx context.Context, log *domain.ProgressLog) (string, *domain.WorkoutProgram, error) {
	program, err := g.programs.GetByID(ctx, log.WorkoutProgramID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("program of progress log %s: %w", log.ID, err)
		}
		return "", nil, err
	}
	return program.OwnerID, program, nil
}

// ExerciseProgressOwner walks ExerciseProgress -> ProgressLog -> WorkoutProgram -> owner.
func (g *AccessGuard) ExerciseProgressOwner(ctx context.Context, entryID string) (string, *domain.ProgressLog, error) {
	log, err := g.logs.GetByEntryID(ctx, entryID)
	if err != nil {
		return "", nil, err
	}
	ownerID, _, err := g.LogOwner(ctx, log)
	if err != nil {
		return "", nil, err
	}
	return ownerID, log, nil
}

// AuthorizeProgram loads a program the requester owns.
func (g *AccessGuard) AuthorizeProgram(ctx context.Context, username, programID string) (*domain.WorkoutProgram, error) {
	requester, err := g.Requester(ctx, username)
	if err != nil {
		return nil, err
	}
	ownerID, program, err := g.ProgramOwner(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := CheckOwner(ownerID, requester); err != nil {
		return nil, err
	}
	return program, nil
}

// AuthorizeDay loads a program the requester owns and one of its days.
func (g *AccessGuard) AuthorizeDay(ctx context.Context, username, programID, dayID string) (*domain.WorkoutProgram, *domain.WorkoutDay, error) {
	program, err := g.AuthorizeProgram(ctx, username, programID)
	if err != nil {
		return nil, nil, err
	}
	day := program.Day(dayID)
	if day == nil {
		return nil, nil, domain.ErrWorkoutDayNotFound
	}
	return program, day, nil
}

// AuthorizePlannedExercise loads a planned exercise reachable from a program the requester owns.
func (g *AccessGuard) AuthorizePlannedExercise(ctx context.Context, username, plannedExerciseID string) (*domain.WorkoutProgram, *domain.WorkoutDayExercise, error) {
	requester, err := g.Requester(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	ownerID, program, err := g.PlannedExerciseOwner(ctx, plannedExerciseID)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckOwner(ownerID, requester); err != nil {
		return nil, nil, err
	}
	_, planned := program.PlannedExercise(plannedExerciseID)
	if planned == nil {
		return nil, nil, domain.ErrPlannedExerciseNotFound
	}
	return program, planned, nil
}

// AuthorizeLog loads a progress log whose program the requester owns.
func (g *AccessGuard) AuthorizeLog(ctx context.Context, username, logID string) (*domain.ProgressLog, *domain.WorkoutProgram, error) {
	requester, err := g.Requester(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	log, err := g.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, nil, err
	}
	ownerID, program, err := g.LogOwner(ctx, log)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckOwner(ownerID, requester); err != nil {
		return nil, nil, err
	}
	return log, program, nil
}

// AuthorizeExerciseProgress loads a single progress entry reachable from a program the requester owns.
func (g *AccessGuard) AuthorizeExerciseProgress(ctx context.Context, username, entryID string) (*domain.ExerciseProgress, error) {
	requester, err := g.Requester(ctx, username)
	if err != nil {
		return nil, err
	}
	ownerID, log, err := g.ExerciseProgressOwner(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := CheckOwner(ownerID, requester); err != nil {
		return nil, err
	}
	entry := log.Entry(entryID)
	if entry == nil {
		return nil, domain.ErrExerciseProgressNotFound
	}
	return entry, nil
}
