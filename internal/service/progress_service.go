package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
)

// ProgressService records and reads workout progress logs. A log is reachable
// only through a program the requester owns.
type ProgressService struct {
	guard    *AccessGuard
	recorder *ProgressRecorder
	programs domain.ProgramRepository
	logs     domain.ProgressLogRepository
	tx       domain.Transactor
}

func NewProgressService(
	guard *AccessGuard,
	recorder *ProgressRecorder,
	programs domain.ProgramRepository,
	logs domain.ProgressLogRepository,
	tx domain.Transactor,
) *ProgressService {
	return &ProgressService{
		guard:    guard,
		recorder: recorder,
		programs: programs,
		logs:     logs,
		tx:       tx,
	}
}

// Create records a new progress log against one day of one of the requester's programs
func (s *ProgressService) Create(ctx context.Context, username string, in domain.ProgressLogInput) (*domain.ProgressLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var progress *domain.ProgressLog
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		program, err := s.guard.AuthorizeProgram(ctx, username, in.WorkoutProgramID)
		if err != nil {
			return err
		}

		progress, err = s.recorder.Record(ctx, program, in)
		if err != nil {
			return err
		}

		if err := s.logs.Create(ctx, progress); err != nil {
			return fmt.Errorf("failed to create progress log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Get returns one progress log of the requester
func (s *ProgressService) Get(ctx context.Context, username, logID string) (*domain.ProgressLog, error) {
	progress, _, err := s.guard.AuthorizeLog(ctx, username, logID)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Update replaces the notes and every entry of a log, and its date when one
// is given. The program and day a log belongs to never change.
func (s *ProgressService) Update(ctx context.Context, username, logID string, in domain.ProgressLogInput) (*domain.ProgressLog, error) {
	if len(in.ExerciseProgresses) == 0 {
		return nil, domain.Invalid("at least one exercise progress must be recorded")
	}

	var updated *domain.ProgressLog
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, program, err := s.guard.AuthorizeLog(ctx, username, logID)
		if err != nil {
			return err
		}

		entries, err := s.recorder.RecordEntries(ctx, program, in.ExerciseProgresses)
		if err != nil {
			return err
		}

		next := *current
		if !in.Date.IsZero() {
			next.Date = domain.CalendarDate(in.Date)
		}
		next.Notes = in.Notes
		next.ExerciseProgresses = entries
		next.UpdatedAt = time.Now()

		if err := s.logs.Replace(ctx, &next); err != nil {
			return fmt.Errorf("failed to update progress log: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a progress log with all its entries
func (s *ProgressService) Delete(ctx context.Context, username, logID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, _, err := s.guard.AuthorizeLog(ctx, username, logID); err != nil {
			return err
		}
		if err := s.logs.Delete(ctx, logID); err != nil {
			return fmt.Errorf("failed to delete progress log: %w", err)
		}
		return nil
	})
}

// ListInRange summarizes the requester's logs dated within [from, to].
// Both bounds are inclusive calendar dates.
func (s *ProgressService) ListInRange(ctx context.Context, username string, from, to time.Time) ([]domain.LogSummary, error) {
	from, to = domain.CalendarDate(from), domain.CalendarDate(to)
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, domain.Invalid("end date is before start date")
	}

	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByOwner(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	if len(programs) == 0 {
		return []domain.LogSummary{}, nil
	}

	logs, err := s.logs.ListByProgramsInRange(ctx, programIDs(programs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress logs: %w", err)
	}
	return SummarizeLogs(logs), nil
}

// ProgramLogs returns every log of a program, newest first
func (s *ProgressService) ProgramLogs(ctx context.Context, username, programID string) ([]*domain.ProgressLog, error) {
	if _, err := s.guard.AuthorizeProgram(ctx, username, programID); err != nil {
		return nil, err
	}

	logs, err := s.logs.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress logs: %w", err)
	}
	return logs, nil
}

// ProgramSummaries returns the per log counters of a program, newest first
func (s *ProgressService) ProgramSummaries(ctx context.Context, username, programID string) ([]domain.LogSummary, error) {
	logs, err := s.ProgramLogs(ctx, username, programID)
	if err != nil {
		return nil, err
	}
	return SummarizeLogs(logs), nil
}

// GetEntry returns a single exercise progress entry
func (s *ProgressService) GetEntry(ctx context.Context, username, entryID string) (*domain.ExerciseProgress, error) {
	return s.guard.AuthorizeExerciseProgress(ctx, username, entryID)
}
