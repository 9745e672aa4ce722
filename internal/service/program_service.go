package service

import (
	"context"
	"fmt"
	"log"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
)

// ProgramService manages workout programs of the requesting user. Every
// mutation authorizes, reconciles and persists inside one transaction.
type ProgramService struct {
	guard      *AccessGuard
	reconciler *ProgramReconciler
	summaries  *SummaryAggregator
	programs   domain.ProgramRepository
	logs       domain.ProgressLogRepository
	tx         domain.Transactor
}

func NewProgramService(
	guard *AccessGuard,
	reconciler *ProgramReconciler,
	summaries *SummaryAggregator,
	programs domain.ProgramRepository,
	logs domain.ProgressLogRepository,
	tx domain.Transactor,
) *ProgramService {
	return &ProgramService{
		guard:      guard,
		reconciler: reconciler,
		summaries:  summaries,
		programs:   programs,
		logs:       logs,
		tx:         tx,
	}
}

// Create builds a new program for the requester, resolving exercise defaults
func (s *ProgramService) Create(ctx context.Context, username string, in domain.ProgramInput) (*domain.WorkoutProgram, error) {
	var program *domain.WorkoutProgram
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		requester, err := s.guard.Requester(ctx, username)
		if err != nil {
			return err
		}

		program, err = s.reconciler.Build(ctx, requester.ID, in)
		if err != nil {
			return err
		}

		if err := s.programs.Create(ctx, program); err != nil {
			return fmt.Errorf("failed to create program: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return program.Presented(), nil
}

// List returns the requester's programs
func (s *ProgramService) List(ctx context.Context, username string) ([]*domain.WorkoutProgram, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByOwner(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	out := make([]*domain.WorkoutProgram, 0, len(programs))
	for _, p := range programs {
		out = append(out, p.Presented())
	}
	return out, nil
}

// Get returns one program of the requester
func (s *ProgramService) Get(ctx context.Context, username, programID string) (*domain.WorkoutProgram, error) {
	program, err := s.guard.AuthorizeProgram(ctx, username, programID)
	if err != nil {
		return nil, err
	}
	return program.Presented(), nil
}

// Update reconciles the program tree: days matched by id keep their identity,
// every submitted exercise list replaces the stored one.
func (s *ProgramService) Update(ctx context.Context, username, programID string, in domain.ProgramInput) (*domain.WorkoutProgram, error) {
	var updated *domain.WorkoutProgram
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.guard.AuthorizeProgram(ctx, username, programID)
		if err != nil {
			return err
		}

		var removed []*domain.WorkoutDay
		updated, removed, err = s.reconciler.Reconcile(ctx, current, in)
		if err != nil {
			return err
		}

		if err := s.programs.Replace(ctx, updated); err != nil {
			return fmt.Errorf("failed to update program: %w", err)
		}
		if len(removed) > 0 {
			log.Printf("Program %s: removed %d workout day(s)", programID, len(removed))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Presented(), nil
}

// UpdateDay replaces the exercises (and optionally the day of week) of one day
func (s *ProgramService) UpdateDay(ctx context.Context, username, programID, dayID string, in domain.DayInput) (*domain.WorkoutProgram, error) {
	var updated *domain.WorkoutProgram
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		program, _, err := s.guard.AuthorizeDay(ctx, username, programID, dayID)
		if err != nil {
			return err
		}

		updated, err = s.reconciler.ReplaceDay(ctx, program, dayID, in)
		if err != nil {
			return err
		}

		if err := s.programs.Replace(ctx, updated); err != nil {
			return fmt.Errorf("failed to update workout day: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Presented(), nil
}

// Delete removes the program with its days, planned exercises and every progress log of it
func (s *ProgramService) Delete(ctx context.Context, username, programID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.guard.AuthorizeProgram(ctx, username, programID); err != nil {
			return err
		}

		deleted, err := s.logs.DeleteByProgramID(ctx, programID)
		if err != nil {
			return fmt.Errorf("failed to delete progress logs: %w", err)
		}

		if err := s.programs.Delete(ctx, programID); err != nil {
			return fmt.Errorf("failed to delete program: %w", err)
		}
		log.Printf("Program %s deleted with %d progress log(s)", programID, deleted)
		return nil
	})
}

// WithLogs lists the requester's programs that have logs, most recently trained first
func (s *ProgramService) WithLogs(ctx context.Context, username string) ([]domain.ProgramWithLastLog, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.summaries.WithLogs(ctx, requester.ID)
}

// WithoutLogs lists the requester's programs that were never logged
func (s *ProgramService) WithoutLogs(ctx context.Context, username string) ([]*domain.WorkoutProgram, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.summaries.WithoutLogs(ctx, requester.ID)
}

// Overview returns both listings of the requester
func (s *ProgramService) Overview(ctx context.Context, username string) (*domain.ProgramOverview, error) {
	requester, err := s.guard.Requester(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.summaries.Overview(ctx, requester.ID)
}
