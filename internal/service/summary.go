package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SummarizeLog counts the entries of a log. An entry can be both completed and skipped.
func SummarizeLog(log *domain.ProgressLog) domain.LogSummary {
	summary := domain.LogSummary{
		ID:               log.ID,
		Date:             log.Date,
		WorkoutProgramID: log.WorkoutProgramID,
		WorkoutDayName:   log.WorkoutDayName,
		TotalExercises:   len(log.ExerciseProgresses),
	}
	for _, entry := range log.ExerciseProgresses {
		if entry.Completed {
			summary.CompletedExercises++
		}
		if entry.Skipped {
			summary.SkippedExercises++
		}
	}
	return summary
}

func SummarizeLogs(logs []*domain.ProgressLog) []domain.LogSummary {
	summaries := make([]domain.LogSummary, 0, len(logs))
	for _, log := range logs {
		summaries = append(summaries, SummarizeLog(log))
	}
	return summaries
}

// RankProgramsByLastLog lists the programs that have a last log date, most
// recently trained first. Ties are broken by program id.
func RankProgramsByLastLog(programs []*domain.WorkoutProgram, lastLog map[string]time.Time) []domain.ProgramWithLastLog {
	ranked := make([]domain.ProgramWithLastLog, 0, len(lastLog))
	for _, p := range programs {
		last, ok := lastLog[p.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, domain.ProgramWithLastLog{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			LastLogDate: last,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].LastLogDate.Equal(ranked[j].LastLogDate) {
			return ranked[i].LastLogDate.After(ranked[j].LastLogDate)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// ProgramsWithoutLogs keeps the programs no log references, in their given order.
func ProgramsWithoutLogs(programs []*domain.WorkoutProgram, withLogs map[string]bool) []*domain.WorkoutProgram {
	out := make([]*domain.WorkoutProgram, 0, len(programs))
	for _, p := range programs {
		if !withLogs[p.ID] {
			out = append(out, p.Presented())
		}
	}
	return out
}

// SummaryAggregator derives the read-only program listings of a user. It runs
// outside transactions.
type SummaryAggregator struct {
	programs domain.ProgramRepository
	logs     domain.ProgressLogRepository
}

func NewSummaryAggregator(programs domain.ProgramRepository, logs domain.ProgressLogRepository) *SummaryAggregator {
	return &SummaryAggregator{
		programs: programs,
		logs:     logs,
	}
}

// WithLogs lists the owner's programs that have at least one log, ordered by last log date descending.
func (a *SummaryAggregator) WithLogs(ctx context.Context, ownerID string) ([]domain.ProgramWithLastLog, error) {
	programs, err := a.programs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	if len(programs) == 0 {
		return []domain.ProgramWithLastLog{}, nil
	}

	lastLog, err := a.logs.LastLogDates(ctx, programIDs(programs))
	if err != nil {
		return nil, fmt.Errorf("failed to get last log dates: %w", err)
	}
	return RankProgramsByLastLog(programs, lastLog), nil
}

// WithoutLogs lists the owner's programs that no log references.
func (a *SummaryAggregator) WithoutLogs(ctx context.Context, ownerID string) ([]*domain.WorkoutProgram, error) {
	programs, err := a.programs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	if len(programs) == 0 {
		return []*domain.WorkoutProgram{}, nil
	}

	withLogs, err := a.logs.ProgramIDsWithLogs(ctx, programIDs(programs))
	if err != nil {
		return nil, fmt.Errorf("failed to check program logs: %w", err)
	}
	return ProgramsWithoutLogs(programs, withLogs), nil
}

// Overview fetches both listings concurrently.
func (a *SummaryAggregator) Overview(ctx context.Context, ownerID string) (*domain.ProgramOverview, error) {
	overview := &domain.ProgramOverview{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		withLogs, err := a.WithLogs(gCtx, ownerID)
		if err != nil {
			return err
		}
		overview.WithLogs = withLogs
		return nil
	})

	g.Go(func() error {
		withoutLogs, err := a.WithoutLogs(gCtx, ownerID)
		if err != nil {
			return err
		}
		overview.WithoutLogs = withoutLogs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func programIDs(programs []*domain.WorkoutProgram) []string {
	ids := make([]string, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}
	return ids
}
