package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mansoorceksport/fitbuddy/internal/config"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs the in-memory repositories. Stored values are never mutated
// in place, every write swaps in a fresh copy, so a shallow map snapshot is
// enough to roll a transaction back.
type memStore struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*domain.User
	exercises map[string]*domain.Exercise
	programs  map[string]*domain.WorkoutProgram
	logs      map[string]*domain.ProgressLog
}

type memSnapshot struct {
	users     map[string]*domain.User
	exercises map[string]*domain.Exercise
	programs  map[string]*domain.WorkoutProgram
	logs      map[string]*domain.ProgressLog
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*domain.User{},
		exercises: map[string]*domain.Exercise{},
		programs:  map[string]*domain.WorkoutProgram{},
		logs:      map[string]*domain.ProgressLog{},
	}
}

// nextID mimics ObjectID hex: 24 chars, increasing.
func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		users:     copyMap(s.users),
		exercises: copyMap(s.exercises),
		programs:  copyMap(s.programs),
		logs:      copyMap(s.logs),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.exercises = snap.exercises
	s.programs = snap.programs
	s.logs = snap.logs
}

func copyMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneProgram(p *domain.WorkoutProgram) *domain.WorkoutProgram {
	out := *p
	out.Days = make([]*domain.WorkoutDay, 0, len(p.Days))
	for _, d := range p.Days {
		day := *d
		day.Exercises = make([]*domain.WorkoutDayExercise, 0, len(d.Exercises))
		for _, ex := range d.Exercises {
			row := *ex
			row.RestPeriodBetweenSets = copyInt(ex.RestPeriodBetweenSets)
			day.Exercises = append(day.Exercises, &row)
		}
		out.Days = append(out.Days, &day)
	}
	return &out
}

func cloneLog(l *domain.ProgressLog) *domain.ProgressLog {
	out := *l
	out.ExerciseProgresses = make([]*domain.ExerciseProgress, 0, len(l.ExerciseProgresses))
	for _, e := range l.ExerciseProgresses {
		entry := *e
		entry.SetDetails = append([]domain.SetDetail(nil), e.SetDetails...)
		entry.RestPeriodBetweenSets = copyInt(e.RestPeriodBetweenSets)
		out.ExerciseProgresses = append(out.ExerciseProgresses, &entry)
	}
	return &out
}

func cloneExercise(e *domain.Exercise) *domain.Exercise {
	out := *e
	out.DefaultRestPeriodBetweenSets = copyInt(e.DefaultRestPeriodBetweenSets)
	return &out
}

// memTransactor commits by running the commit hooks and aborts by restoring
// the snapshot taken when the transaction started.
type memTransactor struct {
	store   *memStore
	commits int
	aborts  int
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	txCtx, runCommitHooks := domain.TrackCommitHooks(ctx)
	if err := fn(txCtx); err != nil {
		t.store.restore(snap)
		t.aborts++
		return err
	}
	t.commits++
	runCommitHooks(ctx)
	return nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	user.ID = r.s.nextID()
	u := *user
	r.s.users[user.ID] = &u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memExerciseRepo struct{ s *memStore }

func (r *memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exercise.ID = r.s.nextID()
	r.s.exercises[exercise.ID] = cloneExercise(exercise)
	return nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.exercises[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	return cloneExercise(e), nil
}

func (r *memExerciseRepo) Search(_ context.Context, name string) ([]*domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Exercise
	for _, e := range r.s.exercises {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			out = append(out, cloneExercise(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exercises[exercise.ID]; !ok {
		return domain.ErrExerciseNotFound
	}
	r.s.exercises[exercise.ID] = cloneExercise(exercise)
	return nil
}

func (r *memExerciseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exercises[id]; !ok {
		return domain.ErrExerciseNotFound
	}
	delete(r.s.exercises, id)
	return nil
}

type memProgramRepo struct{ s *memStore }

func (r *memProgramRepo) Create(_ context.Context, program *domain.WorkoutProgram) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	program.ID = r.s.nextID()
	r.s.programs[program.ID] = cloneProgram(program)
	return nil
}

func (r *memProgramRepo) GetByID(_ context.Context, id string) (*domain.WorkoutProgram, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.programs[id]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return cloneProgram(p), nil
}

func (r *memProgramRepo) GetByDayID(_ context.Context, dayID string) (*domain.WorkoutProgram, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.programs {
		if p.Day(dayID) != nil {
			return cloneProgram(p), nil
		}
	}
	return nil, domain.ErrWorkoutDayNotFound
}

func (r *memProgramRepo) GetByPlannedExerciseID(_ context.Context, id string) (*domain.WorkoutProgram, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.programs {
		if _, ex := p.PlannedExercise(id); ex != nil {
			return cloneProgram(p), nil
		}
	}
	return nil, domain.ErrPlannedExerciseNotFound
}

func (r *memProgramRepo) list(match func(p *domain.WorkoutProgram) bool) []*domain.WorkoutProgram {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.WorkoutProgram{}
	for _, p := range r.s.programs {
		if match(p) {
			out = append(out, cloneProgram(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memProgramRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.WorkoutProgram, error) {
	return r.list(func(p *domain.WorkoutProgram) bool { return p.OwnerID == ownerID }), nil
}

func (r *memProgramRepo) ListByExercise(_ context.Context, exerciseID string) ([]*domain.WorkoutProgram, error) {
	return r.list(func(p *domain.WorkoutProgram) bool { return usesExercise(p, exerciseID) }), nil
}

func usesExercise(p *domain.WorkoutProgram, exerciseID string) bool {
	for _, d := range p.Days {
		for _, ex := range d.Exercises {
			if ex.ExerciseID == exerciseID {
				return true
			}
		}
	}
	return false
}

func (r *memProgramRepo) Replace(_ context.Context, program *domain.WorkoutProgram) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.programs[program.ID]; !ok {
		return domain.ErrProgramNotFound
	}
	r.s.programs[program.ID] = cloneProgram(program)
	return nil
}

func (r *memProgramRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.programs[id]; !ok {
		return domain.ErrProgramNotFound
	}
	delete(r.s.programs, id)
	return nil
}

func (r *memProgramRepo) RemoveExerciseUsages(_ context.Context, exerciseID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var modified int64
	for id, p := range r.s.programs {
		if !usesExercise(p, exerciseID) {
			continue
		}
		next := cloneProgram(p)
		for _, d := range next.Days {
			kept := d.Exercises[:0]
			for _, ex := range d.Exercises {
				if ex.ExerciseID != exerciseID {
					kept = append(kept, ex)
				}
			}
			d.Exercises = kept
		}
		r.s.programs[id] = next
		modified++
	}
	return modified, nil
}

func (r *memProgramRepo) RenameExercise(_ context.Context, exerciseID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.programs {
		if !usesExercise(p, exerciseID) {
			continue
		}
		next := cloneProgram(p)
		for _, d := range next.Days {
			for _, ex := range d.Exercises {
				if ex.ExerciseID == exerciseID {
					ex.ExerciseName = name
				}
			}
		}
		r.s.programs[id] = next
	}
	return nil
}

type memLogRepo struct{ s *memStore }

func (r *memLogRepo) Create(_ context.Context, log *domain.ProgressLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = r.s.nextID()
	r.s.logs[log.ID] = cloneLog(log)
	return nil
}

func (r *memLogRepo) GetByID(_ context.Context, id string) (*domain.ProgressLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.logs[id]
	if !ok {
		return nil, domain.ErrProgressLogNotFound
	}
	return cloneLog(l), nil
}

func (r *memLogRepo) GetByEntryID(_ context.Context, entryID string) (*domain.ProgressLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.Entry(entryID) != nil {
			return cloneLog(l), nil
		}
	}
	return nil, domain.ErrExerciseProgressNotFound
}

func (r *memLogRepo) Replace(_ context.Context, log *domain.ProgressLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.logs[log.ID]; !ok {
		return domain.ErrProgressLogNotFound
	}
	r.s.logs[log.ID] = cloneLog(log)
	return nil
}

func (r *memLogRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.logs[id]; !ok {
		return domain.ErrProgressLogNotFound
	}
	delete(r.s.logs, id)
	return nil
}

func (r *memLogRepo) DeleteByProgramID(_ context.Context, programID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.logs {
		if l.WorkoutProgramID == programID {
			delete(r.s.logs, id)
			n++
		}
	}
	return n, nil
}

func (r *memLogRepo) filter(match func(l *domain.ProgressLog) bool) []*domain.ProgressLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.ProgressLog{}
	for _, l := range r.s.logs {
		if match(l) {
			out = append(out, cloneLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *memLogRepo) ListByProgram(_ context.Context, programID string) ([]*domain.ProgressLog, error) {
	return r.filter(func(l *domain.ProgressLog) bool { return l.WorkoutProgramID == programID }), nil
}

func (r *memLogRepo) ListByProgramsInRange(_ context.Context, programIDs []string, from, to time.Time) ([]*domain.ProgressLog, error) {
	ids := toSet(programIDs)
	return r.filter(func(l *domain.ProgressLog) bool {
		if !ids[l.WorkoutProgramID] {
			return false
		}
		if !from.IsZero() && l.Date.Before(from) {
			return false
		}
		if !to.IsZero() && l.Date.After(to) {
			return false
		}
		return true
	}), nil
}

func (r *memLogRepo) LastLogDates(_ context.Context, programIDs []string) (map[string]time.Time, error) {
	ids := toSet(programIDs)
	out := map[string]time.Time{}
	for _, l := range r.filter(func(l *domain.ProgressLog) bool { return ids[l.WorkoutProgramID] }) {
		if last, ok := out[l.WorkoutProgramID]; !ok || l.Date.After(last) {
			out[l.WorkoutProgramID] = l.Date
		}
	}
	return out, nil
}

func (r *memLogRepo) ProgramIDsWithLogs(_ context.Context, programIDs []string) (map[string]bool, error) {
	ids := toSet(programIDs)
	out := map[string]bool{}
	for _, l := range r.filter(func(l *domain.ProgressLog) bool { return ids[l.WorkoutProgramID] }) {
		out[l.WorkoutProgramID] = true
	}
	return out, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type memFileRepo struct {
	uploads map[string][]byte
}

func (r *memFileRepo) Upload(_ context.Context, file []byte, filename, _ string) (string, error) {
	if r.uploads == nil {
		r.uploads = map[string][]byte{}
	}
	r.uploads[filename] = file
	return "https://media.fitbuddy.test/" + filename, nil
}

// fixture wires every service over one in-memory store.
type fixture struct {
	store     *memStore
	tx        *memTransactor
	users     *memUserRepo
	exercises *memExerciseRepo
	programs  *memProgramRepo
	logs      *memLogRepo
	files     *memFileRepo

	guard      *AccessGuard
	reconciler *ProgramReconciler
	recorder   *ProgressRecorder
	summaries  *SummaryAggregator

	programSvc  *ProgramService
	progressSvc *ProgressService
	exerciseSvc *ExerciseService
	authSvc     *AuthService
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:     store,
		tx:        &memTransactor{store: store},
		users:     &memUserRepo{s: store},
		exercises: &memExerciseRepo{s: store},
		programs:  &memProgramRepo{s: store},
		logs:      &memLogRepo{s: store},
		files:     &memFileRepo{},
	}
	f.guard = NewAccessGuard(f.users, f.programs, f.logs)
	f.reconciler = NewProgramReconciler(f.exercises)
	f.recorder = NewProgressRecorder(f.exercises)
	f.summaries = NewSummaryAggregator(f.programs, f.logs)
	f.programSvc = NewProgramService(f.guard, f.reconciler, f.summaries, f.programs, f.logs, f.tx)
	f.progressSvc = NewProgressService(f.guard, f.recorder, f.programs, f.logs, f.tx)
	f.exerciseSvc = NewExerciseService(f.guard, f.exercises, f.programs, f.files, f.tx)
	f.authSvc = NewAuthService(f.users, config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})
	f.authSvc.hashCost = bcrypt.MinCost
	return f
}

func (f *fixture) addUser(t *testing.T) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: gofakeit.Username() + gofakeit.DigitN(4),
		Email:    gofakeit.Email(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) addExercise(t *testing.T, sets, reps int, rest *int) *domain.Exercise {
	t.Helper()
	exercise := &domain.Exercise{
		Name:                         gofakeit.Adjective() + " " + gofakeit.Noun() + " " + gofakeit.DigitN(3),
		Description:                  gofakeit.Sentence(6),
		DefaultSets:                  sets,
		DefaultRepsPerSet:            reps,
		DefaultRestPeriodBetweenSets: rest,
	}
	require.NoError(t, f.exercises.Create(context.Background(), exercise))
	return exercise
}

// addProgram creates a program over the service so it goes through reconciliation.
func (f *fixture) addProgram(t *testing.T, owner *domain.User, days ...domain.DayInput) *domain.WorkoutProgram {
	t.Helper()
	program, err := f.programSvc.Create(context.Background(), owner.Username, domain.ProgramInput{
		Name:        gofakeit.HipsterWord() + " program",
		WorkoutDays: days,
	})
	require.NoError(t, err)
	return program
}

func planned(exerciseID string, orderIndex int) domain.PlannedExerciseInput {
	return domain.PlannedExerciseInput{ExerciseID: exerciseID, OrderIndex: intPtr(orderIndex)}
}

func dayInput(dayOfWeek string, exercises ...domain.PlannedExerciseInput) domain.DayInput {
	return domain.DayInput{DayOfWeek: dayOfWeek, Exercises: exercises}
}

func intPtr(v int) *int {
	return &v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
