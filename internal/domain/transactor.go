package domain

import (
	"context"
	"sync"
)

// Transactor runs fn atomically: every write made through ctx inside fn is
// committed together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// AfterCommit runs fn once the transaction carried by ctx commits, and never
// if it aborts. Without a transaction in ctx, fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

// TrackCommitHooks is for Transactor implementations. It returns a context
// collecting AfterCommit callbacks and a function that runs them in order,
// to be called only after a successful commit.
func TrackCommitHooks(ctx context.Context) (context.Context, func(ctx context.Context)) {
	hooks := &commitHooks{}
	run := func(ctx context.Context) {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, commitHooksKey{}, hooks), run
}
