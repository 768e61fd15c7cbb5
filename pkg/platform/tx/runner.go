package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "bankeu/pkg/domain-errors"
)

// Runner provides a transactional boundary for store mutations. Stores
// called with the ctx passed to fn participate in the same transaction.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

// SQLRunner runs fn inside a database transaction.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db, timeout: defaultTxTimeout}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return Run(ctx, r.db, fn)
}

type lockHeldKey struct{}

// LockRunner serializes callbacks with a single mutex. It backs the
// in-memory stores, which have no rollback; nested calls join the outer one.
type LockRunner struct {
	mu sync.Mutex
}

func NewLockRunner() *LockRunner {
	return &LockRunner{}
}

func (r *LockRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "transaction aborted: context cancelled")
	}
	if held, _ := ctx.Value(lockHeldKey{}).(*LockRunner); held == r {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(context.WithValue(ctx, lockHeldKey{}, r))
}
