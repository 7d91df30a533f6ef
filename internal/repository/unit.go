package repository

import (
	"context"
	"fmt"
	"time"

	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
)

// Unit collects changes staged by any number of repositories and commits
// them together. A Unit belongs to one request and is not safe for
// concurrent use.
type Unit struct {
	backend Backend
	pending []Change
}

func NewUnit(backend Backend) *Unit {
	return &Unit{backend: backend}
}

func (u *Unit) stage(op Op, entity any) {
	u.pending = append(u.pending, Change{Op: op, Entity: entity})
}

// Pending is the number of staged changes.
func (u *Unit) Pending() int {
	return len(u.pending)
}

// Discard drops every staged change.
func (u *Unit) Discard() {
	u.pending = nil
}

// Commit applies every staged change in one atomic step. Staged changes are
// discarded whether or not the commit succeeds.
func (u *Unit) Commit(ctx context.Context) error {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, "Commit")
	ctx = ctxutil.WithValue(ctx, ctxutil.ModuleKey, "repository")

	changes := u.pending
	u.pending = nil

	if len(changes) == 0 {
		return nil
	}

	start := time.Now()
	err := u.backend.Commit(ctx, changes)
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Unit commit failed").
			Int("changes", len(changes)).
			Duration(duration).
			Err(err).
			Log()
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	logger.DebugWithContext(ctx, "Unit committed").
		Int("changes", len(changes)).
		Duration(duration).
		Log()

	return nil
}
