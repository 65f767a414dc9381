package service

import (
	"context"
	"fmt"

	"github.com/cinelog/cinelog/internal/repository"
	"github.com/cinelog/cinelog/internal/store"
)

// Caller is the authenticated identity a service operation acts on behalf of.
// It is passed explicitly into every call; services keep no ambient session
// state.
type Caller struct {
	UserID  int64
	IsAdmin bool
}

// withTx runs fn against transaction-bound repositories and commits when it
// returns nil. Any error rolls the whole unit back, so a review or vote
// mutation is never visible without its derived counter update.
func withTx(ctx context.Context, st *store.Store, repo *repository.Repository, fn func(txRepo *repository.Repository) error) error {
	tx, err := st.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repo.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
