// Package repository defines storage interfaces implemented by concrete backends.
//
// Each table is independent and every mutating method is atomic on its own;
// implementations serialize writers (row locks or a single writer) so
// concurrent requests cannot clobber each other.
package repository

import (
	"context"

	"github.com/and161185/gamehub/internal/model"
)

// AccountRepository stores accounts.
type AccountRepository interface {
	// Create assigns a new id to a and inserts it. Returns errs.ErrAlreadyExists on a taken email.
	Create(ctx context.Context, a *model.Account) error
	// GetByID loads an account by id or returns errs.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	// GetByEmail loads an account by exact email or returns errs.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

// FavoriteRepository stores per-account game snapshots.
type FavoriteRepository interface {
	// List returns the account's snapshots in insertion order.
	List(ctx context.Context, accountID int64) ([]model.Snapshot, error)
	// Add appends a favorite. Returns errs.ErrAlreadyExists if (account, game id) is present.
	Add(ctx context.Context, accountID int64, game model.Snapshot) error
	// Remove deletes the favorite and reports whether something was removed.
	Remove(ctx context.Context, accountID, gameID int64) (bool, error)
}

// GuideRepository stores guides.
type GuideRepository interface {
	// List returns guides matching f, newest first (ties broken by id, descending).
	List(ctx context.Context, f model.GuideFilter) ([]model.Guide, error)
	// Get loads a guide or returns errs.ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Guide, error)
	// Create assigns a new id to g and inserts it.
	Create(ctx context.Context, g *model.Guide) error
	// Update atomically loads the guide, applies fn and persists the result.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id int64, fn func(g *model.Guide) error) (*model.Guide, error)
	// Delete atomically loads the guide, runs check and removes it.
	Delete(ctx context.Context, id int64, check func(g *model.Guide) error) error
}
