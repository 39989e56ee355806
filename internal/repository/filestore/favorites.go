package filestore

import (
	"context"
	"errors"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// FavoriteRepo implements repository.FavoriteRepository on the favorites collection,
// stored as flat {userId, game} pairs.
type FavoriteRepo struct{ s *Store }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(s *Store) *FavoriteRepo { return &FavoriteRepo{s: s} }

// List returns the account's snapshots in insertion order.
func (r *FavoriteRepo) List(_ context.Context, accountID int64) ([]model.Snapshot, error) {
	out := []model.Snapshot{}
	r.s.view(func(d *document) {
		for _, f := range d.Favorites {
			if f.UserID == accountID {
				out = append(out, f.Game)
			}
		}
	})
	return out, nil
}

// Add appends a favorite unless the pair already exists.
func (r *FavoriteRepo) Add(_ context.Context, accountID int64, game model.Snapshot) error {
	return r.s.mutate(func(d *document) error {
		for _, f := range d.Favorites {
			if f.UserID == accountID && f.Game.ID == game.ID {
				return errs.ErrAlreadyExists
			}
		}
		d.Favorites = append(d.Favorites, favoriteRecord{UserID: accountID, Game: game})
		return nil
	})
}

// Remove drops the pair; the file is rewritten only when something changed.
func (r *FavoriteRepo) Remove(_ context.Context, accountID, gameID int64) (bool, error) {
	removed := false
	err := r.s.mutate(func(d *document) error {
		kept := d.Favorites[:0]
		for _, f := range d.Favorites {
			if f.UserID == accountID && f.Game.ID == gameID {
				removed = true
				continue
			}
			kept = append(kept, f)
		}
		if !removed {
			return errUnchanged
		}
		d.Favorites = kept
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return removed, err
}
