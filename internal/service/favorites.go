package service

import (
	"context"
	"fmt"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/repository"
)

// FavoritesService manages an account's saved game snapshots.
type FavoritesService interface {
	List(ctx context.Context, accountID int64) ([]model.Snapshot, error)
	// Add saves the snapshot as captured; errs.ErrAlreadyExists on a repeated game id.
	Add(ctx context.Context, accountID int64, game model.Snapshot) (model.Snapshot, error)
	// Remove is idempotent: removing an absent favorite succeeds.
	Remove(ctx context.Context, accountID, gameID int64) error
}

type FavoritesServiceImpl struct {
	repo repository.FavoriteRepository
}

// NewFavoritesService constructs FavoritesService.
func NewFavoritesService(repo repository.FavoriteRepository) *FavoritesServiceImpl {
	return &FavoritesServiceImpl{repo: repo}
}

func (s *FavoritesServiceImpl) List(ctx context.Context, accountID int64) ([]model.Snapshot, error) {
	return s.repo.List(ctx, accountID)
}

func (s *FavoritesServiceImpl) Add(ctx context.Context, accountID int64, game model.Snapshot) (model.Snapshot, error) {
	if game.ID <= 0 || len(game.Raw) == 0 {
		return model.Snapshot{}, fmt.Errorf("%w: game snapshot with an id is required", errs.ErrValidation)
	}
	if err := s.repo.Add(ctx, accountID, game); err != nil {
		return model.Snapshot{}, err
	}
	return game, nil
}

func (s *FavoritesServiceImpl) Remove(ctx context.Context, accountID, gameID int64) error {
	_, err := s.repo.Remove(ctx, accountID, gameID)
	return err
}
