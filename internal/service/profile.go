package service

import (
	"context"

	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/repository"
)

// ProfileService composes the public view of an account.
type ProfileService interface {
	// Get returns the account with its authored guides, newest first.
	Get(ctx context.Context, accountID int64) (*model.Profile, error)
}

type ProfileServiceImpl struct {
	users  repository.AccountRepository
	guides repository.GuideRepository
}

// NewProfileService constructs ProfileService.
func NewProfileService(users repository.AccountRepository, guides repository.GuideRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{users: users, guides: guides}
}

// Get exposes the email as part of the public profile.
func (s *ProfileServiceImpl) Get(ctx context.Context, accountID int64) (*model.Profile, error) {
	a, err := s.users.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	gs, err := s.guides.List(ctx, model.GuideFilter{AuthorID: accountID})
	if err != nil {
		return nil, err
	}
	return &model.Profile{ID: a.ID, Pseudo: a.Pseudo, Email: a.Email, Guides: gs}, nil
}
