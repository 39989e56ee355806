package service

import (
	"context"
	"fmt"
	"time"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/repository"
)

// DefaultGameName is stored when a guide is created without a game name.
const DefaultGameName = "unknown resource"

// GuidesService defines public reads and author-only writes on guides.
type GuidesService interface {
	List(ctx context.Context, f model.GuideFilter) ([]model.Guide, error)
	Get(ctx context.Context, id int64) (*model.Guide, error)
	// Create stores a guide authored by the caller identified by author.
	Create(ctx context.Context, author model.Claims, in model.NewGuide) (*model.Guide, error)
	// Update applies patch if author owns the guide; errs.ErrForbidden otherwise.
	Update(ctx context.Context, id int64, author model.Claims, patch model.GuidePatch) (*model.Guide, error)
	// Delete removes the guide if author owns it; errs.ErrForbidden otherwise.
	Delete(ctx context.Context, id int64, author model.Claims) error
}

type GuidesServiceImpl struct {
	repo repository.GuideRepository
	now  func() time.Time
}

// NewGuidesService constructs GuidesService.
func NewGuidesService(repo repository.GuideRepository) *GuidesServiceImpl {
	return &GuidesServiceImpl{repo: repo, now: time.Now}
}

// WithClock replaces the time source.
func (s *GuidesServiceImpl) WithClock(now func() time.Time) *GuidesServiceImpl {
	s.now = now
	return s
}

// timestamp is millisecond-precise so both backends round-trip it unchanged.
func (s *GuidesServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *GuidesServiceImpl) List(ctx context.Context, f model.GuideFilter) ([]model.Guide, error) {
	return s.repo.List(ctx, f)
}

func (s *GuidesServiceImpl) Get(ctx context.Context, id int64) (*model.Guide, error) {
	return s.repo.Get(ctx, id)
}

// Create validates input; author fields come from the token only.
func (s *GuidesServiceImpl) Create(ctx context.Context, author model.Claims, in model.NewGuide) (*model.Guide, error) {
	if in.Title == "" || in.Content == "" || in.GameID <= 0 {
		return nil, fmt.Errorf("%w: title, content and gameId are required", errs.ErrValidation)
	}
	if in.GameName == "" {
		in.GameName = DefaultGameName
	}
	now := s.timestamp()
	g := &model.Guide{
		Title:        in.Title,
		Content:      in.Content,
		GameID:       in.GameID,
		GameName:     in.GameName,
		AuthorID:     author.AccountID,
		AuthorPseudo: author.Pseudo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Update changes only supplied, non-empty fields and always refreshes UpdatedAt.
func (s *GuidesServiceImpl) Update(ctx context.Context, id int64, author model.Claims, patch model.GuidePatch) (*model.Guide, error) {
	return s.repo.Update(ctx, id, func(g *model.Guide) error {
		if g.AuthorID != author.AccountID {
			return errs.ErrForbidden
		}
		if patch.Title != nil && *patch.Title != "" {
			g.Title = *patch.Title
		}
		if patch.Content != nil && *patch.Content != "" {
			g.Content = *patch.Content
		}
		g.UpdatedAt = s.timestamp()
		return nil
	})
}

func (s *GuidesServiceImpl) Delete(ctx context.Context, id int64, author model.Claims) error {
	return s.repo.Delete(ctx, id, func(g *model.Guide) error {
		if g.AuthorID != author.AccountID {
			return errs.ErrForbidden
		}
		return nil
	})
}
