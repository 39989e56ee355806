package filestore

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// errUnchanged aborts a mutation that turned out to be a no-op.
var errUnchanged = errors.New("unchanged")

// GuideRepo implements repository.GuideRepository on the guides collection.
type GuideRepo struct{ s *Store }

// NewGuideRepo constructs a guide repository.
func NewGuideRepo(s *Store) *GuideRepo { return &GuideRepo{s: s} }

// List returns matching guides sorted by creation time, newest first.
func (r *GuideRepo) List(_ context.Context, f model.GuideFilter) ([]model.Guide, error) {
	out := []model.Guide{}
	r.s.view(func(d *document) {
		for _, g := range d.Guides {
			m := g.toModel()
			if f.Match(m) {
				out = append(out, m)
			}
		}
	})
	slices.SortFunc(out, func(a, b model.Guide) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Get returns a guide by id.
func (r *GuideRepo) Get(_ context.Context, id int64) (*model.Guide, error) {
	var out *model.Guide
	r.s.view(func(d *document) {
		if i := indexGuide(d, id); i >= 0 {
			g := d.Guides[i].toModel()
			out = &g
		}
	})
	if out == nil {
		return nil, errs.ErrNotFound
	}
	return out, nil
}

// Create assigns the next guide id and appends the guide.
func (r *GuideRepo) Create(_ context.Context, g *model.Guide) error {
	return r.s.mutate(func(d *document) error {
		d.Sequences.Guides++
		g.ID = d.Sequences.Guides
		d.Guides = append(d.Guides, fromModel(*g))
		return nil
	})
}

// Update applies fn to the stored guide under the store lock.
func (r *GuideRepo) Update(_ context.Context, id int64, fn func(g *model.Guide) error) (*model.Guide, error) {
	var out model.Guide
	err := r.s.mutate(func(d *document) error {
		i := indexGuide(d, id)
		if i < 0 {
			return errs.ErrNotFound
		}
		g := d.Guides[i].toModel()
		if err := fn(&g); err != nil {
			return err
		}
		d.Guides[i] = fromModel(g)
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the guide if check passes.
func (r *GuideRepo) Delete(_ context.Context, id int64, check func(g *model.Guide) error) error {
	return r.s.mutate(func(d *document) error {
		i := indexGuide(d, id)
		if i < 0 {
			return errs.ErrNotFound
		}
		g := d.Guides[i].toModel()
		if err := check(&g); err != nil {
			return err
		}
		d.Guides = slices.Delete(d.Guides, i, i+1)
		return nil
	})
}

func indexGuide(d *document, id int64) int {
	return slices.IndexFunc(d.Guides, func(g guideRecord) bool { return g.ID == id })
}

func (g guideRecord) toModel() model.Guide {
	return model.Guide{
		ID: g.ID, Title: g.Title, Content: g.Content, GameID: g.GameID, GameName: g.GameName,
		AuthorID: g.AuthorID, AuthorPseudo: g.AuthorPseudo, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}

func fromModel(g model.Guide) guideRecord {
	return guideRecord{
		ID: g.ID, Title: g.Title, Content: g.Content, GameID: g.GameID, GameName: g.GameName,
		AuthorID: g.AuthorID, AuthorPseudo: g.AuthorPseudo, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}
