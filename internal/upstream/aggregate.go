package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/and161185/gamehub/internal/errs"
)

// Media bundles the screenshots and trailers of a game.
type Media struct {
	Screenshots json.RawMessage `json:"screenshots"`
	Movies      json.RawMessage `json:"movies"`
}

// Facet is one selectable genre or platform.
type Facet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Filters are the search facets offered by the catalog.
type Filters struct {
	Genres    []Facet `json:"genres"`
	Platforms []Facet `json:"platforms"`
}

// Media fetches screenshots and movies concurrently; one failure cancels the other.
func (c *Client) Media(ctx context.Context, id string) (Media, error) {
	var m Media
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.Screenshots, err = c.Screenshots(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		m.Movies, err = c.Movies(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Media{}, err
	}
	return m, nil
}

// Filters fetches genres and parent platforms concurrently and keeps only
// entries with a numeric id and a string name.
func (c *Client) Filters(ctx context.Context) (Filters, error) {
	var genres, platforms json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		genres, err = c.get(gctx, "genres", "/genres", nil, nil)
		return err
	})
	g.Go(func() (err error) {
		platforms, err = c.get(gctx, "platforms", "/platforms/lists/parents", nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return Filters{}, err
	}

	var out Filters
	var err error
	if out.Genres, err = facets(genres); err != nil {
		return Filters{}, fmt.Errorf("%w: genres: %w", errs.ErrUpstream, err)
	}
	if out.Platforms, err = facets(platforms); err != nil {
		return Filters{}, fmt.Errorf("%w: platforms: %w", errs.ErrUpstream, err)
	}
	return out, nil
}

// facets reads {"results":[...]}; a missing or non-array results yields an empty list.
func facets(body json.RawMessage) ([]Facet, error) {
	var page struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	out := []Facet{}
	var items []json.RawMessage
	if json.Unmarshal(page.Results, &items) != nil {
		return out, nil
	}
	for _, raw := range items {
		var item struct {
			ID   any `json:"id"`
			Name any `json:"name"`
			Slug any `json:"slug"`
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if dec.Decode(&item) != nil {
			continue
		}
		num, ok := item.ID.(json.Number)
		if !ok {
			continue
		}
		id, err := num.Int64()
		if err != nil {
			continue
		}
		name, ok := item.Name.(string)
		if !ok {
			continue
		}
		slug, _ := item.Slug.(string)
		out = append(out, Facet{ID: id, Name: name, Slug: slug})
	}
	return out, nil
}
