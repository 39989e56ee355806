package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// GuideRepo implements repository.GuideRepository using PostgreSQL.
type GuideRepo struct{ db *DB }

// NewGuideRepo constructs a guide repository.
func NewGuideRepo(db *DB) *GuideRepo { return &GuideRepo{db: db} }

const guideCols = `id, title, content, game_id, game_name, author_id, author_pseudo, created_at, updated_at`

// List returns guides matching the filter, newest first. A zero filter field matches everything.
func (r *GuideRepo) List(ctx context.Context, f model.GuideFilter) ([]model.Guide, error) {
	const q = `
SELECT ` + guideCols + `
FROM guides
WHERE ($1::bigint = 0 OR game_id = $1) AND ($2::bigint = 0 OR author_id = $2)
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q, f.GameID, f.AuthorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Guide{}
	for rows.Next() {
		g, err := scanGuide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// Get selects a single guide.
func (r *GuideRepo) Get(ctx context.Context, id int64) (*model.Guide, error) {
	const q = `SELECT ` + guideCols + ` FROM guides WHERE id=$1`
	return scanGuide(r.db.Pool.QueryRow(ctx, q, id))
}

// Create inserts a guide and fills its generated id.
func (r *GuideRepo) Create(ctx context.Context, g *model.Guide) error {
	const q = `
INSERT INTO guides (title, content, game_id, game_name, author_id, author_pseudo, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		g.Title, g.Content, g.GameID, g.GameName, g.AuthorID, g.AuthorPseudo, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
}

// Update locks the row, applies fn and writes back the mutable columns.
func (r *GuideRepo) Update(ctx context.Context, id int64, fn func(g *model.Guide) error) (*model.Guide, error) {
	const upd = `UPDATE guides SET title=$2, content=$3, updated_at=$4 WHERE id=$1`

	var out *model.Guide
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		g, err := lockGuide(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upd, g.ID, g.Title, g.Content, g.UpdatedAt); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete locks the row, runs check and removes it.
func (r *GuideRepo) Delete(ctx context.Context, id int64, check func(g *model.Guide) error) error {
	const del = `DELETE FROM guides WHERE id=$1`

	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		g, err := lockGuide(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := check(g); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, del, id)
		return err
	})
}

func lockGuide(ctx context.Context, tx pgx.Tx, id int64) (*model.Guide, error) {
	const q = `SELECT ` + guideCols + ` FROM guides WHERE id=$1 FOR UPDATE`
	return scanGuide(tx.QueryRow(ctx, q, id))
}

func scanGuide(row pgx.Row) (*model.Guide, error) {
	var g model.Guide
	err := row.Scan(&g.ID, &g.Title, &g.Content, &g.GameID, &g.GameName,
		&g.AuthorID, &g.AuthorPseudo, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
