package postgres

import (
	"context"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// FavoriteRepo implements repository.FavoriteRepository using PostgreSQL.
// The snapshot is kept in a json (not jsonb) column so the captured bytes survive unchanged.
type FavoriteRepo struct{ db *DB }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(db *DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// List returns the account's snapshots in insertion order.
func (r *FavoriteRepo) List(ctx context.Context, accountID int64) ([]model.Snapshot, error) {
	const q = `
SELECT game_id, game
FROM favorites
WHERE user_id=$1
ORDER BY seq ASC`
	rows, err := r.db.Pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Snapshot{}
	for rows.Next() {
		var (
			id  int64
			raw []byte
		)
		if err = rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		out = append(out, model.Snapshot{ID: id, Raw: raw})
	}
	return out, rows.Err()
}

// Add inserts a favorite; the (user_id, game_id) primary key rejects duplicates.
func (r *FavoriteRepo) Add(ctx context.Context, accountID int64, game model.Snapshot) error {
	const q = `
INSERT INTO favorites (user_id, game_id, game)
VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, accountID, game.ID, []byte(game.Raw))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Remove deletes a favorite and reports whether a row was removed.
func (r *FavoriteRepo) Remove(ctx context.Context, accountID, gameID int64) (bool, error) {
	const q = `DELETE FROM favorites WHERE user_id=$1 AND game_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, accountID, gameID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
