package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

func TestFavoriteRepo_List_InsertionOrder(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)

	mock.ExpectQuery(`SELECT game_id, game FROM favorites WHERE user_id=\$1 ORDER BY seq ASC`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"game_id", "game"}).
			AddRow(int64(5), []byte(`{"id":5,"name":"X"}`)).
			AddRow(int64(2), []byte(`{"id":2}`)))

	got, err := r.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(5), got[0].ID)
	require.JSONEq(t, `{"id":5,"name":"X"}`, string(got[0].Raw))
	require.Equal(t, int64(2), got[1].ID)
}

func TestFavoriteRepo_List_EmptyIsNotNil(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)

	mock.ExpectQuery(`FROM favorites`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"game_id", "game"}))

	got, err := r.List(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFavoriteRepo_Add_OK_and_Duplicate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)
	ctx := context.Background()
	snap := model.Snapshot{ID: 5, Raw: []byte(`{"id":5}`)}

	mock.ExpectExec(`INSERT INTO favorites \(user_id, game_id, game\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(int64(1), int64(5), []byte(`{"id":5}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Add(ctx, 1, snap))

	mock.ExpectExec(`INSERT INTO favorites`).
		WithArgs(int64(1), int64(5), []byte(`{"id":5}`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Add(ctx, 1, snap), errs.ErrAlreadyExists)
}

func TestFavoriteRepo_Remove(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM favorites WHERE user_id=\$1 AND game_id=\$2`).
		WithArgs(int64(1), int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	removed, err := r.Remove(ctx, 1, 5)
	require.NoError(t, err)
	require.True(t, removed)

	mock.ExpectExec(`DELETE FROM favorites`).
		WithArgs(int64(1), int64(6)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	removed, err = r.Remove(ctx, 1, 6)
	require.NoError(t, err)
	require.False(t, removed)
}
