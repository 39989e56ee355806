package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

var guideColNames = []string{"id", "title", "content", "game_id", "game_name", "author_id", "author_pseudo", "created_at", "updated_at"}

func guideRows(gs ...model.Guide) *pgxmock.Rows {
	rows := pgxmock.NewRows(guideColNames)
	for _, g := range gs {
		rows.AddRow(g.ID, g.Title, g.Content, g.GameID, g.GameName, g.AuthorID, g.AuthorPseudo, g.CreatedAt, g.UpdatedAt)
	}
	return rows
}

func sampleGuide(id int64, at time.Time) model.Guide {
	return model.Guide{
		ID: id, Title: "T", Content: "C", GameID: 5, GameName: "X",
		AuthorID: 1, AuthorPseudo: "A", CreatedAt: at, UpdatedAt: at,
	}
}

func TestGuideRepo_List_PassesFilter(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)
	now := time.Now()

	mock.ExpectQuery(`FROM guides WHERE .*game_id = \$1.*author_id = \$2.* ORDER BY created_at DESC, id DESC`).
		WithArgs(int64(5), int64(0)).
		WillReturnRows(guideRows(sampleGuide(2, now), sampleGuide(1, now.Add(-time.Hour))))

	got, err := r.List(context.Background(), model.GuideFilter{GameID: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)
	now := time.Now()

	mock.ExpectQuery(`FROM guides WHERE id=\$1`).
		WithArgs(int64(9)).
		WillReturnRows(guideRows(sampleGuide(9, now)))
	g, err := r.Get(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, "T", g.Title)

	mock.ExpectQuery(`FROM guides WHERE id=\$1`).
		WithArgs(int64(10)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(context.Background(), 10)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGuideRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)
	now := time.Now()
	g := sampleGuide(0, now)

	mock.ExpectQuery(`INSERT INTO guides .* RETURNING id`).
		WithArgs(g.Title, g.Content, g.GameID, g.GameName, g.AuthorID, g.AuthorPseudo, g.CreatedAt, g.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	require.NoError(t, r.Create(context.Background(), &g))
	require.Equal(t, int64(11), g.ID)
}

func TestGuideRepo_Update_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)
	created := time.Now().Add(-time.Hour)
	edited := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM guides WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(guideRows(sampleGuide(3, created)))
	mock.ExpectExec(`UPDATE guides SET title=\$2, content=\$3, updated_at=\$4 WHERE id=\$1`).
		WithArgs(int64(3), "T2", "C", edited).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	g, err := r.Update(context.Background(), 3, func(g *model.Guide) error {
		g.Title = "T2"
		g.UpdatedAt = edited
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "T2", g.Title)
	require.Equal(t, created, g.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideRepo_Update_CallbackErrorRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(guideRows(sampleGuide(3, time.Now())))
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), 3, func(*model.Guide) error { return errs.ErrForbidden })
	require.ErrorIs(t, err, errs.ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideRepo_Update_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), 3, func(*model.Guide) error { return nil })
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGuideRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewGuideRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(guideRows(sampleGuide(3, time.Now())))
	mock.ExpectExec(`DELETE FROM guides WHERE id=\$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	require.NoError(t, r.Delete(context.Background(), 3, func(*model.Guide) error { return nil }))

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(guideRows(sampleGuide(3, time.Now())))
	mock.ExpectRollback()
	err := r.Delete(context.Background(), 3, func(*model.Guide) error { return errs.ErrForbidden })
	require.ErrorIs(t, err, errs.ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}
