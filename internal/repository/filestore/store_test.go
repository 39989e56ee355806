package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func snap(t *testing.T, raw string) model.Snapshot {
	t.Helper()
	s, err := model.ParseSnapshot([]byte(raw))
	require.NoError(t, err)
	return s
}

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	_, path := openTemp(t)

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"users", "guides", "favorites", "sequences"} {
		require.Contains(t, raw, k)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpen_ReconcilesSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	doc := `{"users":[{"id":7,"email":"a@b.c","pseudo":"a"}],"guides":[{"id":4,"title":"t"}],"favorites":[]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	a := &model.Account{Email: "x@y.z"}
	require.NoError(t, NewAccountRepo(s).Create(context.Background(), a))
	require.Equal(t, int64(8), a.ID)

	g := &model.Guide{Title: "n"}
	require.NoError(t, NewGuideRepo(s).Create(context.Background(), g))
	require.Equal(t, int64(5), g.ID)
}

func TestAccounts_CreateAndLookup(t *testing.T) {
	s, path := openTemp(t)
	r := NewAccountRepo(s)
	ctx := context.Background()

	a := &model.Account{Email: "a@b.c", PwdHash: []byte{1, 2}, Salt: []byte{3}, Pseudo: "a"}
	require.NoError(t, r.Create(ctx, a))
	require.Equal(t, int64(1), a.ID)
	require.False(t, a.CreatedAt.IsZero())

	err := r.Create(ctx, &model.Account{Email: "a@b.c"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	got, err := r.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, got.PwdHash)
	require.Equal(t, []byte{3}, got.Salt)

	_, err = r.GetByEmail(ctx, "A@B.C")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = r.GetByID(ctx, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// survives reopen
	s2, err := Open(path)
	require.NoError(t, err)
	got, err = NewAccountRepo(s2).GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "a", got.Pseudo)
}

func TestAccounts_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s, _ := openTemp(t)
	r := NewAccountRepo(s)

	const n = 20
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := &model.Account{Email: string(rune('a'+i)) + "@x.y"}
			if err := r.Create(context.Background(), a); err == nil {
				ids <- a.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestFavorites_AddListRemove(t *testing.T) {
	s, path := openTemp(t)
	r := NewFavoriteRepo(s)
	ctx := context.Background()

	raw := `{"id":3498,"name":"GTA V","rating":4.47}`
	require.NoError(t, r.Add(ctx, 1, snap(t, raw)))
	require.NoError(t, r.Add(ctx, 1, snap(t, `{"id":1,"name":"x"}`)))
	require.NoError(t, r.Add(ctx, 2, snap(t, raw)))

	err := r.Add(ctx, 1, snap(t, `{"id":3498}`))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	list, err := r.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(3498), list[0].ID)
	require.JSONEq(t, raw, string(list[0].Raw))

	ok, err := r.Remove(ctx, 1, 3498)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Remove(ctx, 1, 3498)
	require.NoError(t, err)
	require.False(t, ok)

	s2, err := Open(path)
	require.NoError(t, err)
	list, err = NewFavoriteRepo(s2).List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = NewFavoriteRepo(s2).List(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestGuides_ListOrderAndFilter(t *testing.T) {
	s, _ := openTemp(t)
	r := NewGuideRepo(s)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(game, author int64, at time.Time) int64 {
		g := &model.Guide{Title: "t", Content: "c", GameID: game, AuthorID: author, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, r.Create(ctx, g))
		return g.ID
	}
	a := mk(10, 1, t0)
	b := mk(10, 2, t0.Add(time.Hour))
	c := mk(20, 1, t0.Add(time.Hour))

	all, err := r.List(ctx, model.GuideFilter{})
	require.NoError(t, err)
	require.Equal(t, []int64{c, b, a}, ids(all))

	byGame, err := r.List(ctx, model.GuideFilter{GameID: 10})
	require.NoError(t, err)
	require.Equal(t, []int64{b, a}, ids(byGame))

	both, err := r.List(ctx, model.GuideFilter{GameID: 10, AuthorID: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{a}, ids(both))

	none, err := r.List(ctx, model.GuideFilter{AuthorID: 3})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestGuides_UpdateDelete(t *testing.T) {
	s, _ := openTemp(t)
	r := NewGuideRepo(s)
	ctx := context.Background()

	g := &model.Guide{Title: "t", Content: "c", GameID: 1, AuthorID: 1}
	require.NoError(t, r.Create(ctx, g))

	updated, err := r.Update(ctx, g.ID, func(g *model.Guide) error {
		g.Title = "T2"
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "T2", updated.Title)

	boom := errors.New("denied")
	_, err = r.Update(ctx, g.ID, func(g *model.Guide) error {
		g.Title = "lost"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.Get(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "T2", got.Title)

	_, err = r.Update(ctx, 99, func(*model.Guide) error { return nil })
	require.ErrorIs(t, err, errs.ErrNotFound)

	err = r.Delete(ctx, g.ID, func(*model.Guide) error { return errs.ErrForbidden })
	require.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, r.Delete(ctx, g.ID, func(*model.Guide) error { return nil }))
	_, err = r.Get(ctx, g.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, g.ID, func(*model.Guide) error { return nil }), errs.ErrNotFound)

	// ids are never reused
	g2 := &model.Guide{Title: "n"}
	require.NoError(t, r.Create(ctx, g2))
	require.Equal(t, int64(2), g2.ID)
}

func ids(gs []model.Guide) []int64 {
	out := make([]int64, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}
