package service

import (
	"context"
	"sort"
	"time"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/limiter"
	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/repository"
)

type fakeAccounts struct {
	byEmail map[string]*model.Account
	seq     int64

	createErr error
	getErr    error
}

var _ repository.AccountRepository = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts { return &fakeAccounts{byEmail: map[string]*model.Account{}} }

func (f *fakeAccounts) Create(_ context.Context, a *model.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[a.Email]; exists {
		return errs.ErrAlreadyExists
	}
	f.seq++
	a.ID = f.seq
	cpy := *a
	f.byEmail[a.Email] = &cpy
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*model.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byEmail {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *a
	return &c, nil
}

type fakeFavorites struct {
	rows   []model.Favorite
	addErr error
}

var _ repository.FavoriteRepository = (*fakeFavorites)(nil)

func (f *fakeFavorites) List(_ context.Context, accountID int64) ([]model.Snapshot, error) {
	out := []model.Snapshot{}
	for _, r := range f.rows {
		if r.AccountID == accountID {
			out = append(out, r.Game)
		}
	}
	return out, nil
}

func (f *fakeFavorites) Add(_ context.Context, accountID int64, game model.Snapshot) error {
	if f.addErr != nil {
		return f.addErr
	}
	for _, r := range f.rows {
		if r.AccountID == accountID && r.Game.ID == game.ID {
			return errs.ErrAlreadyExists
		}
	}
	f.rows = append(f.rows, model.Favorite{AccountID: accountID, Game: game})
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, accountID, gameID int64) (bool, error) {
	for i, r := range f.rows {
		if r.AccountID == accountID && r.Game.ID == gameID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeGuides struct {
	rows []model.Guide
	seq  int64
}

var _ repository.GuideRepository = (*fakeGuides)(nil)

func (f *fakeGuides) List(_ context.Context, flt model.GuideFilter) ([]model.Guide, error) {
	out := []model.Guide{}
	for _, g := range f.rows {
		if flt.Match(g) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeGuides) Get(_ context.Context, id int64) (*model.Guide, error) {
	for _, g := range f.rows {
		if g.ID == id {
			c := g
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeGuides) Create(_ context.Context, g *model.Guide) error {
	f.seq++
	g.ID = f.seq
	f.rows = append(f.rows, *g)
	return nil
}

func (f *fakeGuides) Update(_ context.Context, id int64, fn func(*model.Guide) error) (*model.Guide, error) {
	for i, g := range f.rows {
		if g.ID == id {
			c := g
			if err := fn(&c); err != nil {
				return nil, err
			}
			f.rows[i] = c
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeGuides) Delete(_ context.Context, id int64, check func(*model.Guide) error) error {
	for i, g := range f.rows {
		if g.ID == id {
			c := g
			if err := check(&c); err != nil {
				return err
			}
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}
