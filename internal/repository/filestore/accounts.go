package filestore

import (
	"context"
	"time"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// AccountRepo implements repository.AccountRepository on the document's users collection.
type AccountRepo struct {
	s   *Store
	now func() time.Time
}

// NewAccountRepo constructs an account repository.
func NewAccountRepo(s *Store) *AccountRepo { return &AccountRepo{s: s, now: time.Now} }

// Create assigns the next user id and appends the account.
func (r *AccountRepo) Create(_ context.Context, a *model.Account) error {
	return r.s.mutate(func(d *document) error {
		for _, u := range d.Users {
			if u.Email == a.Email {
				return errs.ErrAlreadyExists
			}
		}
		d.Sequences.Users++
		rec := userRecord{
			ID:        d.Sequences.Users,
			Email:     a.Email,
			PwdHash:   a.PwdHash,
			Salt:      a.Salt,
			Pseudo:    a.Pseudo,
			CreatedAt: r.now().UTC(),
		}
		d.Users = append(d.Users, rec)
		a.ID, a.CreatedAt = rec.ID, rec.CreatedAt
		return nil
	})
}

// GetByID finds an account by id.
func (r *AccountRepo) GetByID(_ context.Context, id int64) (*model.Account, error) {
	return r.find(func(u userRecord) bool { return u.ID == id })
}

// GetByEmail finds an account by exact email.
func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	return r.find(func(u userRecord) bool { return u.Email == email })
}

func (r *AccountRepo) find(match func(userRecord) bool) (*model.Account, error) {
	var out *model.Account
	r.s.view(func(d *document) {
		for _, u := range d.Users {
			if match(u) {
				out = &model.Account{
					ID: u.ID, Email: u.Email, PwdHash: u.PwdHash, Salt: u.Salt,
					Pseudo: u.Pseudo, CreatedAt: u.CreatedAt,
				}
				return
			}
		}
	})
	if out == nil {
		return nil, errs.ErrNotFound
	}
	return out, nil
}
