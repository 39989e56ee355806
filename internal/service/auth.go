// Package service contains application services: accounts and sessions,
// favorites, guides and public profiles.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgcrypto "github.com/and161185/gamehub/internal/crypto"
	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/limiter"
	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/repository"
	"github.com/and161185/gamehub/internal/token"
)

// AuthService defines registration, login and identity lookups.
type AuthService interface {
	// Register creates an account and opens a session for it.
	Register(ctx context.Context, email, password, pseudo string) (model.Session, model.Account, error)
	// LoginWithIP applies rate-limiting and authenticates the account.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Session, model.Account, error)
	// FindByID returns the account or errs.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Account, error)
}

// PasswordHasher derives and checks salted password hashes; *crypto.Hasher implements it.
type PasswordHasher interface {
	Hash(password []byte) (hash, salt []byte, err error)
	Verify(password, salt, expected []byte) bool
}

// Unknown emails are verified against these so both failure paths pay for one derivation.
var (
	dummySalt = make([]byte, pkgcrypto.SaltLen)
	dummyHash = make([]byte, 32)
)

type AuthServiceImpl struct {
	users  repository.AccountRepository
	hasher PasswordHasher
	tokens *token.Issuer
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.AccountRepository, hasher PasswordHasher, tokens *token.Issuer, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, hasher: hasher, tokens: tokens, lim: lim}
}

// Register stores a salted hash of the password. An empty pseudo defaults to
// the local part of the email.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, pseudo string) (model.Session, model.Account, error) {
	if email == "" || password == "" {
		return model.Session{}, model.Account{}, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}
	if pseudo == "" {
		pseudo, _, _ = strings.Cut(email, "@")
	}

	hash, salt, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return model.Session{}, model.Account{}, err
	}
	a := &model.Account{Email: email, PwdHash: hash, Salt: salt, Pseudo: pseudo}
	if err := s.users.Create(ctx, a); err != nil {
		return model.Session{}, model.Account{}, err
	}

	sess, err := s.tokens.Issue(*a)
	if err != nil {
		return model.Session{}, model.Account{}, err
	}
	return sess, *a, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
// Unknown email and wrong password are reported identically.
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Session, model.Account, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Session{}, model.Account{}, err
	}
	if !allowed {
		return model.Session{}, model.Account{}, errs.ErrRateLimited
	}

	a, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Session{}, model.Account{}, err
	}
	var ok bool
	if err != nil {
		s.hasher.Verify([]byte(password), dummySalt, dummyHash)
	} else {
		ok = s.hasher.Verify([]byte(password), a.Salt, a.PwdHash)
	}
	if !ok {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Session{}, model.Account{}, errs.ErrRateLimited
		}
		return model.Session{}, model.Account{}, errs.ErrUnauthorized
	}

	// best-effort
	_ = s.lim.Success(ctx, email, ipHash)

	sess, err := s.tokens.Issue(*a)
	if err != nil {
		return model.Session{}, model.Account{}, err
	}
	return sess, *a, nil
}

// FindByID returns an account by id.
func (s *AuthServiceImpl) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	return s.users.GetByID(ctx, id)
}
