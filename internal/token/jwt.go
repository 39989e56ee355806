// Package token issues and validates stateless session tokens (HS256 JWT).
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

// Claims is the signed payload: account identity plus registered timestamps.
type Claims struct {
	jwt.RegisteredClaims
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Pseudo string `json:"pseudo"`
}

// Issuer mints and validates session tokens. It keeps no state: there is no
// revocation, a leaked token stays valid until it expires.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer constructs an Issuer signing with key; tokens live for ttl.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source (tests).
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for the account.
func (i *Issuer) Issue(a model.Account) (model.Session, error) {
	// the token carries whole seconds; T is the instant it records
	now := i.now().Truncate(jwt.TimePrecision)
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		ID:     a.ID,
		Email:  a.Email,
		Pseudo: a.Pseudo,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return model.Session{}, fmt.Errorf("sign token: %w", err)
	}
	return model.Session{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate checks signature and expiry and returns the embedded identity.
// Errors: errs.ErrTokenMissing, errs.ErrTokenInvalid, errs.ErrTokenExpired.
func (i *Issuer) Validate(raw string) (model.Claims, error) {
	if raw == "" {
		return model.Claims{}, errs.ErrTokenMissing
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.Claims{}, errs.ErrTokenExpired
	default:
		return model.Claims{}, fmt.Errorf("%w: %v", errs.ErrTokenInvalid, err)
	}

	if claims.ID <= 0 {
		return model.Claims{}, fmt.Errorf("%w: missing account id", errs.ErrTokenInvalid)
	}
	out := model.Claims{
		AccountID: claims.ID,
		Email:     claims.Email,
		Pseudo:    claims.Pseudo,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
