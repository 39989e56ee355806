// Package model defines domain entities used by services and repositories.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Account represents a registered user. The password is never stored in plaintext.
type Account struct {
	ID        int64  // assigned by the repository, monotonically increasing
	Email     string // unique, case-sensitive as stored
	PwdHash   []byte // Argon2id(password, Salt)
	Salt      []byte // per-account salt
	Pseudo    string // display name
	CreatedAt time.Time
}

// Claims is the identity carried by a valid session token.
type Claims struct {
	AccountID int64
	Email     string
	Pseudo    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is a freshly issued token together with its expiry (for diagnostics and clients).
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Snapshot is an opaque copy of an upstream game summary captured at write time.
// Only the numeric id is interpreted; everything else is kept byte for byte.
type Snapshot struct {
	ID  int64
	Raw json.RawMessage
}

// ErrBadSnapshot is returned when a snapshot is not a JSON object with a positive integer id.
var ErrBadSnapshot = errors.New("snapshot must be a JSON object with a positive integer id")

// ParseSnapshot validates raw JSON and extracts the game id. The whole input
// must be a single JSON object.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return Snapshot{}, ErrBadSnapshot
	}
	var head struct {
		ID json.Number `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&head); err != nil {
		return Snapshot{}, ErrBadSnapshot
	}
	id, err := head.ID.Int64()
	if err != nil || id <= 0 {
		return Snapshot{}, ErrBadSnapshot
	}
	return Snapshot{ID: id, Raw: append(json.RawMessage(nil), raw...)}, nil
}

// MarshalJSON emits the captured payload unchanged.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// UnmarshalJSON parses and validates a snapshot payload.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	snap, err := ParseSnapshot(b)
	if err != nil {
		return err
	}
	*s = snap
	return nil
}

// Favorite links an account to a saved game snapshot. At most one per (AccountID, Game.ID).
type Favorite struct {
	AccountID int64
	Game      Snapshot
}

// Guide is a community document about a game, owned by its author.
type Guide struct {
	ID           int64
	Title        string
	Content      string
	GameID       int64
	GameName     string // denormalized at creation
	AuthorID     int64  // immutable, taken from the token
	AuthorPseudo string // immutable, taken from the token
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GuideFilter narrows guide listings. Zero values mean "no filter"; both set means AND.
type GuideFilter struct {
	GameID   int64
	AuthorID int64
}

// Match reports whether g satisfies the filter.
func (f GuideFilter) Match(g Guide) bool {
	if f.GameID != 0 && g.GameID != f.GameID {
		return false
	}
	if f.AuthorID != 0 && g.AuthorID != f.AuthorID {
		return false
	}
	return true
}

// NewGuide is the client-controlled part of a guide creation request.
type NewGuide struct {
	Title    string
	Content  string
	GameID   int64
	GameName string
}

// GuidePatch is a partial update; nil fields keep the stored value.
type GuidePatch struct {
	Title   *string
	Content *string
}

// Profile is the public view of an account with its authored guides.
type Profile struct {
	ID     int64
	Pseudo string
	Email  string
	Guides []Guide
}
