// Package filestore implements the repositories over a single JSON document on disk.
//
// The document keeps three top-level collections (users, guides, favorites) plus
// per-table id sequences. A single mutex serializes every access; each mutation is
// applied to a copy, written to a temp file and renamed over the original, so a
// failed write leaves both memory and disk untouched.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/and161185/gamehub/internal/model"
)

type userRecord struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	PwdHash   []byte    `json:"pwdHash"`
	Salt      []byte    `json:"salt"`
	Pseudo    string    `json:"pseudo"`
	CreatedAt time.Time `json:"createdAt"`
}

type guideRecord struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	GameID       int64     `json:"gameId"`
	GameName     string    `json:"gameName"`
	AuthorID     int64     `json:"authorId"`
	AuthorPseudo string    `json:"authorPseudo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type favoriteRecord struct {
	UserID int64          `json:"userId"`
	Game   model.Snapshot `json:"game"`
}

type sequences struct {
	Users  int64 `json:"users"`
	Guides int64 `json:"guides"`
}

type document struct {
	Users     []userRecord     `json:"users"`
	Guides    []guideRecord    `json:"guides"`
	Favorites []favoriteRecord `json:"favorites"`
	Sequences sequences        `json:"sequences"`
}

func (d *document) clone() *document {
	return &document{
		Users:     append([]userRecord{}, d.Users...),
		Guides:    append([]guideRecord{}, d.Guides...),
		Favorites: append([]favoriteRecord{}, d.Favorites...),
		Sequences: d.Sequences,
	}
}

// Store owns the document and its file. Only one process may use a file at a time.
type Store struct {
	mu   sync.Mutex
	path string
	doc  *document
}

// Open loads the document at path, creating it with empty collections if absent.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = &document{}
		if err := s.write(s.doc); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	d.Sequences = reconcile(d)
	s.doc = &d
	return s, nil
}

// reconcile keeps sequences ahead of existing ids, e.g. for documents written
// before sequences were tracked.
func reconcile(d document) sequences {
	seq := d.Sequences
	for _, u := range d.Users {
		seq.Users = max(seq.Users, u.ID)
	}
	for _, g := range d.Guides {
		seq.Guides = max(seq.Guides, g.ID)
	}
	return seq
}

// view runs fn against the current document under the lock. fn must not modify it.
func (s *Store) view(fn func(d *document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// mutate applies fn to a copy of the document and commits it only if fn
// succeeds and the copy reaches disk.
func (s *Store) mutate(fn func(d *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) write(d *document) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
