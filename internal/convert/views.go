// Package convert maps domain models to their JSON wire representation.
package convert

import (
	"time"

	"github.com/and161185/gamehub/internal/model"
)

// UserView is the public part of an account returned by register and login.
type UserView struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Pseudo string `json:"pseudo"`
}

// SessionView is the body of a successful register or login.
type SessionView struct {
	Message   string    `json:"message"`
	User      UserView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GuideView is a guide as stored and served.
type GuideView struct {
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

// ProfileView is the public profile: identity plus authored guides.
type ProfileView struct {
	ID     int64       `json:"id"`
	Pseudo string      `json:"pseudo"`
	Email  string      `json:"email"`
	Guides []GuideView `json:"guides"`
}

// IdentityView describes the caller resolved from its token.
type IdentityView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Pseudo    string    `json:"pseudo"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MessageView is a bare acknowledgement.
type MessageView struct {
	Message string `json:"message"`
}

// ErrorView is the body of every error response.
type ErrorView struct {
	Error string `json:"error"`
}

func ToUserView(a model.Account) UserView {
	return UserView{ID: a.ID, Email: a.Email, Pseudo: a.Pseudo}
}

func ToSessionView(msg string, a model.Account, s model.Session) SessionView {
	return SessionView{Message: msg, User: ToUserView(a), Token: s.Token, ExpiresAt: s.ExpiresAt}
}

func ToGuideView(g model.Guide) GuideView {
	return GuideView{
		ID:           g.ID,
		Title:        g.Title,
		Content:      g.Content,
		GameID:       g.GameID,
		GameName:     g.GameName,
		AuthorID:     g.AuthorID,
		AuthorPseudo: g.AuthorPseudo,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// ToGuideViews never returns nil so empty lists encode as [].
func ToGuideViews(gs []model.Guide) []GuideView {
	out := make([]GuideView, 0, len(gs))
	for _, g := range gs {
		out = append(out, ToGuideView(g))
	}
	return out
}

func ToProfileView(p model.Profile) ProfileView {
	return ProfileView{ID: p.ID, Pseudo: p.Pseudo, Email: p.Email, Guides: ToGuideViews(p.Guides)}
}

func ToIdentityView(c model.Claims) IdentityView {
	return IdentityView{ID: c.AccountID, Email: c.Email, Pseudo: c.Pseudo, ExpiresAt: c.ExpiresAt}
}

// ToSnapshots keeps favorites as captured; nil becomes an empty list.
func ToSnapshots(s []model.Snapshot) []model.Snapshot {
	if s == nil {
		return []model.Snapshot{}
	}
	return s
}
