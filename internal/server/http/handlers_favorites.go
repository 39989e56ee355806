package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	list, err := s.favorites.List(r.Context(), c.AccountID)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToSnapshots(list))
}

// addFavorite stores the request body verbatim as the snapshot.
func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	game, err := model.ParseSnapshot(body)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errs.ErrValidation, err), nil)
		return
	}
	saved, err := s.favorites.Add(r.Context(), c.AccountID, game)
	if err != nil {
		s.fail(w, r, err, messages{errs.ErrAlreadyExists: "already in favorites"})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	// an id that cannot name a favorite removes nothing
	if gameID, err := pathID(mux.Vars(r)["id"], errs.ErrNotFound); err == nil {
		if err := s.favorites.Remove(r.Context(), c.AccountID, gameID); err != nil {
			s.fail(w, r, err, nil)
			return
		}
	}
	writeJSON(w, http.StatusOK, convert.MessageView{Message: "removed from favorites"})
}
