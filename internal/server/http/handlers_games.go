package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/and161185/gamehub/internal/errs"
)

// Every upstream failure, including an unknown game, is a 500.
var gameMessages = messages{errs.ErrUpstream: "game not found or catalog error"}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	body, err := s.catalog.ListGames(r.Context(), r.URL.Query())
	s.relay(w, r, body, err, nil)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	body, err := s.catalog.GetGame(r.Context(), mux.Vars(r)["id"])
	s.relay(w, r, body, err, gameMessages)
}

func (s *Server) gameScreenshots(w http.ResponseWriter, r *http.Request) {
	body, err := s.catalog.Screenshots(r.Context(), mux.Vars(r)["id"])
	s.relay(w, r, body, err, gameMessages)
}

func (s *Server) gameMovies(w http.ResponseWriter, r *http.Request) {
	body, err := s.catalog.Movies(r.Context(), mux.Vars(r)["id"])
	s.relay(w, r, body, err, gameMessages)
}

func (s *Server) gameMedia(w http.ResponseWriter, r *http.Request) {
	m, err := s.catalog.Media(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, gameMessages)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) filters(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalog.Filters(r.Context())
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// relay writes an upstream payload unchanged.
func (s *Server) relay(w http.ResponseWriter, r *http.Request, body json.RawMessage, err error, custom messages) {
	if err != nil {
		s.fail(w, r, err, custom)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
