package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/errs"
)

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	msgs := messages{errs.ErrNotFound: "user not found"}
	id, err := pathID(mux.Vars(r)["id"], errs.ErrNotFound)
	if err != nil {
		s.fail(w, r, err, msgs)
		return
	}
	p, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, msgs)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToProfileView(*p))
}
