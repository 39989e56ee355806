package httpserver

import (
	"errors"
	"net/http"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/errs"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess, acc, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Pseudo)
	if err != nil {
		s.fail(w, r, err, messages{
			errs.ErrValidation:    "email and password are required",
			errs.ErrAlreadyExists: "user already exists",
		})
		return
	}
	writeJSON(w, http.StatusCreated, convert.ToSessionView("account created", acc, sess))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess, acc, err := s.auth.LoginWithIP(r.Context(), req.Email, req.Password, clientIP(r))
	switch {
	case err == nil:
		s.observeLogin("ok")
	case errors.Is(err, errs.ErrRateLimited):
		s.observeLogin("locked")
		s.fail(w, r, err, nil)
		return
	case errors.Is(err, errs.ErrUnauthorized):
		s.observeLogin("denied")
		s.fail(w, r, err, nil)
		return
	default:
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToSessionView("login successful", acc, sess))
}

// logout is a no-op: tokens are stateless and the client discards its copy.
func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, convert.MessageView{Message: "logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	writeJSON(w, http.StatusOK, convert.ToIdentityView(c))
}
