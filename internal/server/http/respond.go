package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/errs"
)

const (
	msgInternal     = "internal error"
	msgUnauthorized = "invalid credentials"
	msgNoToken      = "not authenticated"
	msgBadToken     = "invalid or expired token"
	msgForbidden    = "not allowed"
	msgNotFound     = "not found"
	msgConflict     = "already exists"
	msgUpstream     = "error while contacting the game catalog"
	msgRateLimited  = "too many failed attempts, try again later"

	maxBodyBytes = 1 << 20
)

// messages overrides the default text per sentinel for one endpoint.
type messages map[error]string

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classify maps the error taxonomy to a status and a default message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), errs.ErrValidation.Error()+": ")
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusBadRequest, msgConflict
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, errs.ErrTokenMissing):
		return http.StatusUnauthorized, msgNoToken
	case errors.Is(err, errs.ErrTokenInvalid), errors.Is(err, errs.ErrTokenExpired):
		return http.StatusForbidden, msgBadToken
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, errs.ErrUpstream):
		return http.StatusInternalServerError, msgUpstream
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail renders err as {"error": "..."}; server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, custom messages) {
	status, msg := classify(err)
	for target, m := range custom {
		if errors.Is(err, target) {
			msg = m
			break
		}
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromCtx(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, convert.ErrorView{Error: msg})
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable request body", errs.ErrValidation)
	}
	return b, nil
}

// decodeJSON decodes a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	b, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", errs.ErrValidation)
	}
	return nil
}
