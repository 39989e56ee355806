package httpserver

import (
	"context"

	"github.com/and161185/gamehub/internal/model"
)

type ctxKey string

const (
	claimsKey    ctxKey = "gh.claims"
	requestIDKey ctxKey = "gh.requestID"
)

// WithClaims stores the authenticated identity in context.
func WithClaims(ctx context.Context, c model.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromCtx fetches the authenticated identity from context.
func ClaimsFromCtx(ctx context.Context) (model.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(model.Claims)
	return c, ok
}

// RequestIDFromCtx returns the id assigned by the RequestID middleware.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
