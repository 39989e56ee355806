// Package httpserver exposes the gamehub HTTP/JSON API.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/model"
	"github.com/and161185/gamehub/internal/service"
	"github.com/and161185/gamehub/internal/upstream"
)

// TokenValidator resolves a raw session token into claims.
type TokenValidator interface {
	Validate(raw string) (model.Claims, error)
}

// Catalog is the upstream game metadata proxy.
type Catalog interface {
	ListGames(ctx context.Context, q url.Values) (json.RawMessage, error)
	GetGame(ctx context.Context, id string) (json.RawMessage, error)
	Screenshots(ctx context.Context, id string) (json.RawMessage, error)
	Movies(ctx context.Context, id string) (json.RawMessage, error)
	Media(ctx context.Context, id string) (upstream.Media, error)
	Filters(ctx context.Context) (upstream.Filters, error)
}

// Observer receives request metrics; metrics.Metrics implements it.
type Observer interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
	ObserveLogin(outcome string)
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Auth      service.AuthService
	Favorites service.FavoritesService
	Guides    service.GuidesService
	Profiles  service.ProfileService
	Tokens    TokenValidator
	Catalog   Catalog
	Metrics   Observer // optional
	Log       *zap.Logger
	CORS      []string
}

// Server wires services into HTTP handlers.
type Server struct {
	auth      service.AuthService
	favorites service.FavoritesService
	guides    service.GuidesService
	profiles  service.ProfileService
	tokens    TokenValidator
	catalog   Catalog
	metrics   Observer
	log       *zap.Logger
	cors      *CORS
}

// New constructs the HTTP API.
func New(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		auth:      d.Auth,
		favorites: d.Favorites,
		guides:    d.Guides,
		profiles:  d.Profiles,
		tokens:    d.Tokens,
		catalog:   d.Catalog,
		metrics:   d.Metrics,
		log:       log,
		cors:      NewCORS(d.CORS),
	}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	r.HandleFunc("/me", s.requireAuth(s.me)).Methods(http.MethodGet)

	r.HandleFunc("/games", s.listGames).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", s.getGame).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/screenshots", s.gameScreenshots).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/movies", s.gameMovies).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/media", s.gameMedia).Methods(http.MethodGet)
	r.HandleFunc("/filters", s.filters).Methods(http.MethodGet)

	r.HandleFunc("/favorites", s.requireAuth(s.listFavorites)).Methods(http.MethodGet)
	r.HandleFunc("/favorites", s.requireAuth(s.addFavorite)).Methods(http.MethodPost)
	r.HandleFunc("/favorites/{id}", s.requireAuth(s.removeFavorite)).Methods(http.MethodDelete)

	r.HandleFunc("/guides", s.listGuides).Methods(http.MethodGet)
	r.HandleFunc("/guides", s.requireAuth(s.createGuide)).Methods(http.MethodPost)
	r.HandleFunc("/guides/{id}", s.getGuide).Methods(http.MethodGet)
	r.HandleFunc("/guides/{id}", s.requireAuth(s.updateGuide)).Methods(http.MethodPut)
	r.HandleFunc("/guides/{id}", s.requireAuth(s.deleteGuide)).Methods(http.MethodDelete)

	r.HandleFunc("/users/{id}/profile", s.profile).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, convert.ErrorView{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, convert.ErrorView{Error: "method not allowed"})
	})

	// outermost first: id, log, recover, cors
	var h http.Handler = r
	h = s.cors.Handler(h)
	h = Recover(s.log)(h)
	h = Logging(s.log)(h)
	h = RequestID(h)
	return h
}

// requireAuth is the authorization guard: 401 without a token, 403 for a bad one.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Validate(bearerToken(r))
		if err != nil {
			s.fail(w, r, err, nil)
			return
		}
		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) observeLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveLogin(outcome)
	}
}
