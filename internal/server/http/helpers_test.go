package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	pkgcrypto "github.com/and161185/gamehub/internal/crypto"
	"github.com/and161185/gamehub/internal/limiter"
	"github.com/and161185/gamehub/internal/repository/filestore"
	"github.com/and161185/gamehub/internal/service"
	"github.com/and161185/gamehub/internal/token"
	"github.com/and161185/gamehub/internal/upstream"
)

type fakeCatalog struct {
	lastQuery url.Values
	lastID    string
	err       error
}

func (f *fakeCatalog) ListGames(_ context.Context, q url.Values) (json.RawMessage, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"count":1,"results":[{"id":3498,"name":"GTA V"}]}`), nil
}

func (f *fakeCatalog) GetGame(_ context.Context, id string) (json.RawMessage, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":3498,"name":"GTA V"}`), nil
}

func (f *fakeCatalog) Screenshots(_ context.Context, id string) (json.RawMessage, error) {
	f.lastID = id
	return json.RawMessage(`{"results":[]}`), f.err
}

func (f *fakeCatalog) Movies(_ context.Context, id string) (json.RawMessage, error) {
	f.lastID = id
	return json.RawMessage(`{"results":[]}`), f.err
}

func (f *fakeCatalog) Media(_ context.Context, id string) (upstream.Media, error) {
	f.lastID = id
	if f.err != nil {
		return upstream.Media{}, f.err
	}
	return upstream.Media{Screenshots: json.RawMessage(`{"results":[1]}`), Movies: json.RawMessage(`{"results":[]}`)}, nil
}

func (f *fakeCatalog) Filters(context.Context) (upstream.Filters, error) {
	if f.err != nil {
		return upstream.Filters{}, f.err
	}
	return upstream.Filters{
		Genres:    []upstream.Facet{{ID: 4, Name: "Action", Slug: "action"}},
		Platforms: []upstream.Facet{},
	}, nil
}

var _ Catalog = (*fakeCatalog)(nil)

type testEnv struct {
	srv     *httptest.Server
	catalog *fakeCatalog
	issuer  *token.Issuer
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	accounts := filestore.NewAccountRepo(store)
	guides := filestore.NewGuideRepo(store)
	issuer := token.NewIssuer([]byte("test-secret"), 2*time.Hour)
	hasher := pkgcrypto.NewHasher(pkgcrypto.Params{Time: 1, MemKiB: 8 * 1024, Threads: 1})
	lim := limiter.NewMemory(limiter.Policy{Window: time.Minute, MaxFails: 3, BlockFor: time.Minute})
	catalog := &fakeCatalog{}

	s := New(Deps{
		Auth:      service.NewAuthService(accounts, hasher, issuer, lim),
		Favorites: service.NewFavoritesService(filestore.NewFavoriteRepo(store)),
		Guides:    service.NewGuidesService(guides),
		Profiles:  service.NewProfileService(accounts, guides),
		Tokens:    issuer,
		Catalog:   catalog,
		Log:       zaptest.NewLogger(t),
		CORS:      []string{"*"},
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, catalog: catalog, issuer: issuer}
}

// do sends body (marshalled unless it is a string) and decodes the JSON reply into out.
func (e *testEnv) do(t *testing.T, method, path, tok string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type session struct {
	Message string `json:"message"`
	User    struct {
		ID     int64  `json:"id"`
		Email  string `json:"email"`
		Pseudo string `json:"pseudo"`
	} `json:"user"`
	Token string `json:"token"`
}

type guide struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	GameID       int64  `json:"gameId"`
	GameName     string `json:"gameName"`
	AuthorID     int64  `json:"authorId"`
	AuthorPseudo string `json:"authorPseudo"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type errBody struct {
	Error string `json:"error"`
}

func (e *testEnv) register(t *testing.T, email, pw, pseudo string) session {
	t.Helper()
	var s session
	code := e.do(t, http.MethodPost, "/register", "", map[string]string{"email": email, "password": pw, "pseudo": pseudo}, &s)
	require.Equal(t, http.StatusCreated, code)
	return s
}

