package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiError is a non-2xx reply from the gamehub server.
type apiError struct {
	Status int
	Msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Msg)
}

// session mirrors the register/login reply.
type session struct {
	Message string `json:"message"`
	User    struct {
		ID     int64  `json:"id"`
		Email  string `json:"email"`
		Pseudo string `json:"pseudo"`
	} `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type apiClient struct {
	r *resty.Client
}

// newAPI builds a client for addr. An empty token sends anonymous requests.
func newAPI(addr, token string) *apiClient {
	r := resty.New().
		SetBaseURL(strings.TrimRight(addr, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		r.SetAuthToken(token)
	}
	return &apiClient{r: r}
}

// call performs one request and returns the raw JSON body of a 2xx reply.
func (c *apiClient) call(ctx context.Context, method, path string, body any, query map[string]string) (json.RawMessage, error) {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode())
		}
		return nil, &apiError{Status: resp.StatusCode(), Msg: e.Error}
	}
	return json.RawMessage(resp.Body()), nil
}

func (c *apiClient) authenticate(ctx context.Context, path string, body map[string]string) (session, error) {
	raw, err := c.call(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return session{}, err
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return session{}, errors.New("server returned no token")
	}
	return s, nil
}

func (c *apiClient) register(ctx context.Context, email, password, pseudo string) (session, error) {
	body := map[string]string{"email": email, "password": password}
	if pseudo != "" {
		body["pseudo"] = pseudo
	}
	return c.authenticate(ctx, "/register", body)
}

func (c *apiClient) login(ctx context.Context, email, password string) (session, error) {
	return c.authenticate(ctx, "/login", map[string]string{"email": email, "password": password})
}

// guidePatch sends only the fields that were set on the command line.
func guidePatch(title, content string, setTitle, setContent bool) map[string]string {
	p := map[string]string{}
	if setTitle {
		p["title"] = title
	}
	if setContent {
		p["content"] = content
	}
	return p
}

// kvFlags collects repeated -q key=value flags.
type kvFlags map[string]string

func (k kvFlags) String() string {
	parts := make([]string, 0, len(k))
	for key, v := range k {
		parts = append(parts, key+"="+v)
	}
	return strings.Join(parts, ",")
}

func (k kvFlags) Set(s string) error {
	key, v, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	k[key] = v
	return nil
}
