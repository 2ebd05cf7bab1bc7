package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/fake"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

// testEnv wires the real services over in-memory infrastructure.
type testEnv struct {
	mux    http.Handler
	repo   *memory.UserRepo
	hasher *security.BcryptHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewUserRepo()
	hasher := security.NewBcryptHasher(4)
	signer := security.NewJWTSigner("test-secret", "user-service")

	userSvc := users.NewService(repo, hasher, fake.New(7), nil)
	authSvc := auth.NewService(repo, hasher, signer, memory.NewTokenDenylist(), auth.Config{AccessTTL: time.Minute})

	uh := NewUsersHandler(userSvc, authSvc)
	ah := NewAuthHandler(authSvc)
	authMW := middleware.Auth(authSvc, response.WriteError)

	r := chi.NewRouter()
	r.Get("/users", uh.Index)
	r.Post("/users", uh.Store)
	r.Get("/users/insert-fake", uh.InsertFake)
	r.Get("/users/{id}", uh.Show)
	r.Put("/users/{id}", uh.Update)
	r.Patch("/users/{id}", uh.Update)
	r.Delete("/users/{id}", uh.Destroy)
	r.With(authMW).Get("/users/{id}/secure", uh.ShowSecure)
	r.With(authMW).Put("/users/{id}/secure", uh.UpdateSecure)
	r.Post("/auth/login", ah.Login)
	r.With(authMW).Get("/auth/me", ah.Me)
	r.With(authMW).Post("/auth/logout", ah.Logout)

	return &testEnv{mux: r, repo: repo, hasher: hasher}
}

// seedUser stores a user directly, bypassing the HTTP layer.
func (e *testEnv) seedUser(t *testing.T, name, email, password string) domain.User {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := e.repo.Create(context.Background(), domain.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		rdr = mustJSONBody(t, b)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/auth/login", map[string]any{"email": email, "password": password}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	mustReadJSON(t, rr.Body, &out)
	if out.Data.AccessToken == "" {
		t.Fatalf("empty access token: %s", rr.Body.String())
	}
	return out.Data.AccessToken
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed: %v; body=%s", err, string(raw))
	}
}

// envelope is a loose view of any response body.
type envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	User    map[string]any      `json:"user"`
	Errors  map[string][]string `json:"errors"`
}

func readEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	mustReadJSON(t, rr.Body, &env)
	return env
}
