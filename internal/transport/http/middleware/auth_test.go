package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/user-service/internal/pkg/context"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

// ---- fakes ----

type fakeAuthenticator struct {
	claims auth.TokenClaims
	err    error
	calls  int
	gotTok string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (auth.TokenClaims, error) {
	f.calls++
	f.gotTok = token
	return f.claims, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, r *http.Request, err error) {
	w.calls++
	w.last = err
	response.WriteError(rw, r, err)
}

type nextRecorder struct {
	calls  int
	claims auth.TokenClaims
	logID  int64
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.claims, _ = ClaimsFromContext(r.Context())
	n.logID, _ = appCtx.GetUserID(r.Context())
	w.WriteHeader(http.StatusOK)
}

func runAuthMW(t *testing.T, authn Authenticator, header string) (*httptest.ResponseRecorder, *writeErrRecorder, *nextRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	Auth(authn, we.fn)(nx).ServeHTTP(rr, req)
	return rr, we, nx
}

// ---- tests ----

func TestAuth_MissingHeader_Unauthenticated(t *testing.T) {
	a := &fakeAuthenticator{}
	rr, we, nx := runAuthMW(t, a, "")

	if rr.Code != http.StatusUnauthorized || !domain.Is(we.last, "unauthenticated") {
		t.Fatalf("expected 401 unauthenticated, got %d %v", rr.Code, we.last)
	}
	if a.calls != 0 || nx.calls != 0 {
		t.Fatalf("authenticator/next must not run")
	}
}

func TestAuth_MalformedHeader_TokenInvalid(t *testing.T) {
	for _, h := range []string{"Basic abc", "Bearer", "Bearer    ", "token"} {
		a := &fakeAuthenticator{}
		rr, we, nx := runAuthMW(t, a, h)

		if rr.Code != http.StatusUnauthorized || !domain.Is(we.last, "token_invalid") {
			t.Fatalf("header %q: expected 401 token_invalid, got %d %v", h, rr.Code, we.last)
		}
		if a.calls != 0 || nx.calls != 0 {
			t.Fatalf("header %q: authenticator/next must not run", h)
		}
	}
}

func TestAuth_AuthenticatorError_Propagates(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrTokenExpired(), http.StatusUnauthorized},
		{domain.ErrTokenRevoked(), http.StatusUnauthorized},
		{domain.ErrCacheUnavailable(nil), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		a := &fakeAuthenticator{err: tc.err}
		rr, _, nx := runAuthMW(t, a, "Bearer tok")

		if rr.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rr.Code)
		}
		if nx.calls != 0 {
			t.Fatalf("next must not run on %v", tc.err)
		}
	}
}

func TestAuth_ZeroSubject_Rejected(t *testing.T) {
	a := &fakeAuthenticator{claims: auth.TokenClaims{JTI: "j"}}
	rr, we, _ := runAuthMW(t, a, "Bearer tok")

	if rr.Code != http.StatusUnauthorized || !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %d %v", rr.Code, we.last)
	}
}

func TestAuth_Success_InjectsClaims(t *testing.T) {
	exp := time.Now().Add(time.Minute)
	a := &fakeAuthenticator{claims: auth.TokenClaims{UserID: 7, JTI: "j1", Exp: exp}}
	rr, we, nx := runAuthMW(t, a, "bearer  tok-123 ")

	if rr.Code != http.StatusOK || we.calls != 0 {
		t.Fatalf("expected 200, got %d (%v)", rr.Code, we.last)
	}
	if a.gotTok != "tok-123" {
		t.Fatalf("token not trimmed: %q", a.gotTok)
	}
	if nx.claims.UserID != 7 || nx.claims.JTI != "j1" {
		t.Fatalf("claims not injected: %+v", nx.claims)
	}
	if nx.logID != 7 {
		t.Fatalf("user id not attached for logging: %d", nx.logID)
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Fatalf("expected no claims")
	}
}
