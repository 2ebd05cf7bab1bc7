package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/user-service/internal/pkg/context"
)

// Authenticator verifies a raw bearer token, including revocation.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth gates a route on Authorization: Bearer <access_token>. Verified claims
// are stored in the request context for handlers; the user id is also
// attached for request logging.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if claims.UserID <= 0 {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = appCtx.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrUnauthenticated()
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenInvalid()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenInvalid()
	}
	return token, nil
}
