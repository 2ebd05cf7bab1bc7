package middleware

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
)

type ctxKey string

const ctxClaims ctxKey = "auth_claims"

func WithClaims(ctx context.Context, c auth.TokenClaims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func ClaimsFromContext(ctx context.Context) (auth.TokenClaims, bool) {
	c, ok := ctx.Value(ctxClaims).(auth.TokenClaims)
	return c, ok && c.UserID > 0
}
