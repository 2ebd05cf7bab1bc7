package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

/*
UserRepo
--------
The subset of user persistence the auth flows read.
*/
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindProfile(ctx context.Context, id int64) (domain.UserProfile, error)
}

/*
PasswordHasher
--------------
Login only compares; hashing lives in the users service.
*/
type PasswordHasher interface {
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID int64
	JTI    string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID int64, ttl time.Duration) (string, TokenClaims, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
TokenDenylist
-------------
Revoked access token ids, kept until the token would expire anyway.
Backed by Redis or memory.
*/
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
