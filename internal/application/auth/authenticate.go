package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, domain.ErrUnauthenticated()
	}

	claims, err := s.signer.VerifyAccessToken(token)
	if err != nil {
		return TokenClaims{}, err
	}

	if claims.JTI != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.JTI)
		if err != nil {
			return TokenClaims{}, err
		}
		if revoked {
			return TokenClaims{}, domain.ErrTokenRevoked()
		}
	}

	return claims, nil
}

// AuthorizeSelf allows a caller to act only on its own user record.
func (s *Service) AuthorizeSelf(claims TokenClaims, targetID int64) error {
	if claims.UserID != targetID {
		s.audit("auth.forbidden", map[string]string{
			"user_id":   idString(claims.UserID),
			"target_id": idString(targetID),
		})
		return domain.ErrForbidden()
	}
	return nil
}
