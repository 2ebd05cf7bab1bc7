package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/validation"
)

type Service struct {
	users    UserRepo
	hasher   PasswordHasher
	signer   TokenSigner
	denylist TokenDenylist
	rules    *validation.Validator

	accessTTL time.Duration
	audit     func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	denylist TokenDenylist,
	cfg Config,
) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		denylist:  denylist,
		rules:     validation.New(),
		accessTTL: ttl,
		audit:     func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AuthTokens is the token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken string
	ExpiresIn   int64  // seconds
	TokenType   string // "Bearer"
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) issueToken(userID int64) (AuthTokens, error) {
	access, _, err := s.signer.SignAccessToken(userID, s.accessTTL)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return AuthTokens{}, de
		}
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	return AuthTokens{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := err.(*domain.Error); ok {
		return de.Code
	}
	return "non_domain_error"
}

func idString(id int64) string { return strconv.FormatInt(id, 10) }
