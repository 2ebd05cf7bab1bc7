package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/validation"
)

// Login authenticates a user and issues an access token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password validation.Field) (LoginResult, error) {
	errs, err := s.rules.Validate(ctx, map[string]validation.Rules{
		"email":    {Field: email, Required: true},
		"password": {Field: password, Required: true},
	})
	if err != nil {
		return LoginResult{}, err
	}
	if errs != nil {
		return LoginResult{}, domain.ErrValidation(errs)
	}

	addr, _ := email.String()
	addr = strings.ToLower(strings.TrimSpace(addr))
	pw, _ := password.String()

	u, err := s.users.FindByEmail(ctx, addr)
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			return LoginResult{}, err
		}
		// Hide not-found behind invalid credentials
		s.audit("auth.login_failed", map[string]string{"email": addr, "reason": "unknown_email"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, pw); err != nil {
		s.audit("auth.login_failed", map[string]string{"email": addr, "reason": "bad_password"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.issueToken(u.ID)
	if err != nil {
		s.audit("auth.login_failed", map[string]string{"email": addr, "reason": domainCode(err)})
		return LoginResult{}, err
	}

	s.audit("auth.login_success", map[string]string{"user_id": idString(u.ID), "email": addr})
	return LoginResult{User: u, Tokens: tok}, nil
}
