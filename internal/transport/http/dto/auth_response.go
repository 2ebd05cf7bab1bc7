package dto

import (
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
)

// LoginData is the data payload of a successful login.
type LoginData struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"` // "Bearer"
	ExpiresIn   int64       `json:"expires_in"` // seconds
	User        UserSummary `json:"user"`
}

func LoginDataFrom(res auth.LoginResult) LoginData {
	return LoginData{
		AccessToken: res.Tokens.AccessToken,
		TokenType:   res.Tokens.TokenType,
		ExpiresIn:   res.Tokens.ExpiresIn,
		User:        SummaryFrom(res.User),
	}
}
