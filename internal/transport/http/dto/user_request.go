package dto

import (
	"strings"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/validation"
)

// Request keys that keep surrounding whitespace.
var untrimmed = map[string]bool{
	"password":              true,
	"password_confirmation": true,
}

// field pulls key out of a decoded body, trimming string values
// unless the key holds a secret.
func field(body map[string]any, key string) validation.Field {
	f := validation.FieldFrom(body, key)
	if s, ok := f.Value.(string); ok && !untrimmed[key] {
		f.Value = strings.TrimSpace(s)
	}
	return f
}

// UserInput maps a create/update body onto the service input.
// Key presence is preserved so partial updates can skip absent fields.
func UserInput(body map[string]any) users.Input {
	return users.Input{
		Name:                 field(body, "name"),
		Email:                field(body, "email"),
		Password:             field(body, "password"),
		PasswordConfirmation: field(body, "password_confirmation"),
	}
}

// LoginInput extracts the credentials of a login body.
func LoginInput(body map[string]any) (email, password validation.Field) {
	return field(body, "email"), field(body, "password")
}
