package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 422
	KindBadRequest     ErrKind = "bad_request"    // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code
// - Message: safe summary for clients
// - Fields: per-field validation messages (validation kind only)
// - Cause: wrapped internal error for logging
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Fields  map[string][]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation (422 / 400)
// ----------------------

func ErrValidation(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "validation_failed",
		Message: "Validation failed",
		Fields:  fields,
	}
}

// ErrEmailTaken is raised by the store when the unique index rejects a write.
func ErrEmailTaken() *Error {
	return ErrValidation(map[string][]string{
		"email": {"The email has already been taken."},
	})
}

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindBadRequest, "invalid_json", "Malformed JSON body.", cause)
}

// ----------------------
// Auth (401 / 403)
// ----------------------

// IMPORTANT: used for every login failure to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "Invalid credentials.")
}

func ErrUnauthenticated() *Error {
	return New(KindAuth, "unauthenticated", "Unauthenticated.")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "Unauthenticated.")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "Unauthenticated.")
}

func ErrTokenRevoked() *Error {
	return New(KindAuth, "token_revoked", "Unauthenticated.")
}

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "Forbidden.")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "User not found.")
}

// WithMessage returns a copy of err carrying an operation specific message.
func WithMessage(err *Error, msg string) *Error {
	cp := *err
	cp.Message = msg
	return &cp
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited() *Error {
	return New(KindRateLimited, "rate_limited", "Too many requests.")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "Service unavailable.", cause)
}

func ErrCacheUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "cache_unavailable", "Service unavailable.", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "Internal server error.", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "Internal server error.", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "Internal server error.", cause)
}
