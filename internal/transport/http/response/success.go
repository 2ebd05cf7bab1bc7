package response

import (
	"encoding/json"
	"net/http"
)

// Body is the envelope every JSON response is wrapped in.
type Body struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	User    any                 `json:"user,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WriteJSON writes v as JSON with the given status code.
// It sets Content-Type to application/json; charset=utf-8 if not already set.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response with {"status":"success","data": ...}.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Body{Status: StatusSuccess, Data: data})
}

// Message writes a success envelope carrying a message and an optional user.
func Message(w http.ResponseWriter, status int, msg string, user any) {
	WriteJSON(w, status, Body{Status: StatusSuccess, Message: msg, User: user})
}

// Created writes a 201 response with a message and the created user.
func Created(w http.ResponseWriter, msg string, user any) {
	Message(w, http.StatusCreated, msg, user)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
