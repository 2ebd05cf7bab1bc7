package http_handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := response.DecodeJSONObject(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	email, password := dto.LoginInput(body)
	res, err := h.svc.Login(r.Context(), email, password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("user_logged_in")

	response.WriteJSON(w, http.StatusOK, response.Body{
		Status:  response.StatusSuccess,
		Message: "Login successful.",
		Data:    dto.LoginDataFrom(res),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	p, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ProfileFrom(p))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	if err := h.svc.Logout(r.Context(), claims); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Logged out successfully.", nil)
}
