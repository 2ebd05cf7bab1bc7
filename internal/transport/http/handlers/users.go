package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

const (
	msgUserCreated     = "User created successfully."
	msgUserUpdated     = "User updated successfully."
	msgFakeUserCreated = "Fake user created successfully."

	msgNotFoundForUpdate   = "User not found for update."
	msgNotFoundForDeletion = "User not found for deletion."
)

type UsersHandler struct {
	svc   *users.Service
	authz *auth.Service
}

func NewUsersHandler(svc *users.Service, authz *auth.Service) *UsersHandler {
	return &UsersHandler{svc: svc, authz: authz}
}

// userID reads {id}. Anything that cannot name a stored row is reported as
// not found with the caller's message.
func userID(r *http.Request, notFoundMsg string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.WithMessage(domain.ErrUserNotFound(), notFoundMsg)
	}
	return id, nil
}

// Index handles GET /users
func (h *UsersHandler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ProfilesFrom(list))
}

// Store handles POST /users
func (h *UsersHandler) Store(w http.ResponseWriter, r *http.Request) {
	body, err := response.DecodeJSONObject(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Create(r.Context(), dto.UserInput(body))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, msgUserCreated, dto.SummaryFrom(u))
}

// Show handles GET /users/{id}
func (h *UsersHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, domain.ErrUserNotFound().Message)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Show(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ProfileFrom(p))
}

// Update handles PUT/PATCH /users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, msgNotFoundForUpdate)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.update(w, r, id)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	body, err := response.DecodeJSONObject(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Update(r.Context(), id, dto.UserInput(body))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, msgUserUpdated, dto.SummaryFrom(u))
}

// Destroy handles DELETE /users/{id}
func (h *UsersHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, msgNotFoundForDeletion)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Destroy(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// InsertFake handles GET /users/insert-fake
func (h *UsersHandler) InsertFake(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.InsertFake(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, msgFakeUserCreated, dto.SummaryFrom(u))
}

// ShowSecure handles GET /users/{id}/secure. Any authenticated caller may read.
func (h *UsersHandler) ShowSecure(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}
	h.Show(w, r)
}

// UpdateSecure handles PUT /users/{id}/secure. Callers may only update themselves.
func (h *UsersHandler) UpdateSecure(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrUnauthenticated())
		return
	}

	id, err := userID(r, msgNotFoundForUpdate)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.authz.AuthorizeSelf(claims, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.update(w, r, id)
}
