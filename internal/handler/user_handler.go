package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/auth"
	"github.com/prn-tf/inventario/internal/metrics"
	"github.com/prn-tf/inventario/internal/service"
)

// UserHandler handles user account requests. Registration is anonymous;
// every other operation acts on the authenticated user.
type UserHandler struct {
	userService *service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With().Str("handler", "user").Logger(),
	}
}

// createUserRequest is the registration request body.
type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest is the profile update request body.
type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Create handles POST /api/usuario.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("user", "create")
	writeSuccess(w, http.StatusCreated, output.User)
}

// Get handles GET /api/usuario. It returns the authenticated user's own
// profile; a vanished account yields a success envelope with null data.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	output, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if output.User == nil {
		writeSuccess(w, http.StatusOK, nil)
		return
	}
	writeSuccess(w, http.StatusOK, output.User)
}

// Update handles PUT /api/usuario.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.userService.Update(r.Context(), service.UpdateUserInput{
		ID:    identity.UserID,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("user", "update")
	writeSuccess(w, http.StatusOK, output.User)
}

// Delete handles DELETE /api/usuario. The account is soft-deleted and
// its session token cleared, ending the session.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.userService.Delete(r.Context(), identity.UserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("user", "delete")
	writeSuccess(w, http.StatusOK, nil)
}
