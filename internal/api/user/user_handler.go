package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsm-gustavo/userauth-api/internal/api/respond"
	"github.com/hsm-gustavo/userauth-api/internal/api/validation"
	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/db"
)

type Handler struct {
	service *UserService
	logger  *slog.Logger
}

func NewHandler(service *UserService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" example:"João Silva"`
	Email    string `json:"email" example:"joao@example.com"`
	Password string `json:"password" example:"password123"`
}

// UpdateUserRequest fields are optional; omitted fields keep their value.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" example:"João Souza"`
	Email    *string `json:"email,omitempty" example:"joao.souza@example.com"`
	Password *string `json:"password,omitempty" example:"newpassword123"`
}

// @Summary		Create a new user
// @Description	Create a new user with name, email and password
// @Tags			users
// @Accept			json
// @Produce		json
// @Param			user	body		CreateUserRequest		true	"User creation data"
// @Success		201		{object}	db.SafeUser				"User created successfully"
// @Failure		400		{object}	respond.ErrorResponse	"Bad request - invalid input"
// @Failure		409		{object}	respond.ErrorResponse	"Conflict - email already exists"
// @Failure		500		{object}	respond.ErrorResponse	"Internal server error"
// @Router			/users [post]
// @Router			/auth/register [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if errs := validation.CreateUser(validation.CreateUserInput(req)); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	created, err := h.service.CreateUser(r.Context(), CreateUserParams(req))
	if err != nil {
		respond.ServiceError(w, h.logger, err, "")
		return
	}

	h.logger.InfoContext(r.Context(), "user created", "user_id", created.ID.String())
	respond.JSON(w, http.StatusCreated, created)
}

// @Summary		List users
// @Description	List all users, or the user matching the email query parameter
// @Tags			users
// @Produce		json
// @Param			email	query		string					false	"Filter by email"	example(joao@example.com)
// @Success		200		{array}		db.SafeUser				"Users"
// @Failure		500		{object}	respond.ErrorResponse	"Internal server error"
// @Router			/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		h.findByEmail(w, r, email)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond.ServiceError(w, h.logger, err, "")
		return
	}

	respond.JSON(w, http.StatusOK, users)
}

func (h *Handler) findByEmail(w http.ResponseWriter, r *http.Request, email string) {
	u, err := h.service.GetUserByEmail(r.Context(), email)
	if err != nil {
		if isNotFound(err) {
			respond.JSON(w, http.StatusOK, []db.SafeUser{})
			return
		}
		respond.ServiceError(w, h.logger, err, "")
		return
	}

	respond.JSON(w, http.StatusOK, []db.SafeUser{*u})
}

// @Summary		Get user by ID
// @Description	Retrieve a single user
// @Tags			users
// @Produce		json
// @Param			id	path		string					true	"User ID"	example(550e8400-e29b-41d4-a716-446655440000)
// @Success		200	{object}	db.SafeUser				"User found"
// @Failure		404	{object}	respond.ErrorResponse	"User not found"
// @Failure		500	{object}	respond.ErrorResponse	"Internal server error"
// @Router			/users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, h.logger, err, notFoundMessage(id.String()))
		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// @Summary		Update user
// @Description	Partially update a user; a new password is rehashed
// @Tags			users
// @Accept			json
// @Produce		json
// @Param			id		path		string					true	"User ID"
// @Param			user	body		UpdateUserRequest		true	"Fields to change"
// @Success		200		{object}	db.SafeUser				"Updated user"
// @Failure		400		{object}	respond.ErrorResponse	"Bad request - invalid input"
// @Failure		404		{object}	respond.ErrorResponse	"User not found"
// @Failure		409		{object}	respond.ErrorResponse	"Conflict - email already exists"
// @Failure		500		{object}	respond.ErrorResponse	"Internal server error"
// @Router			/users/{id} [patch]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if errs := validation.UpdateUser(validation.UpdateUserInput(req)); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	u, err := h.service.UpdateUser(r.Context(), id, UpdateUserParams(req))
	if err != nil {
		respond.ServiceError(w, h.logger, err, notFoundMessage(id.String()))
		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// @Summary		Delete user
// @Tags			users
// @Produce		json
// @Param			id	path		string					true	"User ID"
// @Success		200	{object}	respond.MessageResponse	"User deleted"
// @Failure		404	{object}	respond.ErrorResponse	"User not found"
// @Failure		500	{object}	respond.ErrorResponse	"Internal server error"
// @Router			/users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		respond.ServiceError(w, h.logger, err, notFoundMessage(id.String()))
		return
	}

	h.logger.InfoContext(r.Context(), "user deleted", "user_id", id.String())
	respond.JSON(w, http.StatusOK, respond.MessageResponse{Message: "User deleted successfully"})
}

// Helpers

// userID parses the {id} path parameter. A value that is not a UUID cannot
// name an existing user, so it is reported as not found.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "not found", notFoundMessage(raw))
		return uuid.Nil, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("User with ID %q not found", id)
}
