package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hsm-gustavo/userauth-api/internal/api/respond"
	"github.com/hsm-gustavo/userauth-api/internal/api/validation"
	"github.com/hsm-gustavo/userauth-api/internal/common"
)

// Request/Response structures

type LoginRequest struct {
	Email    string `json:"email" example:"joao@example.com"`
	Password string `json:"password" example:"password123"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}

type ProfileResponse struct {
	UserID string `json:"userId" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email  string `json:"email" example:"joao@example.com"`
	Name   string `json:"name" example:"João Silva"`
}

type AuthHandler struct {
	service *AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service *AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login godoc
// @Summary		User login
// @Description	Authenticate with email and password and receive an access token
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			credentials	body		LoginRequest			true	"User login credentials"
// @Success		200			{object}	AuthResponse			"Login successful"
// @Failure		400			{object}	respond.ErrorResponse	"Bad request - invalid input"
// @Failure		401			{object}	respond.ErrorResponse	"Unauthorized - invalid credentials"
// @Failure		500			{object}	respond.ErrorResponse	"Internal server error"
// @Router			/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if errs := validation.Login(validation.LoginInput(req)); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			h.logger.InfoContext(r.Context(), "login rejected")
		}
		respond.ServiceError(w, h.logger, err, "")
		return
	}

	respond.JSON(w, http.StatusOK, AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
	})
}

// Profile godoc
// @Summary		Get current user
// @Description	Returns the identity carried by the bearer token
// @Tags			auth
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ProfileResponse			"Authenticated identity"
// @Failure		401	{object}	respond.ErrorResponse	"Unauthorized - invalid or missing token"
// @Router			/auth/profile [get]
// @Router			/auth/me [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respond.Unauthorized(w)
		return
	}

	respond.JSON(w, http.StatusOK, ProfileResponse{
		UserID: principal.UserID.String(),
		Email:  principal.Email,
		Name:   principal.Name,
	})
}
