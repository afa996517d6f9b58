package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hsm-gustavo/userauth-api/internal/api/respond"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Response struct {
	Status   string `json:"status" example:"online"`
	Message  string `json:"message" example:"API is working correctly"`
	Database string `json:"database,omitempty" example:"up"`
}

type Handler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHandler builds the health endpoint. A nil db skips the database check.
func NewHandler(db Pinger, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Health godoc
//
//	@Summary		Health check endpoint
//	@Description	Check if the API is running and its database is reachable
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	Response	"API is healthy"
//	@Failure		503	{object}	Response	"Database unreachable"
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.JSON(w, http.StatusOK, Response{Status: "online", Message: "API is working correctly"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "database ping failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, Response{
			Status:   "degraded",
			Message:  "Database is unreachable",
			Database: "down",
		})
		return
	}

	respond.JSON(w, http.StatusOK, Response{
		Status:   "online",
		Message:  "API is working correctly",
		Database: "up",
	})
}
