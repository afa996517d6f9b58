package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/hsm-gustavo/userauth-api/docs"
	"github.com/hsm-gustavo/userauth-api/internal/api/auth"
	"github.com/hsm-gustavo/userauth-api/internal/api/health"
	"github.com/hsm-gustavo/userauth-api/internal/api/user"
	"github.com/hsm-gustavo/userauth-api/internal/logging"
)

// Deps holds the components the router serves. They are built once in main.
type Deps struct {
	Users  *user.UserService
	Auth   *auth.AuthService
	DB     health.Pinger
	Logger *slog.Logger
}

func SetupRoutes(deps Deps) http.Handler {
	r := chi.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // max time in seconds for OPTIONS preflight response cache
	})

	r.Use(corsMiddleware.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(2 * time.Minute))

	userHandler := user.NewHandler(deps.Users, deps.Logger)
	authHandler := auth.NewAuthHandler(deps.Auth, deps.Logger)
	healthHandler := health.NewHandler(deps.DB, deps.Logger)

	r.Get("/health", healthHandler.Health)

	// public auth routes
	r.Post("/auth/register", userHandler.CreateUser)
	r.Post("/auth/login", authHandler.Login)

	// protected auth routes
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)
		r.Get("/auth/profile", authHandler.Profile)
		r.Get("/auth/me", authHandler.Profile)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)
		r.Patch("/{id}", userHandler.UpdateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})

	// init swagger
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
