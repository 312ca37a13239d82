package api

import (
	"net/http"
	"time"

	"airwavectf/internal/api/handler"
	"airwavectf/internal/app/service"
	"airwavectf/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	challengeService *service.ChallengeService,
	submissionService *service.SubmissionService,
	scoreboardService *service.ScoreboardService,
	teamService *service.TeamService,
	adminService *service.AdminService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a token if present and puts its claims in the context;
	// enforcement happens in middleware.Authenticator on protected groups.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Challenge routes, including flag submission (authenticated)
		challengeHandler := handler.NewChallengeHandler(challengeService, submissionService)
		v1.Route("/challenges", challengeHandler.RegisterRoutes)

		// Profile, stats and leaderboard (authenticated)
		userHandler := handler.NewUserHandler(authService, scoreboardService)
		v1.Route("/users", userHandler.RegisterRoutes)

		// Team routes (authenticated)
		teamHandler := handler.NewTeamHandler(teamService)
		v1.Route("/teams", teamHandler.RegisterRoutes)

		// Admin routes (authenticated + admin role)
		adminHandler := handler.NewAdminHandler(adminService, challengeService)
		v1.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}
