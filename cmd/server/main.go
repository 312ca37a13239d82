package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airwavectf/internal/api"
	"airwavectf/internal/app/service"
	"airwavectf/internal/common/security"
	"airwavectf/internal/domain/repository"
	"airwavectf/internal/platform/cache"
	"airwavectf/internal/platform/config"
	"airwavectf/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.Migrate(context.Background(), database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	fmt.Println("Database connected and migrated.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	teamRepo := repository.NewPgTeamRepository(database.DB)
	solveRepo := repository.NewPgSolveRepository(database.DB)

	// 6. Initialize Services
	leaderboardCache := cache.NewRedisLeaderboardCache(cache.RDB,
		time.Duration(config.AppConfig.LeaderboardCacheTTLSeconds)*time.Second)

	authService := service.NewAuthService(userRepo)
	challengeService := service.NewChallengeService(challengeRepo, solveRepo)
	submissionService := service.NewSubmissionService(solveRepo, challengeRepo, leaderboardCache)
	scoreboardService := service.NewScoreboardService(solveRepo, challengeRepo, userRepo, leaderboardCache)
	teamService := service.NewTeamService(teamRepo, userRepo, scoreboardService)
	adminService := service.NewAdminService(userRepo, challengeRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, challengeService, submissionService, scoreboardService, teamService, adminService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
