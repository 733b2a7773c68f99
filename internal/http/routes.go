package http

import (
	"time"

	"rps_arena/internal/config"
	"rps_arena/internal/http/handlers"
	"rps_arena/internal/http/middleware"
	"rps_arena/internal/repository"
	"rps_arena/internal/session"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the realtime core and the thin API layer into the gin
// engine.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config) {
	directory := session.NewDirectory(cfg.TurnTimeout)
	directory.StartCleanup(10*time.Minute, time.Hour)

	accountRepo := repository.NewAccountRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	presence := ws.NewRegistry()
	hub := ws.NewHub(directory, presence, matchRepo, accountRepo)

	h := handlers.NewHandler(db, directory)
	healthHandler := handlers.NewHealthHandler(db)

	// Health checks, no rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	{
		v1.POST("/auth", h.Auth)
		v1.GET("/me", middleware.JWT(), h.Me)
		v1.GET("/me/matches", middleware.JWT(), h.MyMatches)
		v1.GET("/leaderboard", h.Leaderboard)

		v1.POST("/match/quick", middleware.JWT(), h.QuickMatch)
		v1.GET("/match/:id", middleware.JWT(), h.Match)
	}

	// Realtime gateway
	r.GET("/ws", ws.Handle(hub, cfg.AllowedOrigin))
}
