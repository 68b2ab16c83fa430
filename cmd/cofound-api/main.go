package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/mvasic/cofound-api/internal/config"
	"github.com/mvasic/cofound-api/internal/database"
	"github.com/mvasic/cofound-api/internal/handlers"
	authmw "github.com/mvasic/cofound-api/internal/middleware"
	"github.com/mvasic/cofound-api/internal/services"
	"github.com/mvasic/cofound-api/internal/sse"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	ventureService := services.NewVentureService(db)
	offerService := services.NewOfferService(db)
	rosterService := services.NewRosterService(offerService, cfg.EquityCeilingPercent)
	emailService := services.NewEmailService(cfg.SMTP)

	hub := sse.NewHub()
	go hub.Run()

	notificationService := services.NewNotificationService(db, hub, emailService, userService, cfg.BaseURL, logger)
	negotiationService := services.NewNegotiationService(offerService, ventureService, rosterService, notificationService, logger, cfg.EquityCeilingEnforced)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	ventureHandler := handlers.NewVentureHandler(ventureService, userService, offerService, rosterService)
	offerHandler := handlers.NewOfferHandler(negotiationService, offerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	sseHandler := handlers.NewSSEHandler(hub)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/ventures", ventureHandler.List)
	protected.Post("/ventures", ventureHandler.Create)
	protected.Get("/ventures/:id", ventureHandler.Get)
	protected.Patch("/ventures/:id", ventureHandler.Update)
	protected.Delete("/ventures/:id", ventureHandler.Delete)
	protected.Get("/ventures/:id/roster", ventureHandler.GetRoster)
	protected.Post("/ventures/:id/members", ventureHandler.AddMember)
	protected.Delete("/ventures/:id/members/:memberId", ventureHandler.RemoveMember)

	protected.Get("/team-members/:memberId/offer", offerHandler.Get)
	protected.Post("/team-members/:memberId/offers", offerHandler.SubmitProposal)
	protected.Get("/team-members/:memberId/can-act", offerHandler.CanAct)
	protected.Post("/offers/:offerId/accept", offerHandler.Accept)
	protected.Get("/offers/:offerId/history", offerHandler.History)

	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)

	protected.Get("/events", sseHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	hub.Stop()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
