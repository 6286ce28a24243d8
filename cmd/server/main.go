package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"

	"travelshare/docs" // swagger docs
	"travelshare/internal/auth"
	"travelshare/internal/cache"
	"travelshare/internal/config"
	"travelshare/internal/db"
	"travelshare/internal/handler"
	"travelshare/internal/model"
	"travelshare/internal/repository"
	"travelshare/internal/router"
	"travelshare/internal/service"
)

// @title Travelshare API
// @version 1.0
// @description Register travellers, collect catalog trips and share them with other users.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token. In session mode the session cookie is accepted instead.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB is set
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.Trip{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Trip{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			// Proof checks need redis in both modes; keep serving public routes until it is back.
			log.Printf("Warning: redis unavailable at startup: %v", err)
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(gormDB)

	sessionStore := auth.NewSessionStore(cacheClient)
	prover, err := auth.NewProver(cfg, sessionStore)
	if err != nil {
		log.Fatalf("auth init: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, prover)
	userService := service.NewUserService(userRepo, cacheClient)
	tripService := service.NewTripService(userRepo, cacheClient)
	shareService := service.NewShareService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
	})
	userHandler := handler.NewUserHandler(userService)
	tripHandler := handler.NewTripHandler(tripService, shareService)

	e := echo.New()
	router.Register(e, cfg, authService, authHandler, userHandler, tripHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", echo.HeaderXRequestID},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s (auth mode %s)", cfg.ServerPort, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
