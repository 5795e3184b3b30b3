package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"tasktrack/db"
	"tasktrack/internal/auth"
	"tasktrack/internal/config"
	"tasktrack/internal/task"
	"tasktrack/internal/user"
	"tasktrack/internal/web"
	"tasktrack/middleware"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer sqliteDB.Close()

	if err := db.InitializeSchema(sqliteDB); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Create repositories
	repoFactory := db.NewRepositoryFactory(sqliteDB)
	userRepo := repoFactory.NewUserRepository()
	taskRepo := repoFactory.NewTaskRepository()

	// Initialize services
	tokenService := auth.NewTokenService(cfg.JwtKey, cfg.AccessTokenTTL)
	userService := user.NewUserService(userRepo, tokenService)
	taskService := task.NewTaskService(taskRepo)

	// Initialize handlers and middleware
	userHandlers := user.NewUserHandlers(userService)
	taskHandlers := task.NewTaskHandlers(taskService)
	mw := middleware.NewMiddleware(tokenService, userRepo)

	router := web.NewHandler(userHandlers, taskHandlers, mw, cfg).SetupRoutes()
	handler := middleware.LoggingMiddleware(middleware.SetupCORS()(router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Infof("%s listening on port %s", cfg.AppName, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server ListenAndServe error: %v", err)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sig := <-stop
	log.Infof("Received shutdown signal: %v", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	log.Info("Shutting down the server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server Shutdown error: %v", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
