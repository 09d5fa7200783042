// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This package is the composition root: the one place where the whole
// dependency chain is assembled —
//
//	sqlite.DB → per-entity repositories → services → handlers → routes
//
// Each layer only receives what it needs. Services get repository
// interfaces, never the concrete sqlite types; handlers get services,
// never repositories. Keeping the wiring out of main.go means a test can
// build the same server without running the binary.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/codechat/internal/auth"
	"github.com/sakif/codechat/internal/executor"
	"github.com/sakif/codechat/internal/handler"
	"github.com/sakif/codechat/internal/middleware"
	sqliteRepo "github.com/sakif/codechat/internal/repository/sqlite"
	"github.com/sakif/codechat/internal/service"
)

// Config holds server configuration. One struct instead of a parameter
// list, so adding an option never changes a signature.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret enables session auth. When empty, the /auth routes are not
	// registered and the API runs open (useful for local development).
	JWTSecret string

	GoogleClientID       string
	GoogleClientSecret   string
	GoogleCallbackURL    string
	FacebookClientID     string
	FacebookClientSecret string
	FacebookCallbackURL  string
}

// Server owns the router, the database connection, and the optional
// sandbox executor. Both resources are released during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	exec   executor.Executor
}

// New creates a Server, opens the database, and wires every route.
//
// exec may be nil — snippet execution then reports itself unavailable, but
// every other endpoint works. A chat backend shouldn't refuse to start
// because the Docker socket is missing.
func New(cfg Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		exec:   exec,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes assembles the dependency chain and mounts every route.
//
// Middleware order matters — it executes in registration order:
//  1. RequestID assigns each request an id for log correlation
//  2. RealIP extracts the client IP from proxy headers
//  3. Recoverer turns panics into 500s instead of crashing the process
//  4. our slog request logger
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	userRepo := sqliteRepo.NewUserRepo(s.db)
	projectRepo := sqliteRepo.NewProjectRepo(s.db)
	conversationRepo := sqliteRepo.NewConversationRepo(s.db)
	messageRepo := sqliteRepo.NewMessageRepo(s.db)
	snippetRepo := sqliteRepo.NewSnippetRepo(s.db)

	passwords := auth.NewPasswordService()

	userService := service.NewUserService(userRepo, passwords, s.logger)
	projectService := service.NewProjectService(projectRepo, userRepo, s.logger)
	conversationService := service.NewConversationService(conversationRepo, projectRepo, userRepo, s.logger)
	messageService := service.NewMessageService(messageRepo, conversationRepo, s.logger)
	snippetService := service.NewSnippetService(snippetRepo, conversationRepo, messageRepo, s.exec, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	conversationHandler := handler.NewConversationHandler(conversationService, s.logger)
	messageHandler := handler.NewMessageHandler(messageService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users/{id}", userHandler.HandleGet)
		r.Patch("/users/{id}", userHandler.HandleUpdate)
		r.Post("/users/lookup", userHandler.HandleLookup)
		r.Get("/users/{id}/projects", projectHandler.HandleListForUser)

		r.Post("/projects", projectHandler.HandleCreate)
		r.Patch("/projects/{id}", projectHandler.HandleUpdate)
		r.Delete("/projects/{id}", projectHandler.HandleDelete)
		r.Get("/projects/{id}/conversations", conversationHandler.HandleListForProject)

		r.Post("/conversations", conversationHandler.HandleCreate)
		r.Patch("/conversations/{id}", conversationHandler.HandleUpdate)
		r.Get("/conversations/{id}/messages", messageHandler.HandleListForConversation)
		r.Get("/conversations/{id}/snippets", snippetHandler.HandleListForConversation)

		r.Post("/messages", messageHandler.HandleCreate)

		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Patch("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
		r.Post("/snippets/{id}/execute", snippetHandler.HandleExecute)
	})

	// Auth routes exist only when a JWT secret is configured.
	if s.config.JWTSecret == "" {
		s.logger.Warn("JWT_SECRET not set — /auth routes are disabled")
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var providers []*auth.Provider
	if s.config.GoogleClientID != "" {
		providers = append(providers, auth.NewGoogleProvider(
			s.config.GoogleClientID, s.config.GoogleClientSecret, s.config.GoogleCallbackURL))
	}
	if s.config.FacebookClientID != "" {
		providers = append(providers, auth.NewFacebookProvider(
			s.config.FacebookClientID, s.config.FacebookClientSecret, s.config.FacebookCallbackURL))
	}

	authHandler := handler.NewAuthHandler(providers, tokens, userService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/{provider}/login", authHandler.HandleLogin)
		r.Get("/{provider}/callback", authHandler.HandleCallback)
		r.Post("/login", authHandler.HandleEmailLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database (flushes the WAL and releases the file
// lock). The executor is owned by main, which created it.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the mux for tests that drive the server with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}
