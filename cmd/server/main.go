// Package main is the entry point for the codechat server.
//
// main stays minimal: read configuration from the environment, build the
// logger and the optional sandbox executor, hand everything to
// internal/server, block until shutdown. All actual logic lives in the
// internal packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/codechat/internal/executor"
	"github.com/sakif/codechat/internal/executor/docker"
	"github.com/sakif/codechat/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/codechat.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The Docker executor is optional: without it the server still serves
	// the whole API, and snippet execution reports itself unavailable.
	//
	// exec is declared as the interface and only assigned on success — a
	// typed-nil *docker.Executor stored in the interface would NOT compare
	// equal to nil downstream.
	var exec executor.Executor
	dockerExec, err := docker.New(docker.DefaultConfig(), logger)
	if err != nil {
		logger.Warn("Docker executor unavailable — snippet execution is disabled",
			slog.String("error", err.Error()),
		)
	} else {
		exec = dockerExec
		defer dockerExec.Close()
	}

	// JWT_SECRET should be a long random string: JWT_SECRET=$(openssl rand -hex 32).
	// When unset the /auth routes are disabled; the server logs the fact.
	jwtSecret := os.Getenv("JWT_SECRET")

	googleCallback := os.Getenv("GOOGLE_CALLBACK_URL")
	if googleCallback == "" {
		googleCallback = fmt.Sprintf("http://localhost:%d/auth/google/callback", port)
	}
	facebookCallback := os.Getenv("FACEBOOK_CALLBACK_URL")
	if facebookCallback == "" {
		facebookCallback = fmt.Sprintf("http://localhost:%d/auth/facebook/callback", port)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,

		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:    googleCallback,
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		FacebookCallbackURL:  facebookCallback,
	}

	srv, err := server.New(cfg, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
