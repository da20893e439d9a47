package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/app"
	"github.com/Brownie44l1/leaf-api/internal/config"
	"github.com/Brownie44l1/leaf-api/internal/logger"
	"github.com/Brownie44l1/leaf-api/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		if cfg.Server.SecretKey == config.Default().Server.SecretKey {
			logger.Warn("SECRET_KEY is the built-in default, flash cookies can be forged")
		}
	}

	logger.Info("Loading model", "path", cfg.Model.Path)

	modelServer, err := model.NewServer(model.ServerConfig{
		ModelPath:      cfg.Model.Path,
		RuntimeLibrary: cfg.Model.RuntimeLibrary,
		InputName:      cfg.Model.InputName,
		OutputName:     cfg.Model.OutputName,
	})
	if err != nil {
		if errors.Is(err, model.ErrModelNotFound) {
			logger.Fatal("Model not found, refusing to start", "path", cfg.Model.Path)
		}
		logger.Fatal("Failed to initialize model server", "error", err)
	}
	defer modelServer.Close()

	router, err := app.SetupRouter(cfg, modelServer)
	if err != nil {
		modelServer.Close()
		logger.Fatal("Failed to set up router", "error", err)
	}

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "addr", srv.Addr, "classes", model.NumClasses)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
	logger.Info("Server stopped")
}
