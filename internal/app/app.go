package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/config"
	"github.com/Brownie44l1/leaf-api/internal/flash"
	"github.com/Brownie44l1/leaf-api/internal/handlers"
	"github.com/Brownie44l1/leaf-api/internal/imageprocessor"
	"github.com/Brownie44l1/leaf-api/internal/knowledge"
	"github.com/Brownie44l1/leaf-api/internal/logger"
	"github.com/Brownie44l1/leaf-api/internal/middleware"
	"github.com/Brownie44l1/leaf-api/internal/model"
	"github.com/Brownie44l1/leaf-api/internal/storage"
	"github.com/Brownie44l1/leaf-api/web"
)

// SetupRouter builds every request-independent value once and wires the
// gin engine around classifier.
func SetupRouter(cfg *config.Config, classifier model.Classifier) (*gin.Engine, error) {
	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.With("type", cfg.Storage.Type).Info("Storage initialized")

	kb, err := knowledge.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	logger.Debug("Knowledge base loaded", "labels", model.NumClasses)

	handler := handlers.NewHandler(handlers.Deps{
		Predictor:         model.NewPredictor(classifier),
		Processor:         imageprocessor.NewProcessor(),
		Storage:           store,
		Knowledge:         kb,
		Flash:             flash.NewStore(cfg.Server.SecretKey),
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	})

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.BodyLimitMiddleware(cfg.Upload.MaxSize),
	)
	router.SetHTMLTemplate(tmpl)
	router.Static(cfg.Static.URLPrefix, cfg.Static.Dir)
	router.StaticFS("/assets", http.FS(web.Assets()))

	handler.RegisterRoutes(router)

	return router, nil
}
