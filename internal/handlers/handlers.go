package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/flash"
	"github.com/Brownie44l1/leaf-api/internal/imageprocessor"
	"github.com/Brownie44l1/leaf-api/internal/knowledge"
	"github.com/Brownie44l1/leaf-api/internal/model"
	"github.com/Brownie44l1/leaf-api/internal/storage"
	"github.com/Brownie44l1/leaf-api/internal/validator"
)

const (
	MsgNoFilePart    = "No file part"
	MsgNoFilename    = "No image selected for uploading"
	MsgUploadSuccess = "Image successfully uploaded and displayed below"
)

// Deps are the process-wide values the handlers read. None of them are
// mutated per request.
type Deps struct {
	Predictor         *model.Predictor
	Processor         *imageprocessor.Processor
	Storage           storage.Storage
	Knowledge         *knowledge.Base
	Flash             *flash.Store
	AllowedExtensions []string
}

type Handler struct {
	predictor       *model.Predictor
	processor       *imageprocessor.Processor
	storage         storage.Storage
	knowledge       *knowledge.Base
	flash           *flash.Store
	validator       *validator.Validator
	msgBadExtension string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		predictor:       d.Predictor,
		processor:       d.Processor,
		storage:         d.Storage,
		knowledge:       d.Knowledge,
		flash:           d.Flash,
		validator:       validator.New(d.AllowedExtensions),
		msgBadExtension: "Allowed image types are - " + strings.Join(d.AllowedExtensions, ", "),
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.POST("/", h.Upload)
	r.GET("/display/:filename", h.Display)

	r.GET("/health", h.Health)
	r.POST("/api/predict", h.Predict)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
