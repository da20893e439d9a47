package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/apperrors"
	"github.com/Brownie44l1/leaf-api/internal/knowledge"
	"github.com/Brownie44l1/leaf-api/internal/model"
)

type PredictionResponse struct {
	Filename   string              `json:"filename"`
	URL        string              `json:"url"`
	Label      model.Label         `json:"label"`
	Confidence float64             `json:"confidence"`
	Details    []knowledge.Section `json:"details"`
}

// Predict is the JSON form of Upload.
func (h *Handler) Predict(c *gin.Context) {
	name, err := h.saveUpload(c)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	res, err := h.classify(c.Request.Context(), name)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictionResponse{
		Filename:   res.Filename,
		URL:        h.storage.URL(res.Filename),
		Label:      res.Result.Label,
		Confidence: res.Result.Confidence,
		Details:    res.Details,
	})
}
