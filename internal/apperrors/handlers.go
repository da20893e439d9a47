package apperrors

import (
	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/logger"
)

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler renders errors as JSON. Non-AppErrors become 500s with
// their detail hidden unless Debug is set.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if h.Debug {
			appErr.Details = err.Error()
		}
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "server error", err, "path", c.Request.URL.Path)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() == gin.DebugMode}
	handler.HandleGinError(c, err)
}
