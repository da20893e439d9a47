package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/apperrors"
	"github.com/Brownie44l1/leaf-api/internal/logger"
)

const pageTemplate = "index.html"

func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, gin.H{
		"Flashes": h.flash.Pop(c),
	})
}

// Upload handles the form post. Input errors flash a message and redirect
// back to the form; anything else renders the form with the error and its
// status.
func (h *Handler) Upload(c *gin.Context) {
	name, err := h.saveUpload(c)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode == http.StatusBadRequest {
			h.flash.Add(c, appErr.Message)
			c.Redirect(http.StatusFound, c.Request.URL.RequestURI())
			return
		}
		h.renderError(c, err)
		return
	}

	res, err := h.classify(c.Request.Context(), name)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.flash.Add(c, MsgUploadSuccess)
	c.HTML(http.StatusOK, pageTemplate, gin.H{
		"Flashes":    h.flash.Pop(c),
		"Filename":   res.Filename,
		"ImageURL":   "/display/" + url.PathEscape(res.Filename),
		"Label":      res.Result.Label,
		"Confidence": formatConfidence(res.Result.Confidence),
		"Details":    res.Details,
	})
}

// Display permanently redirects to wherever storage serves the file from.
func (h *Handler) Display(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, h.storage.URL(c.Param("filename")))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxWithError(c.Request.Context(), "server error", err, "path", c.Request.URL.Path)
	}

	c.HTML(appErr.HTTPCode, pageTemplate, gin.H{
		"Error":     appErr.Message,
		"ErrorCode": appErr.Code,
	})
}

// formatConfidence prints the shortest decimal that round-trips and keeps
// one fractional digit for whole numbers: 92.13, 90.0.
func formatConfidence(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
