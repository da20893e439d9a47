package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brownie44l1/leaf-api/internal/apperrors"
	"github.com/Brownie44l1/leaf-api/internal/imageprocessor"
	"github.com/Brownie44l1/leaf-api/internal/knowledge"
	"github.com/Brownie44l1/leaf-api/internal/logger"
	"github.com/Brownie44l1/leaf-api/internal/model"
	"github.com/Brownie44l1/leaf-api/internal/storage"
	"github.com/Brownie44l1/leaf-api/internal/validator"
)

type uploadForm struct {
	Filename string `form:"filename" validate:"required,image-ext"`
}

type classification struct {
	Filename string
	Result   *model.PredictionResult
	Details  []knowledge.Section
}

// saveUpload validates the multipart "file" field and stores it under its
// sanitized name. Input problems come back as 4xx AppErrors whose message
// is the text shown to the user.
func (h *Handler) saveUpload(c *gin.Context) (string, error) {
	name, err := h.storeUpload(c)
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < http.StatusInternalServerError {
		logger.CtxWarn(c.Request.Context(), "upload rejected", "code", appErr.Code, "status", appErr.HTTPCode)
	}
	return name, err
}

func (h *Handler) storeUpload(c *gin.Context) (string, error) {
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", apperrors.New(apperrors.CodeValidationFailed, "upload", "Uploaded file is too large", http.StatusRequestEntityTooLarge)
		}
		logger.CtxDebug(ctx, "no multipart form", "error", err)
		return "", apperrors.NewBadRequestError(apperrors.CodeFileMissing, MsgNoFilePart)
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		// an empty file input arrives as a plain value
		if _, ok := form.Value["file"]; ok {
			return "", apperrors.NewBadRequestError(apperrors.CodeFilenameEmpty, MsgNoFilename)
		}
		return "", apperrors.NewBadRequestError(apperrors.CodeFileMissing, MsgNoFilePart)
	}
	header := headers[0]

	if err := h.validator.Validate(&uploadForm{Filename: header.Filename}); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			if tag, _ := vErr.Failed("filename"); tag == "required" {
				return "", apperrors.NewBadRequestError(apperrors.CodeFilenameEmpty, MsgNoFilename)
			}
			return "", apperrors.NewBadRequestError(apperrors.CodeExtensionDenied, h.msgBadExtension).
				WithDetails(map[string]string{"filename": header.Filename})
		}
		return "", apperrors.InternalError(err)
	}

	name := storage.SecureFilename(header.Filename)
	if name == "" {
		return "", apperrors.NewBadRequestError(apperrors.CodeFilenameEmpty, MsgNoFilename)
	}

	src, err := header.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	if err := h.storage.Save(ctx, name, src, header.Header.Get("Content-Type")); err != nil {
		return "", apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "upload stored", "filename", name, "size", header.Size)
	return name, nil
}

// classify runs the stored file through preprocessing and the model and
// attaches the knowledge-base entry for the predicted label.
func (h *Handler) classify(ctx context.Context, name string) (*classification, error) {
	rc, err := h.storage.Open(ctx, name)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer rc.Close()

	batch, err := h.processor.Process(rc)
	if err != nil {
		if apperrors.Is(err, imageprocessor.ErrUndecodable) {
			return nil, apperrors.NewUndecodableImageError(err).WithDetails(map[string]string{"filename": name})
		}
		return nil, apperrors.InternalError(err)
	}

	result, err := h.predictor.Predict(batch)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "prediction", "filename", name, "label", result.Label, "confidence", result.Confidence)

	return &classification{
		Filename: name,
		Result:   result,
		Details:  h.knowledge.Lookup(result.Label),
	}, nil
}
