package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeFileMissing      ErrorCode = "FILE_MISSING"
	CodeFilenameEmpty    ErrorCode = "FILENAME_EMPTY"
	CodeExtensionDenied  ErrorCode = "EXTENSION_NOT_ALLOWED"
	CodeImageUndecodable ErrorCode = "IMAGE_UNDECODABLE"
)

// AppError is the error type handlers render to clients.
type AppError struct {
	Code     ErrorCode `json:"code"`
	Domain   string    `json:"domain"`
	Message  string    `json:"message"`
	Details  any       `json:"details,omitempty"`
	Err      error     `json:"-"`
	HTTPCode int       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s (%v)", e.Domain, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Domain, e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Domain:   domain,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Domain:   domain,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode `json:"code"`
		Domain  string    `json:"domain"`
		Message string    `json:"message"`
		Details any       `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Domain:  e.Domain,
		Message: e.Message,
		Details: e.Details,
	})
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsAppError unwraps err to an *AppError if there is one in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

func NewBadRequestError(code ErrorCode, message string) *AppError {
	return New(code, "upload", message, http.StatusBadRequest)
}

func NewUndecodableImageError(err error) *AppError {
	return Wrap(err, CodeImageUndecodable, "image", "Uploaded file is not a decodable image", http.StatusUnprocessableEntity)
}
