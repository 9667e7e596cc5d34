package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"family_album/internal/apperr"
)

// ApiResponse is the envelope every endpoint returns.
type ApiResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, ApiResponse{Success: true, Data: data})
}

// fail maps a domain error code onto its transport status. Non-domain
// errors surface as 500 without leaking internals.
func fail(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.JSON(statusOf(ae.Code), ApiResponse{
			Success: false,
			Error:   &ErrorInfo{Code: ae.Code, Message: ae.Message},
		})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, ApiResponse{
		Success: false,
		Error:   &ErrorInfo{Code: "INTERNAL_ERROR", Message: "internal server error"},
	})
}

func statusOf(code string) int {
	switch code {
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeDuplicate:
		return http.StatusConflict
	case apperr.CodeInvalidRequest, apperr.CodeFileUpload:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
