package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/dto"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// respondError maps sentinel errors to HTTP statuses with a client-safe
// message. Internal detail stays in the logs.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, apperrors.ErrOTPInvalid):
		status = http.StatusBadRequest
		msg = "Invalid OTP"
	case errors.Is(err, apperrors.ErrOTPExpired):
		status = http.StatusBadRequest
		msg = "OTP has expired. Please request a new one."
	case errors.Is(err, apperrors.ErrOTPNotFound):
		status = http.StatusBadRequest
		msg = "No OTP found for this email. Please request a new one."
	case errors.Is(err, apperrors.ErrSessionExpired):
		status = http.StatusUnauthorized
		msg = "Session has expired"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		msg = "Unauthorized"
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
		msg = "Resource already exists"
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		msg = "Resource not found"
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
		msg = "Upstream service unavailable. Please try again."
	case errors.Is(err, apperrors.ErrEmailDispatch):
		status = http.StatusBadGateway
		msg = "Could not send email. Please try again."
	}

	c.JSON(status, dto.ErrorResponse{Success: false, Error: msg})
}
