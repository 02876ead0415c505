package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/logger"
)

// HandleAPIError maps a service error onto its HTTP status and error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, errorDetail := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	_ = c.Error(err)
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	message := ""
	field := ""
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		message = customErr.Message
		field = customErr.Field
	}
	withDefault := func(def string) string {
		if message == "" {
			return def
		}
		return message
	}

	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, withDefault("Validation failed")).WithField(field)
	case apperrors.ErrUnauthenticated:
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case apperrors.ErrAuthorization:
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, withDefault("Permission denied"))
	case apperrors.ErrNotFound:
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, withDefault("Resource not found"))
	case apperrors.ErrStorage:
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeStorageError, withDefault("Storage backend failure"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
