package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/middleware"
	"github.com/yigit/notehub/internal/pkg/apperrors"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk
const multipartMemory = 8 << 20

// parseMultipart caps the request body at maxBytes and parses a multipart
// form. Non-multipart requests are left for regular binding. On failure a
// response is written and false is returned.
func parseMultipart(ctx *gin.Context, maxBytes int64) bool {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return true
	}

	err := ctx.Request.ParseMultipartForm(multipartMemory)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(
			fmt.Sprintf("upload exceeds the limit of %d MB", maxBytes>>20)))
		return false
	}
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid multipart form").WithDetails(err.Error())))
	return false
}

// formFile returns the named file part, or nil when the request has none
func formFile(ctx *gin.Context, name string) (multipart.File, *multipart.FileHeader, error) {
	header, err := ctx.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, apperrors.NewFieldValidationError(name, "invalid file upload")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to read upload", err)
	}
	return file, header, nil
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}
