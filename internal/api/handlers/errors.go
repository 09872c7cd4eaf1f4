package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/marketdata"
	"tga-liquidity/internal/model"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondError maps pipeline errors onto the error envelope.
func respondError(c *gin.Context, err error) {
	var mce *model.MissingColumnError
	var rowErr *model.RowError
	var srcErr *marketdata.SourceError

	switch {
	case errors.As(err, &srcErr):
		status := http.StatusBadGateway
		switch srcErr.StatusCode {
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		case http.StatusNotFound:
			status = http.StatusNotFound
		}
		writeError(c, status, srcErr.Code, srcErr.Message, map[string]interface{}{
			"status_code": srcErr.StatusCode,
			"retry_after": srcErr.RetryAfter,
		})
	case errors.Is(err, model.ErrDataSourceUnavailable):
		writeError(c, http.StatusBadGateway, "DATA_SOURCE_UNAVAILABLE", err.Error(), nil)
	case errors.As(err, &mce):
		writeError(c, http.StatusBadRequest, "MISSING_REQUIRED_COLUMN", err.Error(), map[string]interface{}{
			"table":  mce.Table,
			"column": mce.Column,
		})
	case errors.As(err, &rowErr):
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error(), map[string]interface{}{
			"table":  rowErr.Table,
			"line":   rowErr.Line,
			"column": rowErr.Column,
		})
	case errors.Is(err, model.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

// openUpload returns the multipart "file" part or writes a 400.
func openUpload(c *gin.Context) (multipart.File, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required", nil)
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
		return nil, false
	}
	return f, true
}
