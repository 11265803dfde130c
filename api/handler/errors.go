package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/api/middleware"
	"github.com/DDDesignDev/homelab/models"
)

// respondError converts err to an APIError, maps it to an HTTP status and
// writes the structured JSON error response.
func respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	status := mapErrorToStatus(apiErr)

	attrs := []any{
		"code", apiErr.Code,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.RequestIDKey),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Warn("request rejected", attrs...)
	}

	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error:   apiErr.ToDetail(),
	})
}

// badRequest is respondError for request validation failures.
func badRequest(c *gin.Context, message string) {
	respondError(c, models.InvalidInput(message))
}

func toAPIError(err error) *models.APIError {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fetchErr *models.FetchError
	switch {
	case errors.As(err, &fetchErr):
		e := models.NewAPIError(models.ErrCodeFetchFailed, fetchErr.Error(), err)
		if fetchErr.StatusCode != 0 {
			e.WithDetail(map[string]any{"status": fetchErr.StatusCode})
		}
		if errors.Is(err, context.DeadlineExceeded) {
			e.Code = models.ErrCodeTimeout
		}
		return e
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAPIError(models.ErrCodeTimeout, "request timed out", err)
	default:
		return models.NewAPIError(models.ErrCodeInternal, err.Error(), err)
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.APIError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited, models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeFetchFailed, models.ErrCodeUpstream:
		return http.StatusBadGateway // 502
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}
