package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
)

// Version is reported by every health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /health.
func Health(service string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			OK:      true,
			Service: service,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		})
	}
}
