package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
)

// Bridge is the light control surface; *hue.Client implements it.
type Bridge interface {
	Lights(ctx context.Context) ([]models.Light, error)
	SetState(ctx context.Context, id string, s models.LightState) (json.RawMessage, error)
	SetAll(ctx context.Context, on bool) (int, error)
}

// ListLights returns a handler for GET /api/lights.
func ListLights(b Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		lights, err := b.Lights(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lights)
	}
}

// SetLightState returns a handler for PUT /api/lights/:id/state. The
// bridge's answer is passed through unchanged.
func SetLightState(b Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LightState
		if !bindJSON(c, &req) {
			return
		}
		resp, err := b.SetState(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", resp)
	}
}

// SetAllLights returns a handler for PUT /api/all.
func SetAllLights(b Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AllState
		if !bindJSON(c, &req) {
			return
		}
		n, err := b.SetAll(c.Request.Context(), *req.On)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OKResponse{OK: true, Count: &n})
	}
}
