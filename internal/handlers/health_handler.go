package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/models"
)

type HealthHandler struct {
	catalog *matching.Catalog
}

func NewHealthHandler(catalog *matching.Catalog) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
	}
}

// HandleHealth handles GET /health. It reads the current snapshot without
// triggering a reload.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	health := h.catalog.Health()

	lastLoaded := "never"
	if health.LastLoaded != nil {
		lastLoaded = health.LastLoaded.Format(time.RFC3339)
	}

	return c.JSON(models.HealthResponse{
		Status:     "healthy",
		Count:      health.Count,
		LastLoaded: lastLoaded,
	})
}
