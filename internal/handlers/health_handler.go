package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/database"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/taxonomy"
)

type HealthHandler struct {
	registry *taxonomy.Registry
}

func NewHealthHandler(registry *taxonomy.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		DB:            dbStatus,
		CategoryCount: len(h.registry.All()),
	})
}
