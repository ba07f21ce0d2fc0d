package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.reportService.SubmitReport(c.Context(), userID, &req); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report submitted"})
}
