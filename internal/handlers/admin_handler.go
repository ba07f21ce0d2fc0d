package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/services"
)

type AdminHandler struct {
	adminService   *services.AdminService
	contactService *services.ContactService
}

func NewAdminHandler(adminService *services.AdminService, contactService *services.ContactService) *AdminHandler {
	return &AdminHandler{adminService: adminService, contactService: contactService}
}

func (h *AdminHandler) ListApps(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit > 100 {
		limit = 100
	}

	apps, total, err := h.adminService.ListApps(c.Context(), status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch apps",
		})
	}
	return c.JSON(fiber.Map{"apps": apps, "total": total, "limit": limit, "offset": offset})
}

func (h *AdminHandler) ApproveApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}
	if err := h.adminService.Approve(c.Context(), appID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "App approved"})
}

func (h *AdminHandler) RejectApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	var req dto.RejectAppRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.adminService.Reject(c.Context(), appID, req.Reason); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "App rejected"})
}

func (h *AdminHandler) HideApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}
	if err := h.adminService.Hide(c.Context(), appID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "App hidden"})
}

func (h *AdminHandler) ToggleFeatured(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}
	featured, err := h.adminService.ToggleFeatured(c.Context(), appID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"featured": featured})
}

func (h *AdminHandler) DeleteApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}
	if err := h.adminService.Delete(c.Context(), appID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "App deleted"})
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.adminService.ListReports(c.Context(), status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reports",
		})
	}
	return c.JSON(fiber.Map{"reports": reports, "total": total, "limit": limit, "offset": offset})
}

func (h *AdminHandler) ResolveReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.adminService.ResolveReport(c.Context(), reportID, req.Status); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report updated"})
}

func (h *AdminHandler) ListContactMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit > 100 {
		limit = 100
	}

	messages, total, err := h.contactService.ListMessages(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch messages",
		})
	}
	return c.JSON(fiber.Map{"messages": messages, "total": total, "limit": limit, "offset": offset})
}
