package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/services"
)

// AnalyticsHandler serves the owner dashboard: interest aggregates, the paid
// audience list, and the checkout entry point that unlocks it.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	unlockService    *services.UnlockService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, unlockService *services.UnlockService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, unlockService: unlockService}
}

func (h *AnalyticsHandler) GetInterestAnalytics(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	resp, err := h.analyticsService.GetInterestAnalytics(c.Context(), userID, appID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AnalyticsHandler) GetInterestedUsers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	users, err := h.analyticsService.GetInterestedUsers(c.Context(), userID, appID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "total": len(users)})
}

func (h *AnalyticsHandler) ExportInterestedUsers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	data, err := h.analyticsService.ExportInterestedUsersCSV(c.Context(), userID, appID)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="interested-users.csv"`)
	return c.Send(data)
}

func (h *AnalyticsHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	resp, err := h.unlockService.CreateCheckoutSession(c.Context(), userID, appID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
