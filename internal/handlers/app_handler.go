package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/services"
	"github.com/voicenative/backend/internal/validation"
)

type AppHandler struct {
	appService *services.AppService
	cfg        *config.Config
}

func NewAppHandler(appService *services.AppService, cfg *config.Config) *AppHandler {
	return &AppHandler{appService: appService, cfg: cfg}
}

func (h *AppHandler) SubmitApp(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubmitAppRequest
	if err := validation.DecodeStrict(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.appService.SubmitApp(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AppHandler) UpdateApp(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	var req dto.SubmitAppRequest
	if err := validation.DecodeStrict(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.appService.UpdateApp(c.Context(), userID, appID, &req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "App updated and resubmitted for review"})
}

func (h *AppHandler) ListApps(c *fiber.Ctx) error {
	query := &dto.ListAppsQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Platform: c.Query("platform"),
		Pricing:  c.Query("pricing"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 0),
	}

	userID := middleware.OptionalUserID(c, h.cfg.JWTSecret)
	apps, pagination, err := h.appService.ListApps(c.Context(), query, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch apps",
		})
	}
	return c.JSON(fiber.Map{"apps": apps, "pagination": pagination})
}

func (h *AppHandler) GetApp(c *fiber.Ctx) error {
	userID := middleware.OptionalUserID(c, h.cfg.JWTSecret)
	app, err := h.appService.GetBySlug(c.Context(), c.Params("slug"), userID)
	if err != nil {
		return serviceError(c, err)
	}

	tags, err := h.appService.AppTags(c.Context(), app.ID)
	if err != nil {
		tags = nil
	}
	return c.JSON(fiber.Map{"app": app, "tags": tags})
}

func (h *AppHandler) FeaturedApps(c *fiber.Ctx) error {
	apps, err := h.appService.FeaturedApps(c.Context(), c.QueryInt("limit", 6))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch featured apps",
		})
	}
	return c.JSON(fiber.Map{"apps": apps})
}

func (h *AppHandler) MyApps(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	apps, err := h.appService.OwnApps(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch your apps",
		})
	}
	return c.JSON(fiber.Map{"apps": apps})
}

func (h *AppHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.appService.Categories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch categories",
		})
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *AppHandler) ToggleUpvote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	upvoted, err := h.appService.ToggleUpvote(c.Context(), userID, appID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"upvoted": upvoted})
}

func (h *AppHandler) ToggleInterest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid app ID")
	}

	// Edge geo header; absent or malformed values are stored as unknown.
	country := c.Get("X-Country")
	interested, err := h.appService.ToggleInterest(c.Context(), userID, appID, country)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"interested": interested})
}
