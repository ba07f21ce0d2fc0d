package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/services"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.contactService.Submit(c.Context(), userID, middleware.GetEmail(c), &req); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Message received"})
}
