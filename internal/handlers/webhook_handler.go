package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/payments"
	"github.com/voicenative/backend/internal/services"
)

const checkoutCompletedEvent = "checkout.session.completed"

// WebhookHandler receives payment-provider callbacks. It sits outside the JWT
// middleware; authenticity comes from the signature header alone.
type WebhookHandler struct {
	unlockService *services.UnlockService
	cfg           *config.Config
	now           func() time.Time
}

func NewWebhookHandler(unlockService *services.UnlockService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{unlockService: unlockService, cfg: cfg, now: time.Now}
}

func (h *WebhookHandler) HandleCheckout(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Payment-Signature")

	err := payments.VerifySignature(body, signature, h.cfg.PaymentWebhookSecret, payments.DefaultTolerance, h.now())
	if err != nil {
		slog.Warn("webhook signature rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signature",
		})
	}

	var event dto.CheckoutEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return badRequest(c, "Invalid event payload")
	}

	// Unhandled event types are acknowledged so the provider stops retrying.
	if event.Type != checkoutCompletedEvent {
		return c.JSON(fiber.Map{"received": true})
	}

	// The fasthttp request context is canceled as soon as the provider hangs
	// up; the unlock write must survive an early disconnect.
	duplicate, err := h.unlockService.HandleCheckoutCompleted(c.UserContext(), &event.Data.Object)
	if err != nil {
		if errors.Is(err, services.ErrMissingMetadata) {
			return badRequest(c, err.Error())
		}
		slog.Error("failed to process checkout event", "event_id", event.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process event",
		})
	}
	if duplicate {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}
	return c.JSON(fiber.Map{"received": true})
}
