package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/middleware"
	"github.com/voicenative/backend/internal/storage"
)

const (
	maxLogoBytes       = 2 * 1024 * 1024
	maxScreenshotBytes = 5 * 1024 * 1024
)

// UploadHandler accepts listing media and returns the public URL the
// submission form references.
type UploadHandler struct {
	uploader storage.Uploader
}

func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	kind := c.Query("kind", "screenshot")
	if kind != "logo" && kind != "screenshot" {
		return badRequest(c, "kind must be logo or screenshot")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Missing file")
	}

	maxBytes := int64(maxScreenshotBytes)
	if kind == "logo" {
		maxBytes = maxLogoBytes
	}
	if fileHeader.Size > maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":   true,
			"message": "File too large",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Unreadable file")
	}
	defer file.Close()

	url, err := h.uploader.UploadImage(c.Context(), userID, kind, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
