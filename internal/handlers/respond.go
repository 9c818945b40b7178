package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
)

// respondError translates any pipeline failure into the API error shape:
// a short user-facing message plus the classified detail.
func respondError(c *fiber.Ctx, err error) error {
	kind, msg := errs.Classify(err)
	return c.Status(errs.HTTPStatus(kind)).JSON(fiber.Map{
		"error":   errs.UserMessage(kind),
		"details": msg,
	})
}
