package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/storage"
)

// RecordsHandler serves retrieval, deletion and search of saved
// transcriptions.
type RecordsHandler struct {
	records *storage.Records
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(records *storage.Records) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// List returns all records, optionally filtered by source type.
func (h *RecordsHandler) List(c *fiber.Ctx) error {
	sourceType := c.Query("source_type")
	return c.JSON(h.records.GetAll(c.UserContext(), sourceType))
}

// Get returns a single record by id.
func (h *RecordsHandler) Get(c *fiber.Ctx) error {
	rec, err := h.records.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// Delete removes a record. The reserved sample id is always rejected.
func (h *RecordsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.records.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transcription " + id + " deleted successfully"})
}

// Search returns records whose transcript text matches the query term.
func (h *RecordsHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Search term is required",
			"details": "query parameter \"q\" is required",
		})
	}
	return c.JSON(h.records.Search(c.UserContext(), term))
}
