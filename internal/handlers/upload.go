package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/media"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/pipeline"
)

// UploadHandler serves the direct file-upload transcription flow.
type UploadHandler struct {
	pipeline  *pipeline.Service
	validator media.Validator
	scratch   *cleanup.Scratch
	log       logrus.FieldLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(p *pipeline.Service, v media.Validator, scratch *cleanup.Scratch, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{pipeline: p, validator: v, scratch: scratch, log: log}
}

// Handle processes the upload request. Admission runs before the upload is
// written anywhere, so rejected requests allocate no scratch resources.
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No file uploaded",
			"details": "multipart field \"file\" is required",
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if err := h.validator.Check(file.Size, mimeType); err != nil {
		return respondError(c, err)
	}

	path := h.scratch.Path("upload", filepath.Ext(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		h.log.Errorf("failed to save uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save file",
			"details": err.Error(),
		})
	}

	res, err := h.pipeline.TranscribeFile(c.UserContext(), pipeline.UploadInput{
		Path:     path,
		Filename: file.Filename,
		MimeType: mimeType,
		Size:     file.Size,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"transcription":   res.Record.Text,
		"transcriptionId": res.Record.ID,
	})
}
