package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/pipeline"
)

// YouTubeHandler serves the remote-URL transcription flow.
type YouTubeHandler struct {
	pipeline *pipeline.Service
	log      logrus.FieldLogger
}

// NewYouTubeHandler creates a new YouTube handler
func NewYouTubeHandler(p *pipeline.Service, log logrus.FieldLogger) *YouTubeHandler {
	return &YouTubeHandler{pipeline: p, log: log}
}

// YouTubeRequest represents the request body
type YouTubeRequest struct {
	YouTubeURL string `json:"youtubeUrl"`
}

// Handle processes YouTube transcription requests
func (h *YouTubeHandler) Handle(c *fiber.Ctx) error {
	var req YouTubeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if req.YouTubeURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "YouTube URL is required",
			"details": "body field \"youtubeUrl\" is required",
		})
	}

	res, err := h.pipeline.TranscribeYouTube(c.UserContext(), req.YouTubeURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"transcription":   res.Record.Text,
		"videoTitle":      res.Record.Title,
		"transcriptionId": res.Record.ID,
	})
}
