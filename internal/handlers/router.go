package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/media"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/pipeline"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/storage"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Pipeline  *pipeline.Service
	Records   *storage.Records
	Validator media.Validator
	Scratch   *cleanup.Scratch
	Log       logrus.FieldLogger
	LogLines  func() []string
}

// Register mounts all routes on the app.
func Register(app *fiber.App, d Deps) {
	uploadHandler := NewUploadHandler(d.Pipeline, d.Validator, d.Scratch, d.Log)
	youtubeHandler := NewYouTubeHandler(d.Pipeline, d.Log)
	recordsHandler := NewRecordsHandler(d.Records)
	streamHandler := NewStreamHandler(d.Pipeline, d.Validator, d.Scratch, d.Log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	if d.LogLines != nil {
		app.Get("/logs", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"logs": d.LogLines()})
		})
	}

	api := app.Group("/api/transcription")
	api.Post("/", uploadHandler.Handle)
	api.Post("/youtube", youtubeHandler.Handle)
	api.Get("/", recordsHandler.List)
	// search must be registered ahead of the id parameter
	api.Get("/search", recordsHandler.Search)
	api.Get("/:id", recordsHandler.Get)
	api.Delete("/:id", recordsHandler.Delete)

	app.Get("/ws/stream", websocket.New(streamHandler.Handle))
}
