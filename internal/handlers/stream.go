package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/media"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/pipeline"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// StreamHandler accepts browser-recorded audio over a websocket: binary
// frames carry webm audio, a text "END" frame closes the take and runs it
// through the standard pipeline.
type StreamHandler struct {
	pipeline  *pipeline.Service
	validator media.Validator
	scratch   *cleanup.Scratch
	log       logrus.FieldLogger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(p *pipeline.Service, v media.Validator, scratch *cleanup.Scratch, log logrus.FieldLogger) *StreamHandler {
	return &StreamHandler{pipeline: p, validator: v, scratch: scratch, log: log}
}

// Handle processes one websocket recording session.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	var (
		buffer bytes.Buffer
		name   = "stream_recording"
	)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			h.log.Debugf("websocket read ended: %v", err)
			break
		}

		if messageType == websocket.TextMessage {
			msg := string(message)
			if msg == "END" {
				break
			}
			// A short text frame names the recording
			if len(msg) > 0 && len(msg) < 200 {
				name = msg
			}
			continue
		}

		if messageType == websocket.BinaryMessage {
			if err := h.appendChunk(&buffer, message); err != nil {
				h.writeError(c, err)
				return
			}
		}
	}

	if buffer.Len() == 0 {
		h.writeError(c, errs.New(errs.UnsupportedType, "no audio data received"))
		return
	}

	path := h.scratch.Path("stream", ".webm")
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		h.log.Errorf("failed to save stream buffer: %v", err)
		h.writeError(c, err)
		return
	}

	res, err := h.pipeline.TranscribeFile(context.Background(), pipeline.UploadInput{
		Path:     path,
		Filename: name + ".webm",
		MimeType: "audio/webm",
		Size:     int64(buffer.Len()),
		Source:   types.SourceStream,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	out, _ := json.Marshal(map[string]string{
		"transcription":   res.Record.Text,
		"transcriptionId": res.Record.ID,
	})
	_ = c.WriteMessage(websocket.TextMessage, out)
}

// appendChunk grows the take, enforcing the size ceiling before the bytes
// are held so an oversize stream never accumulates past the limit.
func (h *StreamHandler) appendChunk(buffer *bytes.Buffer, chunk []byte) error {
	if err := h.validator.CheckSize(int64(buffer.Len()) + int64(len(chunk))); err != nil {
		return err
	}
	buffer.Write(chunk)
	return nil
}

func (h *StreamHandler) writeError(c *websocket.Conn, err error) {
	kind, msg := errs.Classify(err)
	out, _ := json.Marshal(map[string]string{
		"error":   errs.UserMessage(kind),
		"details": msg,
	})
	_ = c.WriteMessage(websocket.TextMessage, out)
}
