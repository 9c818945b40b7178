// Package transcription invokes the external speech-to-text service.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
)

// Client sends local audio payloads to the transcription service under a
// hard wall-clock deadline.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	deadline time.Duration
	http     *http.Client
	log      logrus.FieldLogger
}

// NewClient builds a transcription client.
func NewClient(apiKey, model, endpoint string, deadline time.Duration, log logrus.FieldLogger) *Client {
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		deadline: deadline,
		http:     &http.Client{},
		log:      log,
	}
}

type outcome struct {
	text string
	err  error
}

// Transcribe races the service call against the deadline timer. Whichever
// resolves first wins; the loser is cancelled and abandoned without waiting.
// Exactly one attempt is made, retry policy belongs to the caller.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		text, err := c.call(ctx, audioPath)
		done <- outcome{text: text, err: err}
	}()

	timer := time.NewTimer(c.deadline)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			kind, msg := errs.Classify(res.err)
			return "", errs.New(kind, "%s", msg)
		}
		return res.text, nil
	case <-timer.C:
		c.log.WithField("deadline", c.deadline).Warn("transcription call abandoned at deadline")
		return "", errs.New(errs.TimedOut, "transcription did not finish within %s", c.deadline)
	}
}

type serviceResponse struct {
	Text string `json:"text"`
}

// call performs the multipart upload to the service. The audio file is only
// read, never modified.
func (c *Client) call(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.model); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", errs.New(errs.InvalidCredential, "transcription service rejected the API key")
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, string(b))
	}

	var sr serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return sr.Text, nil
}
