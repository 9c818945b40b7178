// Package pipeline composes validation, acquisition, transcription and
// persistence into the two end-to-end flows.
package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/media"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/storage"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// Transcriber turns a local audio file into text under a deadline.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Acquirer resolves a remote video URL to a local audio scratch file.
type Acquirer interface {
	Fetch(ctx context.Context, url string) (*media.LocalAudio, error)
}

// Exporter pushes a finished transcript to an external backup target.
type Exporter interface {
	Export(rec types.TranscriptionRecord) (string, error)
}

// Service orchestrates one transcription request at a time. Requests share
// no mutable state; each owns its scratch files for exactly the request
// lifetime.
type Service struct {
	validator   media.Validator
	acquirer    Acquirer
	transcriber Transcriber
	records     *storage.Records
	exporter    Exporter
	scratch     *cleanup.Scratch
	log         logrus.FieldLogger
}

// New wires the orchestrator. exporter may be nil.
func New(
	validator media.Validator,
	acquirer Acquirer,
	transcriber Transcriber,
	records *storage.Records,
	exporter Exporter,
	scratch *cleanup.Scratch,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		validator:   validator,
		acquirer:    acquirer,
		transcriber: transcriber,
		records:     records,
		exporter:    exporter,
		scratch:     scratch,
		log:         log,
	}
}

// UploadInput describes an already-saved upload awaiting transcription.
type UploadInput struct {
	Path     string
	Filename string
	MimeType string
	Size     int64
	// Source overrides the record source type; defaults to "file".
	Source string
}

// Result carries the outcome of a flow. Persisted is false when the save
// path failed; the transcript is still valid.
type Result struct {
	Record    types.TranscriptionRecord
	Persisted bool
}

// TranscribeFile runs the direct-upload flow. The uploaded file is deleted
// on every exit path.
func (s *Service) TranscribeFile(ctx context.Context, in UploadInput) (*Result, error) {
	defer s.scratch.Remove(in.Path)

	if err := s.validator.Check(in.Size, in.MimeType); err != nil {
		return nil, err
	}

	text, err := s.transcriber.Transcribe(ctx, in.Path)
	if err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = types.SourceFile
	}

	rec := types.TranscriptionRecord{
		Title:      in.Filename,
		SourceType: source,
		SourceName: in.Filename,
		Text:       text,
		FileType:   in.MimeType,
		FileSize:   in.Size,
	}
	return s.persist(ctx, rec), nil
}

// TranscribeYouTube runs the remote-URL flow. The acquired scratch file is
// deleted on every exit path once the acquirer hands over ownership.
func (s *Service) TranscribeYouTube(ctx context.Context, url string) (*Result, error) {
	audio, err := s.acquirer.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer s.scratch.Remove(audio.Path)

	text, err := s.transcriber.Transcribe(ctx, audio.Path)
	if err != nil {
		return nil, err
	}

	rec := types.TranscriptionRecord{
		Title:      audio.Meta.Title,
		SourceType: types.SourceYouTube,
		SourceName: url,
		Text:       text,
		VideoID:    audio.Meta.ID,
		Duration:   audio.Meta.Duration,
		Author:     audio.Meta.Author,
	}
	return s.persist(ctx, rec), nil
}

// persist saves the record, favoring availability: a failed save is logged
// and the transcript still goes back to the caller.
func (s *Service) persist(ctx context.Context, rec types.TranscriptionRecord) *Result {
	saved, err := s.records.Save(ctx, rec)
	if err != nil {
		s.log.Errorf("failed to persist transcription %s: %v", saved.ID, err)
		return &Result{Record: saved, Persisted: false}
	}

	if s.exporter != nil {
		if _, err := s.exporter.Export(saved); err != nil {
			s.log.Warnf("transcript export failed for %s: %v", saved.ID, err)
		}
	}

	return &Result{Record: saved, Persisted: true}
}
