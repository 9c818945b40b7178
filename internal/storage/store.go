// Package storage persists transcription records and guarantees the default
// sample record always exists.
package storage

import (
	"context"
	"errors"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// ErrNotFound is returned by Store implementations when no record matches.
var ErrNotFound = errors.New("record not found")

// Store is the minimal persistence contract. Implementations provide their
// own concurrency control; callers issue independent per-record operations.
type Store interface {
	Insert(ctx context.Context, rec types.TranscriptionRecord) error
	GetByID(ctx context.Context, id string) (types.TranscriptionRecord, error)
	// List returns records newest first, optionally filtered by source type.
	List(ctx context.Context, sourceType string) ([]types.TranscriptionRecord, error)
	Delete(ctx context.Context, id string) error
	// Search matches records whose transcript text contains term, newest first.
	Search(ctx context.Context, term string) ([]types.TranscriptionRecord, error)
	Close() error
}
