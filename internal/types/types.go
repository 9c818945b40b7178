package types

import "time"

// Source type constants
const (
	SourceFile    = "file"
	SourceYouTube = "youtube"
	SourceSample  = "sample"
	SourceStream  = "stream"
)

// TranscriptionRecord is the durable result of one transcription request.
// Records are immutable once saved; the only lifecycle operation is deletion.
type TranscriptionRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	SourceName string    `json:"source_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`

	// File-sourced records only
	FileType string `json:"file_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`

	// Remote-sourced records only
	VideoID  string  `json:"video_id,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Author   string  `json:"author,omitempty"`
}

// VideoMetadata is the resolved description of a remote video prior to any
// transfer.
type VideoMetadata struct {
	ID       string
	Title    string
	Author   string
	Duration float64
}
