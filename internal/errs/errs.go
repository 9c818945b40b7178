// Package errs defines the stable error taxonomy surfaced by the
// transcription pipeline and the mapping from raw upstream failures into it.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
)

// Kind identifies a failure class surfaced to API callers.
type Kind string

const (
	UnsupportedType   Kind = "UNSUPPORTED_TYPE"
	TooLarge          Kind = "FILE_TOO_LARGE"
	TooLong           Kind = "VIDEO_TOO_LONG"
	InvalidReference  Kind = "INVALID_URL"
	SourceUnavailable Kind = "SOURCE_UNAVAILABLE"
	TranscodeFailed   Kind = "TRANSCODE_FAILED"
	ConnectionReset   Kind = "CONNECTION_RESET"
	InvalidCredential Kind = "INVALID_CREDENTIAL"
	TimedOut          Kind = "TIMED_OUT"
	NotFound          Kind = "NOT_FOUND"
	RejectedDeletion  Kind = "DELETION_REJECTED"
	Unknown           Kind = "UNKNOWN"
)

// Error carries a taxonomy kind plus a human-readable detail message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a taxonomy error.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from err, classifying raw errors that
// were never assigned one.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	k, _ := Classify(err)
	return k
}

// Classify maps a raw failure to a taxonomy kind and a user-facing message.
// Anything unrecognized degrades to Unknown with the original message kept
// for diagnostics; classification never fails.
func Classify(err error) (Kind, string) {
	if err == nil {
		return Unknown, ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind, e.Message
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimedOut, "Transcription timed out"
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return ConnectionReset, "Connection was reset while talking to the transcription service"
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "econnreset") || strings.Contains(lower, "connection reset"):
		return ConnectionReset, "Connection was reset while talking to the transcription service"
	case strings.Contains(lower, "status 401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "incorrect api key"):
		return InvalidCredential, "Transcription service rejected the configured credentials"
	case strings.Contains(lower, "video unavailable") || strings.Contains(lower, "private video") ||
		strings.Contains(lower, "video is not available") || strings.Contains(lower, "removed by the uploader"):
		return SourceUnavailable, "Video is unavailable, private or restricted"
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timed out"):
		return TimedOut, "Transcription timed out"
	}

	return Unknown, msg
}

// UserMessage returns the user-facing short description for a kind.
func UserMessage(kind Kind) string {
	switch kind {
	case UnsupportedType:
		return "Only audio and video files are allowed"
	case TooLarge:
		return "File too large"
	case TooLong:
		return "Video too long"
	case InvalidReference:
		return "Invalid YouTube URL"
	case SourceUnavailable:
		return "Video unavailable"
	case TranscodeFailed:
		return "Audio extraction failed"
	case ConnectionReset:
		return "Connection reset"
	case InvalidCredential:
		return "Invalid transcription credentials"
	case TimedOut:
		return "Transcription timed out"
	case NotFound:
		return "Transcription not found"
	case RejectedDeletion:
		return "This transcription cannot be deleted"
	default:
		return "Transcription failed"
	}
}

// HTTPStatus maps a kind to the response status code used by the API layer.
func HTTPStatus(kind Kind) int {
	switch kind {
	case UnsupportedType, TooLarge, TooLong, InvalidReference, RejectedDeletion:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
