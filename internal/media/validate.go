// Package media implements the admission policy for inbound media and the
// acquisition of remote video audio.
package media

import (
	"strings"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
)

// Validator enforces the pre-flight admission policy: declared type, byte
// size, and (for remote sources) duration. Pure checks, no side effects.
type Validator struct {
	MaxBytes           int64
	MaxDurationSeconds float64
}

// CheckType rejects anything that is not declared as audio or video.
func (v Validator) CheckType(mimeType string) error {
	if strings.HasPrefix(mimeType, "audio/") || strings.HasPrefix(mimeType, "video/") {
		return nil
	}
	return errs.New(errs.UnsupportedType, "unsupported media type %q, only audio and video files are allowed", mimeType)
}

// CheckSize rejects payloads over the configured ceiling. A payload exactly
// at the ceiling is admitted.
func (v Validator) CheckSize(size int64) error {
	if size > v.MaxBytes {
		return errs.New(errs.TooLarge, "file size %d bytes exceeds the %d byte limit", size, v.MaxBytes)
	}
	return nil
}

// CheckDuration rejects remote videos over the configured duration ceiling.
func (v Validator) CheckDuration(seconds float64) error {
	if seconds > v.MaxDurationSeconds {
		return errs.New(errs.TooLong, "video duration %.0fs exceeds the %.0fs limit", seconds, v.MaxDurationSeconds)
	}
	return nil
}

// Check applies type and size admission for uploaded files.
func (v Validator) Check(size int64, mimeType string) error {
	if err := v.CheckType(mimeType); err != nil {
		return err
	}
	return v.CheckSize(size)
}
