package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownSignals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"connection reset errno", syscall.ECONNRESET, ConnectionReset},
		{"connection reset text", errors.New("read tcp 1.2.3.4: connection reset by peer"), ConnectionReset},
		{"econnreset marker", errors.New("request failed: ECONNRESET"), ConnectionReset},
		{"unauthorized status", errors.New("transcription service returned status 401 Unauthorized"), InvalidCredential},
		{"bad api key", errors.New("Incorrect API key provided"), InvalidCredential},
		{"video unavailable", errors.New("yt-dlp: ERROR: Video unavailable"), SourceUnavailable},
		{"private video", errors.New("ERROR: Private video. Sign in if you've been granted access"), SourceUnavailable},
		{"deadline", context.DeadlineExceeded, TimedOut},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), TimedOut},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, msg := Classify(tc.err)
			assert.Equal(t, tc.want, kind)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestClassifyIncidentalDigitsAreNotCredentialFailures(t *testing.T) {
	t.Parallel()

	// Digits that merely contain 401 must not be read as an auth status.
	for _, raw := range []string{
		"wrote 4401 bytes before the stream ended",
		"ffmpeg failed on segment 401 of input",
		"yt-dlp: ERROR: video id x401abc not found",
	} {
		kind, _ := Classify(errors.New(raw))
		assert.NotEqual(t, InvalidCredential, kind, "message %q", raw)
	}
}

func TestClassifyUnknownPreservesMessage(t *testing.T) {
	t.Parallel()

	kind, msg := Classify(errors.New("something exploded"))
	assert.Equal(t, Unknown, kind)
	assert.Equal(t, "something exploded", msg)
}

func TestClassifyTaxonomyErrorPassesThrough(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("acquire: %w", New(TooLong, "duration 1300s over 1200s limit"))
	kind, msg := Classify(err)
	assert.Equal(t, TooLong, kind)
	assert.Equal(t, "duration 1300s over 1200s limit", msg)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, TooLarge, KindOf(New(TooLarge, "too big")))
	require.Equal(t, Unknown, KindOf(errors.New("mystery")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, HTTPStatus(TooLarge))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(UnsupportedType))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(RejectedDeletion))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(TimedOut))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Unknown))
}
