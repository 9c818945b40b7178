// Package logger wraps logrus and mirrors output into a bounded in-memory
// buffer served by the /logs endpoint.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger.
type Logger struct {
	*logrus.Logger
	buffer *RingBuffer
}

// New builds a logger writing to stdout and the in-memory ring buffer.
// Local environments get the pretty console formatter, everything else JSON.
func New() *Logger {
	base := logrus.New()

	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	buf := NewRingBuffer(1000)
	base.SetOutput(io.MultiWriter(os.Stdout, buf))

	return &Logger{Logger: base, buffer: buf}
}

// RecentLines returns a copy of the buffered log lines, oldest first.
func (l *Logger) RecentLines() []string {
	return l.buffer.Lines()
}

// RingBuffer keeps the last N log lines in memory.
type RingBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewRingBuffer creates a buffer holding at most max lines.
func NewRingBuffer(max int) *RingBuffer {
	return &RingBuffer{lines: make([]string, 0, max), max: max}
}

func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.lines = append(rb.lines, string(p))
	if len(rb.lines) > rb.max {
		rb.lines = rb.lines[len(rb.lines)-rb.max:]
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines.
func (rb *RingBuffer) Lines() []string {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]string, len(rb.lines))
	copy(out, rb.lines)
	return out
}
