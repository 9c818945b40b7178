package cleanup

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Scratch allocates job-scoped temporary files under a single directory.
// Names embed the current time plus a random suffix so concurrent jobs never
// collide and no cross-job locking is needed.
type Scratch struct {
	dir string
	log logrus.FieldLogger
}

// NewScratch creates the scratch manager, ensuring the directory exists.
func NewScratch(dir string, log logrus.FieldLogger) (*Scratch, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}
	return &Scratch{dir: dir, log: log}, nil
}

// Dir returns the scratch directory.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path returns a fresh, collision-free file path with the given prefix and
// extension. The file itself is not created.
func (s *Scratch) Path(prefix, ext string) string {
	name := fmt.Sprintf("%s-%d-%09d%s", prefix, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	return filepath.Join(s.dir, name)
}

// Remove deletes a scratch file. A missing file is not an error; failed
// requests may never have produced one.
func (s *Scratch) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.WithField("path", path).Warnf("failed to remove scratch file: %v", err)
	}
}
