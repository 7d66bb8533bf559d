package staging

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	zlogger "github.com/photomig/photomigration/logger"
	"github.com/photomig/photomigration/util"
)

// Store hands out scoped temp files for the download→upload handoff. One slot
// is in flight per item; Release must run on every exit path so a
// multi-thousand-file run cannot exhaust the disk.
type Store struct {
	dir string
}

func NewStore(workDir string) (*Store, error) {
	dir := filepath.Join(workDir, "staging")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Slot is one acquired temp file.
type Slot struct {
	path     string
	released bool
}

// Acquire creates an empty temp file carrying the given extension.
func (s *Store) Acquire(ext string) (*Slot, error) {
	f, err := os.CreateTemp(s.dir, "stage-*"+ext)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &Slot{path: f.Name()}, nil
}

func (sl *Slot) Path() string {
	return sl.path
}

// Release deletes the staged file. Idempotent; a missing file is not an
// error.
func (sl *Slot) Release() {
	if sl.released {
		return
	}
	sl.released = true

	if err := util.Fs.Remove(sl.path); err != nil && !os.IsNotExist(err) {
		zlogger.Logger.Warnf("could not remove staged file %s: %v", sl.path, err)
	}
}

// IsDiskFull reports whether err means the staging volume is out of space.
// The engine halts the run on it; retrying cannot help.
func IsDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}
