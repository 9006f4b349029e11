// Package media stores step media as opaque blobs on the local filesystem,
// one file per step id. Bytes are written as received; no decoding or
// resizing happens here.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes and reads blobs under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the blob for a step, replacing any previous one. It returns
// the number of bytes written.
func (s *Store) Save(stepID int64, r io.Reader) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(s.path(stepID))
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write media file: %w", err)
	}
	return n, nil
}

// Path returns where the blob for a step lives on disk. The file may or
// may not exist.
func (s *Store) Path(stepID int64) string {
	return s.path(stepID)
}

// Exists reports whether a blob is stored for the step.
func (s *Store) Exists(stepID int64) bool {
	_, err := os.Stat(s.path(stepID))
	return err == nil
}

// Delete removes the blob for a step. Deleting a missing blob is an error
// the caller is expected to swallow or log.
func (s *Store) Delete(stepID int64) error {
	return os.Remove(s.path(stepID))
}

func (s *Store) path(stepID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.blob", stepID))
}
