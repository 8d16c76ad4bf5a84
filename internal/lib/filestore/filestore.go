// Package filestore keeps uploaded registration attachments on local disk.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"eventManager/internal/models"

	"github.com/google/uuid"
)

var unsafeExt = regexp.MustCompile(`[^a-z0-9.]`)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes r under a random name that keeps the extension of original.
// The returned value refers to the stored file by its name relative to the
// store.
func (s *Store) Save(original string, r io.Reader) (models.FileValue, error) {
	const op = "lib.filestore.Save"

	ext := unsafeExt.ReplaceAllString(strings.ToLower(filepath.Ext(original)), "")
	name := uuid.New().String() + ext

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.FileValue{}, fmt.Errorf("%s: %w", op, err)
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return models.FileValue{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.FileValue{Path: name, Name: filepath.Base(original), Size: size}, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lib.filestore.Remove: %w", err)
	}
	return nil
}
