// Package filestore persists uploaded files on local disk and hands back a
// locator string; only the locator is stored in the database.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the content under a collision-free name derived from the
// suggested one and returns the locator.
func (s *Store) Save(r io.Reader, suggestedName string) (string, error) {
	name := sanitize(suggestedName)
	locator := filepath.Join(s.dir, uuid.NewString()+"_"+name)

	f, err := os.Create(locator)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", locator, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(locator)
		return "", fmt.Errorf("failed to write file %s: %w", locator, err)
	}
	return locator, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
