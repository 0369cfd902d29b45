package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

// Storage resolves and writes export files under one directory
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the expanded directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the file for an event title and extension, e.g. "bushy-parkrun.csv".
func (s *Storage) Path(title, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(s.dataDir, fmt.Sprintf("%s-parkrun.%s", Slug(title), ext))
}

// Write creates the file for title and ext and fills it with write.
// It returns the path written.
func (s *Storage) Write(title, ext string, write func(io.Writer) error) (string, error) {
	path := s.Path(title, ext)
	if err := WriteFile(path, write); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSummary writes the summary as indented JSON and returns its path.
func (s *Storage) SaveSummary(summary *event.Summary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}

	path := s.Path(summary.Title, "json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}

	return path, nil
}

// WriteFile creates path and fills it with write. A failed write removes the
// partial file.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Slug lowercases title and joins its words with hyphens.
func Slug(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return "event"
	}
	return b.String()
}
