package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExt = ".json"

// FileStore keeps one file per run under <dir>/<networkID>/<runID>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(networkID, runID string) string {
	return filepath.Join(s.dir, networkID, runID+fileExt)
}

// Save implements Store. Files are written to a temporary name and renamed
// into place.
func (s *FileStore) Save(networkID, runID string, data []byte) error {
	if err := validKey(networkID, runID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(networkID, runID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), runID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write report file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename report file: %w", err)
	}

	return nil
}

// Get implements Store.
func (s *FileStore) Get(networkID, runID string) ([]byte, error) {
	if err := validKey(networkID, runID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(networkID, runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(networkID, runID)
		}
		return nil, fmt.Errorf("read report file: %w", err)
	}

	return data, nil
}

// List implements Store.
func (s *FileStore) List(networkID string) ([]string, error) {
	if err := validKey(networkID, "x"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, networkID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list reports: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileExt))
	}

	sort.Strings(ids)

	return ids, nil
}

// Delete implements Store.
func (s *FileStore) Delete(networkID, runID string) error {
	if err := validKey(networkID, runID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(networkID, runID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(networkID, runID)
		}
		return fmt.Errorf("delete report file: %w", err)
	}

	return nil
}
