package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FSStore implements the Store interface using filesystem-based persistence.
// Results are stored in a directory structure: <baseDir>/experiments/<id>/
//
// Thread-safety: This implementation uses atomic file operations (rename)
// and does not require locks. Multiple goroutines can safely call methods
// concurrently.
type FSStore struct {
	baseDir string // Root directory for all experiment data (e.g., "./data")
}

// NewFSStore creates a new filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FSStore{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the root directory of the store.
func (fs *FSStore) BaseDir() string {
	return fs.baseDir
}

// experimentDir returns the directory path for a given experiment ID.
func (fs *FSStore) experimentDir(id string) string {
	return experimentDir(fs.baseDir, id)
}

func experimentDir(baseDir, id string) string {
	return filepath.Join(baseDir, "experiments", id)
}

// resultPath returns the path to the result.json file for an experiment.
func (fs *FSStore) resultPath(id string) string {
	return filepath.Join(fs.experimentDir(id), "result.json")
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

// SaveResult atomically saves a result.
// Uses temp file + rename pattern to ensure atomicity.
func (fs *FSStore) SaveResult(result *Result) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	if err := checkID(result.ID); err != nil {
		return err
	}
	if err := result.Validate(); err != nil {
		return err
	}

	dir := fs.experimentDir(result.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create experiment directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	// Write to temporary file first (atomic pattern)
	finalPath := fs.resultPath(result.ID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp result file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename result file: %w", err)
	}

	slog.Debug("Result saved", "id", result.ID, "path", finalPath)
	return nil
}

// LoadResult retrieves the result with the given ID.
func (fs *FSStore) LoadResult(id string) (*Result, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	path := fs.resultPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to deserialize result: %w", err)
	}

	slog.Debug("Result loaded", "id", id, "path", path)
	return &result, nil
}

// ListResults returns metadata for all stored results, newest first.
func (fs *FSStore) ListResults() ([]ResultInfo, error) {
	root := filepath.Join(fs.baseDir, "experiments")

	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return []ResultInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read experiments directory: %w", err)
	}

	infos := []ResultInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		stat, err := os.Stat(fs.resultPath(id))
		if err != nil {
			continue // Skip directories without result.json
		}

		result, err := fs.LoadResult(id)
		if err != nil {
			slog.Warn("Failed to load result for listing", "id", id, "error", err)
			continue
		}

		info := result.ToInfo()
		info.Size = stat.Size()
		infos = append(infos, info)
	}

	slices.SortFunc(infos, func(a, b ResultInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	slog.Debug("Listed results", "count", len(infos))
	return infos, nil
}

// DeleteResult removes the result and all associated artifacts.
func (fs *FSStore) DeleteResult(id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	dir := fs.experimentDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat experiment directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove experiment directory: %w", err)
	}

	slog.Debug("Result deleted", "id", id, "path", dir)
	return nil
}
