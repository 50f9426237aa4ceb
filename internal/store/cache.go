package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kyrias/bano/internal/types"
)

// Cache dumps raw search results to disk for debugging
type Cache struct {
	dir string
	now func() time.Time
}

// NewCache creates a cache rooted at dir
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

// generateFilename creates a timestamped filename with the given extension.
func (c *Cache) generateFilename(ext string) string {
	return c.now().Format("2006-01-02T15-04-05.000000000") + ext
}

// SaveStatuses writes one search response under {dir}/{short}/{lang}/.
// Returns the path to the saved file.
func (c *Cache) SaveStatuses(short, lang string, statuses []types.Status) (string, error) {
	dir := filepath.Join(c.dir, short, lang)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	path := filepath.Join(dir, c.generateFilename(".json"))

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal statuses: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write statuses: %w", err)
	}

	return path, nil
}
