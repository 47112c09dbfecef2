package centroid

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/metrics"
	"github.com/ZETA-AI-ORG/Zeta-AI-sub003/pkg/observability/logging"
)

// cacheVersion invalidates all cached centroids. Bump whenever the centroid
// construction logic or weights change.
const cacheVersion = "v6-ivoire-extras-low-20251201"

// Cache persists centroid vectors between runs. It is strictly advisory: a
// miss or failed write only costs a recompute, never correctness.
type Cache interface {
	// Get returns the cached vector for an intent, if present and readable.
	Get(intentID int) ([]float32, bool)
	// Put stores the vector for an intent. Callers treat errors as
	// log-and-continue.
	Put(intentID int, vec []float32) error
}

// DiskCache stores one JSON file per intent, keyed by the sanitized
// embedding-model name and the cache version.
type DiskCache struct {
	dir     string
	modelID string
}

type cacheEntry struct {
	IntentID int       `json:"intent_id"`
	Model    string    `json:"model"`
	Version  string    `json:"version"`
	Vector   []float32 `json:"vector"`
}

// NewDiskCache creates the cache directory if needed.
func NewDiskCache(dir, modelName string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create centroid cache dir %s: %w", dir, err)
	}
	return &DiskCache{dir: dir, modelID: sanitizeModelName(modelName)}, nil
}

// sanitizeModelName reduces a model identifier to a filesystem-safe token:
// last path segment, with spaces, dots and colons replaced.
func sanitizeModelName(modelName string) string {
	id := modelName
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	replacer := strings.NewReplacer(" ", "_", ".", "-", ":", "-")
	return replacer.Replace(id)
}

func (c *DiskCache) path(intentID int) string {
	name := fmt.Sprintf("intent_%d_centroid_%s_%s.json", intentID, c.modelID, cacheVersion)
	return filepath.Join(c.dir, name)
}

// Get treats any read or decode failure as a miss.
func (c *DiskCache) Get(intentID int) ([]float32, bool) {
	data, err := os.ReadFile(c.path(intentID))
	if err != nil {
		metrics.RecordCacheOp("get", "miss")
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || len(entry.Vector) == 0 {
		logging.Warnf("Corrupt centroid cache file for intent %d, recomputing: %v", intentID, err)
		metrics.RecordCacheOp("get", "corrupt")
		return nil, false
	}

	metrics.RecordCacheOp("get", "hit")
	return entry.Vector, true
}

// Put writes the whole entry to a temp file and renames it into place, so a
// concurrent reader never observes a partial file.
func (c *DiskCache) Put(intentID int, vec []float32) error {
	entry := cacheEntry{
		IntentID: intentID,
		Model:    c.modelID,
		Version:  cacheVersion,
		Vector:   vec,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheOp("put", "error")
		return fmt.Errorf("failed to encode centroid for intent %d: %w", intentID, err)
	}

	target := c.path(intentID)
	tmp, err := os.CreateTemp(c.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		metrics.RecordCacheOp("put", "error")
		return fmt.Errorf("failed to create temp cache file for intent %d: %w", intentID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.RecordCacheOp("put", "error")
		return fmt.Errorf("failed to write cache file for intent %d: %w", intentID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.RecordCacheOp("put", "error")
		return fmt.Errorf("failed to close cache file for intent %d: %w", intentID, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		metrics.RecordCacheOp("put", "error")
		return fmt.Errorf("failed to publish cache file for intent %d: %w", intentID, err)
	}

	metrics.RecordCacheOp("put", "success")
	return nil
}
