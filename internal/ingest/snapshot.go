// Package ingest is the dataset collaborator: it fetches historical orders
// from a commerce REST API page by page and persists the result as a JSON
// snapshot on disk. The engine only ever sees the loaded snapshot.
package ingest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"go-basket-analytics/internal/model"
)

// LoadSnapshot reads a dataset snapshot from disk. A missing file is a hard
// error (no dataset handle at all); a malformed or non-array payload is not:
// it degrades to an empty dataset so downstream metrics report zero rather
// than failing.
func LoadSnapshot(path string) ([]model.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return DecodeSnapshot(data), nil
}

// DecodeSnapshot parses a snapshot payload permissively: anything that is
// not a JSON array of orders yields an empty (non-nil) dataset.
func DecodeSnapshot(data []byte) []model.Order {
	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("⚠️ Snapshot is not a valid order array, treating as empty dataset: %v", err)
		return []model.Order{}
	}
	if orders == nil {
		return []model.Order{}
	}
	return orders
}

// SaveSnapshot writes the order set to disk as a JSON array, creating the
// parent directory when needed.
func SaveSnapshot(path string, orders []model.Order) (model.SnapshotInfo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return model.SnapshotInfo{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return model.SnapshotInfo{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.SnapshotInfo{}, fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return model.SnapshotInfo{
		Path:       path,
		OrderCount: len(orders),
		FetchedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}
