package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playdeck/matchstats/internal/domain/model"
)

// SnapshotJSON serializes per-variant snapshots for archival or the
// stats endpoint.
func SnapshotJSON(snaps map[string]*model.StatsSnapshot) ([]byte, error) {
	raw, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// WriteSnapshot persists the snapshots to path, creating parent
// directories as needed. Write is atomic via rename.
func WriteSnapshot(path string, snaps map[string]*model.StatsSnapshot) error {
	raw, err := SnapshotJSON(snaps)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
