package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"rostersync/internal/roster"
)

// WriteSnapshot persists the aggregated professionals as a JSON array so
// tagging can be re-run without repeating the shift fetch. The file is only
// written after a fully successful aggregation; there is never a partial
// snapshot.
func WriteSnapshot(path string, professionals []roster.Professional) error {
	data, err := json.MarshalIndent(professionals, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a previously written snapshot. A missing or corrupt
// file degrades to an empty roster with a warning, mirroring ledger reads.
func ReadSnapshot(ctx context.Context, path string, logger *slog.Logger) ([]roster.Professional, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WarnContext(ctx, "snapshot missing, nothing to reconcile", "path", path)
			return nil, nil
		}
		logger.WarnContext(ctx, "snapshot unreadable, nothing to reconcile", "path", path, "error", err)
		return nil, nil
	}

	var professionals []roster.Professional
	if err := json.Unmarshal(data, &professionals); err != nil {
		logger.WarnContext(ctx, "snapshot corrupt, nothing to reconcile", "path", path, "error", err)
		return nil, nil
	}
	return professionals, nil
}
