package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// FileStore persists a ledger as a single JSON array file using
// read-merge-write: the whole file is read, the entry appended in memory and
// the whole array written back. Appends within one process are serialized by
// a mutex; two concurrent processes writing the same file remain
// last-writer-wins, an accepted limitation for a single-operator batch job.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFileStore creates a file-backed ledger at path. The file does not need
// to exist yet.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// ReadAll returns all stored entries. A missing or corrupt file is treated
// as an empty ledger and logged as a warning rather than failing the run.
func (s *FileStore) ReadAll(ctx context.Context) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(ctx)
}

// Append adds one entry after all existing ones and rewrites the file.
func (s *FileStore) Append(ctx context.Context, entry any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, raw)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) readLocked(ctx context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "ledger unreadable, starting empty", "path", s.path, "error", err)
		}
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WarnContext(ctx, "ledger corrupt, starting empty", "path", s.path, "error", err)
		return nil, nil
	}
	return entries, nil
}
