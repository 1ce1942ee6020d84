package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/netcafe-dev/cafebot/cafebot/game"
)

// FileStore keeps every record in one human-readable JSON document:
// {"<discord id>": {record...}, ...}. Every write replaces the whole
// document; an internal mutex serializes document access so concurrent
// per-player updates cannot lose each other's entries.
type FileStore struct {
	mu    sync.Mutex
	path  string
	clock game.Clock
}

func NewFileStore(path string, clock game.Clock) (*FileStore, error) {
	if clock == nil {
		clock = game.RealClock{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create save directory: %w", err)
		}
	}
	return &FileStore{path: path, clock: clock}, nil
}

func (s *FileStore) LoadAll(ctx context.Context) (map[string]*game.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readDocument(), nil
}

func (s *FileStore) LoadOne(ctx context.Context, id string) (*game.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readDocument()
	if rec, ok := all[id]; ok {
		return rec, nil
	}

	rec := game.NewRecord(s.clock.Now())
	all[id] = rec
	if err := s.writeDocument(all); err != nil {
		return nil, err
	}
	slog.Info("Created new café record",
		slog.String("type", "db"),
		slog.String("player_id", id))
	return rec, nil
}

func (s *FileStore) SaveOne(ctx context.Context, id string, rec *game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readDocument()
	all[id] = rec
	return s.writeDocument(all)
}

func (s *FileStore) SaveAll(ctx context.Context, all map[string]*game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDocument(all)
}

// readDocument loads the full save document. A missing or unparseable file is
// recovered as an empty mapping, never surfaced to the caller.
func (s *FileStore) readDocument() map[string]*game.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Save document unreadable, starting from an empty one",
				slog.String("type", "db"),
				slog.String("path", s.path),
				slog.String("error", err.Error()))
		}
		return map[string]*game.Record{}
	}

	var all map[string]*game.Record
	if err := json.Unmarshal(data, &all); err != nil {
		slog.Warn("Save document corrupt, starting from an empty one",
			slog.String("type", "db"),
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return map[string]*game.Record{}
	}
	if all == nil {
		all = map[string]*game.Record{}
	}
	for _, rec := range all {
		rec.Normalize()
	}
	return all
}

// writeDocument replaces the whole document atomically via temp file +
// rename.
func (s *FileStore) writeDocument(all map[string]*game.Record) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save document: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp-%d", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace save document: %w", err)
	}
	return nil
}
