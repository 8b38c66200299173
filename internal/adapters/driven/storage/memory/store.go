// Package memory provides the in-memory review store with whole-file
// JSON snapshot persistence.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/logger"
)

// SnapshotFile is the name of the JSON snapshot within the data
// directory.
const SnapshotFile = "reviews.json"

// Ensure Store implements the interface.
var _ driven.ReviewStore = (*Store)(nil)

// snapshot is the persisted shape: a mapping from table name to its
// ordered documents, plus the metadata table holding one document.
type snapshot struct {
	Tables   map[string][]domain.Review   `json:"tables"`
	Metadata map[string][]domain.Metadata `json:"metadata"`
}

// Store is an in-memory implementation of driven.ReviewStore backed
// by a durable JSON snapshot. There is exactly one writer during
// population; the mutex makes post-build reads safe from any
// goroutine.
type Store struct {
	mu     sync.RWMutex
	path   string
	tables map[string][]domain.Review
	keys   map[string]map[string]struct{}
	meta   *domain.Metadata
}

// NewStore creates an empty store whose snapshot lives in dataDir.
// If dataDir is empty, defaults to ~/.reviewlens/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".reviewlens", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		path:   filepath.Join(dataDir, SnapshotFile),
		tables: make(map[string][]domain.Review),
		keys:   make(map[string]map[string]struct{}),
	}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// CreateTable registers a new, empty table.
func (s *Store) CreateTable(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrTableExists, name)
	}
	s.tables[name] = []domain.Review{}
	s.keys[name] = make(map[string]struct{})
	return nil
}

// Insert appends the document to the named category table and to the
// master table. Both writes happen under one lock; if the second half
// cannot proceed the first is rolled back, so a document is never
// visible in only one table.
func (s *Store) Insert(_ context.Context, table string, review domain.Review) error {
	if table == domain.MasterTable {
		return fmt.Errorf("insert into %s: use a category table, the master is dual-written", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[table]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}
	if _, exists := s.tables[domain.MasterTable]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrTableNotFound, domain.MasterTable)
	}

	key := review.Key()
	if _, dup := s.keys[table][key]; dup {
		return fmt.Errorf("%w: table %s", domain.ErrDuplicateKey, table)
	}
	if _, dup := s.keys[domain.MasterTable][key]; dup {
		return fmt.Errorf("%w: table %s", domain.ErrDuplicateKey, domain.MasterTable)
	}

	s.tables[table] = append(s.tables[table], review)
	s.keys[table][key] = struct{}{}

	s.tables[domain.MasterTable] = append(s.tables[domain.MasterTable], review)
	s.keys[domain.MasterTable][key] = struct{}{}

	return nil
}

// GetAll returns the table's documents in insertion order. The slice
// is a copy; callers cannot mutate store state through it.
func (s *Store) GetAll(_ context.Context, table string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, exists := s.tables[table]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}

	out := make([]domain.Review, len(rows))
	copy(out, rows)
	return out, nil
}

// Query returns the documents matching all conditions, preserving
// insertion order.
func (s *Store) Query(_ context.Context, table string, conditions []domain.Condition) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, exists := s.tables[table]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}

	var out []domain.Review
	for i := range rows {
		if domain.MatchesAll(&rows[i], conditions) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// Tables lists all table names in sorted order, metadata included
// when present.
func (s *Store) Tables(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables)+1)
	for name := range s.tables {
		names = append(names, name)
	}
	if s.meta != nil {
		names = append(names, domain.MetadataTable)
	}
	sort.Strings(names)
	return names, nil
}

// PutMetadata overwrites the dataset-level metadata document.
func (s *Store) PutMetadata(_ context.Context, meta domain.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = &meta
	return nil
}

// GetMetadata returns the metadata document.
func (s *Store) GetMetadata(_ context.Context) (*domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.meta == nil {
		return nil, domain.ErrNoMetadata
	}
	out := *s.meta
	return &out, nil
}

// Persist serializes the full state into one JSON document, written
// to a temp file and atomically renamed over the previous snapshot.
// A crash mid-write never corrupts the previously persisted state.
func (s *Store) Persist(_ context.Context) error {
	s.mu.RLock()
	snap := snapshot{
		Tables:   s.tables,
		Metadata: map[string][]domain.Metadata{},
	}
	if s.meta != nil {
		snap.Metadata[domain.MetadataTable] = []domain.Metadata{*s.meta}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("persist: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("persist: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: replace snapshot %s: %w", s.path, err)
	}

	logger.Debug("persisted snapshot to %s", s.path)
	return nil
}

// Load restores the store from the snapshot file, replacing any
// in-memory state. A snapshot that does not match the expected
// table-of-tables-of-documents shape yields domain.ErrCorruptStore.
func (s *Store) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptStore, s.path, err)
	}
	if snap.Tables == nil {
		return fmt.Errorf("%w: %s: missing tables mapping", domain.ErrCorruptStore, s.path)
	}
	if _, hasMaster := snap.Tables[domain.MasterTable]; !hasMaster {
		return fmt.Errorf("%w: %s: missing master table", domain.ErrCorruptStore, s.path)
	}

	tables := make(map[string][]domain.Review, len(snap.Tables))
	keys := make(map[string]map[string]struct{}, len(snap.Tables))
	for name, rows := range snap.Tables {
		tables[name] = rows
		keys[name] = make(map[string]struct{}, len(rows))
		for i := range rows {
			keys[name][rows[i].Key()] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = tables
	s.keys = keys
	s.meta = nil
	if docs := snap.Metadata[domain.MetadataTable]; len(docs) > 0 {
		meta := docs[len(docs)-1]
		s.meta = &meta
	}

	logger.Debug("loaded snapshot from %s (%d tables)", s.path, len(tables))
	return nil
}

// Reset drops all tables and metadata.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string][]domain.Review)
	s.keys = make(map[string]map[string]struct{})
	s.meta = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
