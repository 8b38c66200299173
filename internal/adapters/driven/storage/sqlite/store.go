// Package sqlite provides a SQLite-backed review store. Unlike the
// JSON snapshot backend, writes are durable as they happen; Persist
// is a checkpoint rather than a whole-file rewrite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/reviewlens/reviewlens-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReviewStore = (*Store)(nil)

// Store is a SQLite implementation of driven.ReviewStore. Documents
// live in a single documents table keyed by (table_name, seq) so
// insertion order is preserved per table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
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

	dbPath := filepath.Join(dataDir, "reviews.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateTable registers a new table.
func (s *Store) CreateTable(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tables (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTableExists, name)
	}
	return nil
}

func (s *Store) tableExists(ctx context.Context, q queryer, name string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM tables WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// queryer abstracts *sql.DB and *sql.Tx for lookups.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Insert writes the document into the category table and the master
// table inside one transaction, so a partial write can never become
// visible.
func (s *Store) Insert(ctx context.Context, table string, review domain.Review) error {
	if table == domain.MasterTable {
		return fmt.Errorf("insert into %s: use a category table, the master is dual-written", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert into %s: begin: %w", table, err)
	}
	defer tx.Rollback()

	for _, name := range []string{table, domain.MasterTable} {
		exists, err := s.tableExists(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
		}
	}

	metaJSON, err := json.Marshal(review.Meta)
	if err != nil {
		return fmt.Errorf("insert into %s: marshal meta: %w", table, err)
	}

	const insert = `
		INSERT INTO documents
			(table_name, reviewer_id, product_id, rating, review_text, ts, category, segment, tier, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, name := range []string{table, domain.MasterTable} {
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM documents WHERE table_name = ? AND reviewer_id = ? AND product_id = ?",
			name, review.ReviewerID, review.ProductID).Scan(&one)
		if err == nil {
			return fmt.Errorf("%w: table %s", domain.ErrDuplicateKey, name)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("insert into %s: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, insert,
			name, review.ReviewerID, review.ProductID, review.Rating, review.ReviewText,
			review.Timestamp, review.Category, review.CommercialSegment, review.RatingTier,
			string(metaJSON)); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert into %s: commit: %w", table, err)
	}
	return nil
}

// GetAll returns the table's documents in insertion order.
func (s *Store) GetAll(ctx context.Context, table string) ([]domain.Review, error) {
	exists, err := s.tableExists(ctx, s.db, table)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT reviewer_id, product_id, rating, review_text, ts, category, segment, tier, meta
		FROM documents WHERE table_name = ? ORDER BY seq
	`, table)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var r domain.Review
		var metaJSON sql.NullString
		if err := rows.Scan(&r.ReviewerID, &r.ProductID, &r.Rating, &r.ReviewText,
			&r.Timestamp, &r.Category, &r.CommercialSegment, &r.RatingTier, &metaJSON); err != nil {
			return nil, fmt.Errorf("read table %s: scan: %w", table, err)
		}
		if metaJSON.Valid && metaJSON.String != "" && metaJSON.String != "null" {
			if err := json.Unmarshal([]byte(metaJSON.String), &r.Meta); err != nil {
				return nil, fmt.Errorf("read table %s: meta: %w", table, err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}
	return out, nil
}

// Query filters the table's documents with the shared evaluator.
// Predicates may reference preserved meta fields, so evaluation
// happens on hydrated documents rather than in SQL.
func (s *Store) Query(ctx context.Context, table string, conditions []domain.Condition) ([]domain.Review, error) {
	all, err := s.GetAll(ctx, table)
	if err != nil {
		return nil, err
	}

	var out []domain.Review
	for i := range all {
		if domain.MatchesAll(&all[i], conditions) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Tables lists all registered table names plus the metadata table
// when populated, in sorted order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM tables")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM store_metadata").Scan(&count); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if count > 0 {
		names = append(names, domain.MetadataTable)
	}

	sort.Strings(names)
	return names, nil
}

// PutMetadata overwrites the single metadata row.
func (s *Store) PutMetadata(ctx context.Context, meta domain.Metadata) error {
	categories, err := json.Marshal(meta.Categories)
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO store_metadata (id, record_count, categories, built_at, build_id)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_count = excluded.record_count,
			categories = excluded.categories,
			built_at = excluded.built_at,
			build_id = excluded.build_id
	`, meta.RecordCount, string(categories), meta.BuiltAt, meta.BuildID)
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the metadata row.
func (s *Store) GetMetadata(ctx context.Context) (*domain.Metadata, error) {
	var meta domain.Metadata
	var categories string
	err := s.db.QueryRowContext(ctx,
		"SELECT record_count, categories, built_at, build_id FROM store_metadata WHERE id = 1").
		Scan(&meta.RecordCount, &categories, &meta.BuiltAt, &meta.BuildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoMetadata
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &meta.Categories); err != nil {
		return nil, fmt.Errorf("%w: metadata categories: %v", domain.ErrCorruptStore, err)
	}
	return &meta, nil
}

// Persist checkpoints the WAL. SQLite writes are already durable, so
// there is no snapshot to swap.
func (s *Store) Persist(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("persist %s: checkpoint: %w", s.path, err)
	}
	return nil
}

// Load verifies the schema is usable. State already lives in the
// database file; a missing or broken schema is a corrupt store.
func (s *Store) Load(ctx context.Context) error {
	for _, table := range []string{"tables", "documents", "store_metadata"} {
		var name string
		err := s.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s: missing table %s", domain.ErrCorruptStore, s.path, table)
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", s.path, err)
		}
	}
	return nil
}

// Reset drops all documents, tables and metadata for a full rebuild.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		"DELETE FROM documents",
		"DELETE FROM tables",
		"DELETE FROM store_metadata",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	return nil
}
