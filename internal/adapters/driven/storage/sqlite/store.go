package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/linemark-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed marker storage.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.MarkerStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.linemark/data/markers.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".linemark", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "markers.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

// SaveMarker stores or updates a complete marker record.
func (s *Store) SaveMarker(ctx context.Context, m *domain.Marker) error {
	if err := m.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO markers (id, file_path, line_number, content_anchor, last_known_content, label, tracking_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			line_number = excluded.line_number,
			content_anchor = excluded.content_anchor,
			last_known_content = excluded.last_known_content,
			label = excluded.label,
			tracking_enabled = excluded.tracking_enabled,
			updated_at = excluded.updated_at
	`, m.ID, m.FilePath, m.LineNumber, m.ContentAnchor, m.LastKnownContent,
		m.Label, boolToInt(m.TrackingEnabled), m.CreatedAt, m.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving marker: %w", err)
	}
	return nil
}

// GetMarker retrieves a marker by ID.
func (s *Store) GetMarker(ctx context.Context, id string) (*domain.Marker, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_path, line_number, content_anchor, last_known_content, label, tracking_enabled, created_at, updated_at
		FROM markers WHERE id = ?
	`, id)

	m, err := scanMarker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning marker: %w", err)
	}
	return m, nil
}

// GetMarkersForFile returns all markers for a file path, ordered by line.
func (s *Store) GetMarkersForFile(ctx context.Context, filePath string) ([]domain.Marker, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, line_number, content_anchor, last_known_content, label, tracking_enabled, created_at, updated_at
		FROM markers WHERE file_path = ?
		ORDER BY line_number, id
	`, filePath)
	if err != nil {
		return nil, fmt.Errorf("querying markers: %w", err)
	}
	defer rows.Close()

	var markers []domain.Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning marker: %w", err)
		}
		markers = append(markers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating markers: %w", err)
	}
	return markers, nil
}

// UpdateMarker applies a partial update to a stored marker.
func (s *Store) UpdateMarker(ctx context.Context, id string, update domain.MarkerUpdate) error {
	var sets []string
	var args []any

	if update.LineNumber != nil {
		if *update.LineNumber < 1 {
			return domain.ErrInvalidInput
		}
		sets = append(sets, "line_number = ?")
		args = append(args, *update.LineNumber)
	}
	if update.ContentAnchor != nil {
		sets = append(sets, "content_anchor = ?")
		args = append(args, *update.ContentAnchor)
	}
	if update.LastKnownContent != nil {
		sets = append(sets, "last_known_content = ?")
		args = append(args, *update.LastKnownContent)
	}
	if update.Label != nil {
		sets = append(sets, "label = ?")
		args = append(args, *update.Label)
	}
	if update.TrackingEnabled != nil {
		sets = append(sets, "tracking_enabled = ?")
		args = append(args, boolToInt(*update.TrackingEnabled))
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE markers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating marker: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveMarker deletes a marker. Removing a missing marker is a no-op.
func (s *Store) RemoveMarker(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM markers WHERE id = ?", id); err != nil {
		return fmt.Errorf("removing marker: %w", err)
	}
	return nil
}

// ListFiles returns the distinct file paths that have markers, sorted.
func (s *Store) ListFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT file_path FROM markers ORDER BY file_path")
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning file path: %w", err)
		}
		files = append(files, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}

// scanner abstracts sql.Row and sql.Rows for scanMarker.
type scanner interface {
	Scan(dest ...any) error
}

func scanMarker(row scanner) (*domain.Marker, error) {
	var m domain.Marker
	var tracking int
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&m.ID, &m.FilePath, &m.LineNumber, &m.ContentAnchor,
		&m.LastKnownContent, &m.Label, &tracking, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.TrackingEnabled = tracking != 0
	if createdAt.Valid {
		m.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		m.UpdatedAt = updatedAt.Time
	}
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
