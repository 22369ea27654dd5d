package manifest

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arnestad/mdxpress/internal/apperr"
	"github.com/arnestad/mdxpress/internal/models"
)

// Upsert inserts or replaces the artifact record for one source file.
func (db *DB) Upsert(a models.Artifact) error {
	if a.PushedAt.IsZero() {
		a.PushedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO artifacts (source_path, output_path, checksum, content_type, title, pushed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			output_path  = excluded.output_path,
			checksum     = excluded.checksum,
			content_type = excluded.content_type,
			title        = excluded.title,
			pushed_at    = excluded.pushed_at
	`, a.SourcePath, a.OutputPath, a.Checksum, a.ContentType, a.Title, a.PushedAt)
	if err != nil {
		return fmt.Errorf("manifest: upsert: %w", err)
	}
	return nil
}

// Get returns the artifact record for a source path.
func (db *DB) Get(sourcePath string) (*models.Artifact, error) {
	var a models.Artifact
	err := db.conn.QueryRow(`
		SELECT source_path, output_path, checksum, content_type, title, pushed_at
		FROM artifacts WHERE source_path = ?
	`, sourcePath).Scan(&a.SourcePath, &a.OutputPath, &a.Checksum, &a.ContentType, &a.Title, &a.PushedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: get: %w", err)
	}
	return &a, nil
}

// GetChecksum returns the stored source checksum, or empty when unknown.
func (db *DB) GetChecksum(sourcePath string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM artifacts WHERE source_path = ?`, sourcePath).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("manifest: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns source path to checksum for every recorded artifact.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source_path, checksum FROM artifacts`)
	if err != nil {
		return nil, fmt.Errorf("manifest: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// List returns artifacts ordered by most recent push, plus the total count.
func (db *DB) List(limit, offset int) ([]models.Artifact, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM artifacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("manifest: count: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT source_path, output_path, checksum, content_type, title, pushed_at
		FROM artifacts ORDER BY pushed_at DESC, source_path ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("manifest: list: %w", err)
	}
	defer rows.Close()

	var out []models.Artifact
	for rows.Next() {
		var a models.Artifact
		if err := rows.Scan(&a.SourcePath, &a.OutputPath, &a.Checksum, &a.ContentType, &a.Title, &a.PushedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// Delete removes the record for a source path.
func (db *DB) Delete(sourcePath string) error {
	if _, err := db.conn.Exec(`DELETE FROM artifacts WHERE source_path = ?`, sourcePath); err != nil {
		return fmt.Errorf("manifest: delete: %w", err)
	}
	return nil
}

// Stats summarises the manifest for status reporting.
type Stats struct {
	Artifacts  int        `json:"artifacts"`
	LastPushed *time.Time `json:"last_pushed,omitempty"`
}

// Summary returns artifact count and the most recent push time.
func (db *DB) Summary() (Stats, error) {
	var s Stats
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM artifacts`).Scan(&s.Artifacts); err != nil {
		return s, fmt.Errorf("manifest: summary count: %w", err)
	}
	if s.Artifacts == 0 {
		return s, nil
	}
	var last time.Time
	if err := db.conn.QueryRow(`SELECT pushed_at FROM artifacts ORDER BY pushed_at DESC LIMIT 1`).Scan(&last); err != nil {
		return s, fmt.Errorf("manifest: summary last: %w", err)
	}
	s.LastPushed = &last
	return s, nil
}
