// Package registry keeps a local SQLite catalog of correction-set
// documents so pipelines can answer which file provides a given
// correction. Documents are validated on insert; only metadata is
// stored, never the payload itself.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cms-nanoAOD/correctionlib/correction"
	"github.com/cms-nanoAOD/correctionlib/schema"
)

// CorrectionInfo is one correction provided by a catalogued document.
type CorrectionInfo struct {
	Name     string
	Version  int32
	Compound bool
}

// Entry is one catalogued document.
type Entry struct {
	ID            string
	Path          string
	Description   string
	SchemaVersion int
	AddedAt       time.Time
	Corrections   []CorrectionInfo
}

// Registry is a catalog backed by a SQLite database. Safe for
// concurrent readers; writes are serialized by the database.
type Registry struct {
	db  *sql.DB
	log *slog.Logger
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	path           TEXT NOT NULL UNIQUE,
	description    TEXT NOT NULL DEFAULT '',
	schema_version INTEGER NOT NULL,
	added_at       TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS corrections (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	version     INTEGER NOT NULL,
	compound    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_corrections_name ON corrections(name);
`

// Open creates or opens a catalog at the given path.
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening registry %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing registry schema: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Registry{db: db, log: slog.Default()}, nil
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(log *slog.Logger) {
	r.log = log
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Add validates and indexes a correction-set document. The document
// must load and compile cleanly before any row is written.
func (r *Registry) Add(ctx context.Context, filePath string) (*Entry, error) {
	doc, err := schema.LoadFile(filePath)
	if err != nil {
		return nil, err
	}
	if _, err := correction.NewSet(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	entry := &Entry{
		ID:            uuid.NewString(),
		Path:          filePath,
		Description:   doc.Description,
		SchemaVersion: doc.SchemaVersion,
		AddedAt:       time.Now().UTC(),
	}
	for _, c := range doc.Corrections {
		entry.Corrections = append(entry.Corrections, CorrectionInfo{Name: c.Name, Version: c.Version})
	}
	for _, c := range doc.CompoundCorrections {
		entry.Corrections = append(entry.Corrections, CorrectionInfo{Name: c.Name, Compound: true})
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents (id, path, description, schema_version, added_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, entry.Path, entry.Description, entry.SchemaVersion, entry.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting document %s: %w", filePath, err)
	}
	for _, c := range entry.Corrections {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO corrections (document_id, name, version, compound) VALUES (?, ?, ?, ?)",
			entry.ID, c.Name, c.Version, c.Compound)
		if err != nil {
			return nil, fmt.Errorf("inserting correction %s: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.log.Info("registered correction set",
		"id", entry.ID,
		"path", entry.Path,
		"corrections", len(entry.Corrections))
	return entry, nil
}

// List returns all catalogued documents with their corrections.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, path, description, schema_version, added_at FROM documents ORDER BY added_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Description, &e.SchemaVersion, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Corrections, err = r.corrections(ctx, entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *Registry) corrections(ctx context.Context, documentID string) ([]CorrectionInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, version, compound FROM corrections WHERE document_id = ? ORDER BY name", documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []CorrectionInfo
	for rows.Next() {
		var ci CorrectionInfo
		if err := rows.Scan(&ci.Name, &ci.Version, &ci.Compound); err != nil {
			return nil, err
		}
		infos = append(infos, ci)
	}
	return infos, rows.Err()
}

// Find returns the documents providing a correction with the given
// name.
func (r *Registry) Find(ctx context.Context, name string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.path, d.description, d.schema_version, d.added_at
		FROM documents d
		JOIN corrections c ON c.document_id = d.id
		WHERE c.name = ?
		ORDER BY d.added_at, d.id`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Description, &e.SchemaVersion, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Corrections, err = r.corrections(ctx, entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Remove deletes a document by id or path.
func (r *Registry) Remove(ctx context.Context, idOrPath string) error {
	var id string
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE id = ? OR path = ?", idOrPath, idOrPath).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %q", correction.ErrKeyNotFound, idOrPath)
	}
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM corrections WHERE document_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.Debug("removed correction set", "id", id)
	return nil
}
