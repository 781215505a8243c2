package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dgallion1/docchunk/internal/document"
)

// SQLiteStore implements Store on database/sql with the SQLite driver
// selected at build time.
type SQLiteStore struct {
	db        *sql.DB
	batchSize int
}

var _ Store = (*SQLiteStore)(nil)

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single writer; also keeps an in-memory database on one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens the database at dbPath. Call Init before use.
func NewSQLiteStore(dbPath string, batchSize int) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dbPath, err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SQLiteStore{db: db, batchSize: batchSize}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSchemaVersion); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return fmt.Errorf("sqlite: read schema_version: %w", err)
	}
	var applied []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite: scan schema_version: %w", err)
		}
		applied = append(applied, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: read schema_version: %w", err)
	}

	pending, err := pendingMigrations(applied)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin migration %s: %w", m.Version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: apply migration %s: %w", m.Version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("sqlite: record migration %s: %w", m.Version, err)
	}
	return tx.Commit()
}

const sqliteUpsert = `
	INSERT INTO chunks (chunk_id, source_path, slug, title, order_index, snippet)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (chunk_id) DO UPDATE SET
		source_path = excluded.source_path,
		slug = excluded.slug,
		title = excluded.title,
		order_index = excluded.order_index,
		snippet = excluded.snippet,
		updated_at = CURRENT_TIMESTAMP`

func (s *SQLiteStore) UpsertChunks(ctx context.Context, chunks []document.Chunk) (int, error) {
	written := 0
	for _, batch := range batches(chunks, s.batchSize) {
		if err := s.upsertBatch(ctx, batch); err != nil {
			return written, err
		}
		written += len(batch)
	}
	return written, nil
}

func (s *SQLiteStore) upsertBatch(ctx context.Context, batch []document.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return fmt.Errorf("sqlite: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range batch {
		r := recordFromChunk(c)
		if _, err := stmt.ExecContext(ctx, r.ChunkID, r.SourcePath, r.Slug, r.Title, r.OrderIndex, r.Snippet); err != nil {
			return fmt.Errorf("sqlite: upsert %s: %w", r.ChunkID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) GetChunk(ctx context.Context, chunkID string) (*Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, `
		SELECT chunk_id, source_path, slug, title, order_index, snippet, created_at
		FROM chunks
		WHERE chunk_id = ?`, chunkID,
	).Scan(&r.ChunkID, &r.SourcePath, &r.Slug, &r.Title, &r.OrderIndex, &r.Snippet, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get chunk %s: %w", chunkID, err)
	}
	return &r, nil
}

func (s *SQLiteStore) ListBySource(ctx context.Context, sourcePath string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, source_path, slug, title, order_index, snippet, created_at
		FROM chunks
		WHERE source_path = ?
		ORDER BY order_index`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list by source: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ChunkID, &r.SourcePath, &r.Slug, &r.Title, &r.OrderIndex, &r.Snippet, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
