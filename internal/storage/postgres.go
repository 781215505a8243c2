package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool      *pgxpool.Pool
	batchSize int
	ownsPool  bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store using an existing pgxpool.Pool.
// The caller owns the pool and is responsible for closing it.
func NewPostgresStore(pool *pgxpool.Pool, batchSize int) *PostgresStore {
	return newPostgresStore(pool, batchSize, false)
}

func newPostgresStore(pool *pgxpool.Pool, batchSize int, ownsPool bool) *PostgresStore {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PostgresStore{pool: pool, batchSize: batchSize, ownsPool: ownsPool}
}

// Close releases the pool when the store created it.
func (s *PostgresStore) Close() error {
	if s.ownsPool {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSchemaVersion); err != nil {
		return fmt.Errorf("postgres: create schema_version: %w", err)
	}

	rows, err := s.pool.Query(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return fmt.Errorf("postgres: read schema_version: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("postgres: read schema_version: %w", err)
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

func (s *PostgresStore) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin migration %s: %w", m.Version, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range m.Statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: apply migration %s: %w", m.Version, err)
		}
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_version (version) VALUES ($1)", m.Version); err != nil {
		return fmt.Errorf("postgres: record migration %s: %w", m.Version, err)
	}
	return tx.Commit(ctx)
}

const postgresUpsert = `
	INSERT INTO chunks (chunk_id, source_path, slug, title, order_index, snippet, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (chunk_id) DO UPDATE SET
		source_path = EXCLUDED.source_path,
		slug = EXCLUDED.slug,
		title = EXCLUDED.title,
		order_index = EXCLUDED.order_index,
		snippet = EXCLUDED.snippet,
		updated_at = NOW()`

func (s *PostgresStore) UpsertChunks(ctx context.Context, chunks []document.Chunk) (int, error) {
	written := 0
	for _, batch := range batches(chunks, s.batchSize) {
		if err := s.upsertBatch(ctx, batch); err != nil {
			return written, err
		}
		written += len(batch)
	}
	return written, nil
}

func (s *PostgresStore) upsertBatch(ctx context.Context, batch []document.Chunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	b := &pgx.Batch{}
	for _, c := range batch {
		r := recordFromChunk(c)
		b.Queue(postgresUpsert, r.ChunkID, r.SourcePath, r.Slug, r.Title, r.OrderIndex, r.Snippet)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) GetChunk(ctx context.Context, chunkID string) (*Record, error) {
	var r Record
	err := s.pool.QueryRow(ctx, `
		SELECT chunk_id, source_path, slug, title, order_index, snippet, created_at
		FROM chunks
		WHERE chunk_id = $1`, chunkID,
	).Scan(&r.ChunkID, &r.SourcePath, &r.Slug, &r.Title, &r.OrderIndex, &r.Snippet, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get chunk %s: %w", chunkID, err)
	}
	return &r, nil
}

func (s *PostgresStore) ListBySource(ctx context.Context, sourcePath string) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chunk_id, source_path, slug, title, order_index, snippet, created_at
		FROM chunks
		WHERE source_path = $1
		ORDER BY order_index`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("postgres: list by source: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ChunkID, &r.SourcePath, &r.Slug, &r.Title, &r.OrderIndex, &r.Snippet, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
