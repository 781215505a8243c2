// Package storage persists chunk metadata records for lookup by chunk ID or
// source document. SQLite and PostgreSQL backends share one schema.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultBatchSize is the number of records upserted per transaction.
const DefaultBatchSize = 10

// ErrNotFound is returned when a requested chunk doesn't exist.
var ErrNotFound = errors.New("not found")

// Record is the stored form of a chunk. Snippet holds the full chunk text.
type Record struct {
	ChunkID    string    `json:"chunk_id"`
	SourcePath string    `json:"source_path"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	OrderIndex int       `json:"order_index"`
	Snippet    string    `json:"snippet"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is implemented by each metadata backend.
type Store interface {
	// Init creates or migrates the schema. It is safe to call repeatedly.
	Init(ctx context.Context) error
	// UpsertChunks inserts or updates records keyed by chunk ID and returns
	// the number of records written.
	UpsertChunks(ctx context.Context, chunks []document.Chunk) (int, error)
	Count(ctx context.Context) (int, error)
	GetChunk(ctx context.Context, chunkID string) (*Record, error)
	// ListBySource returns the records of one source document ordered by
	// order index.
	ListBySource(ctx context.Context, sourcePath string) ([]Record, error)
	Close() error
}

// Open connects to the backend named by dsn and initializes its schema.
//
//	postgres://... or postgresql://...  PostgreSQL via pgxpool
//	sqlite:<path> or a bare path        SQLite
func Open(ctx context.Context, dsn string, batchSize int) (Store, error) {
	var store Store
	switch backend, target := ParseDSN(dsn); backend {
	case "postgres":
		pool, err := pgxpool.New(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("postgres: connect: %w", err)
		}
		store = newPostgresStore(pool, batchSize, true)
	default:
		if target != ":memory:" {
			if dir := filepath.Dir(target); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("create database dir: %w", err)
				}
			}
		}
		s, err := NewSQLiteStore(target, batchSize)
		if err != nil {
			return nil, err
		}
		store = s
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// ParseDSN returns the backend name ("postgres" or "sqlite") and the target
// passed to its driver.
func ParseDSN(dsn string) (backend, target string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite:")
	default:
		return "sqlite", dsn
	}
}

func recordFromChunk(c document.Chunk) Record {
	return Record{
		ChunkID:    c.ChunkID,
		SourcePath: c.SourcePath,
		Slug:       c.Slug,
		Title:      c.Title,
		OrderIndex: c.OrderIndex,
		Snippet:    c.Text,
	}
}

// batches splits chunks into consecutive groups of at most size records.
func batches(chunks []document.Chunk, size int) [][]document.Chunk {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]document.Chunk
	for i := 0; i < len(chunks); i += size {
		out = append(out, chunks[i:min(i+size, len(chunks))])
	}
	return out
}
