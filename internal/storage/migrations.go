package storage

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion is the version of the newest migration.
const CurrentSchemaVersion = "1.1.0"

// Migration is a schema change. Statements are portable between SQLite and
// PostgreSQL and run in order inside one transaction.
type Migration struct {
	Version    string
	Statements []string
}

// createSchemaVersion runs before any migration so applied versions can be read.
const createSchemaVersion = `CREATE TABLE IF NOT EXISTS schema_version (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// AllMigrations contains all schema migrations.
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS chunks (
				chunk_id    TEXT PRIMARY KEY,
				source_path TEXT NOT NULL,
				slug        TEXT NOT NULL,
				title       TEXT NOT NULL DEFAULT '',
				order_index INTEGER NOT NULL,
				snippet     TEXT NOT NULL,
				created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_chunks_source_path ON chunks(source_path)`,
			`CREATE INDEX IF NOT EXISTS idx_chunks_slug ON chunks(slug)`,
		},
	},
	{
		Version: "1.1.0",
		Statements: []string{
			`ALTER TABLE chunks ADD COLUMN updated_at TIMESTAMP`,
		},
	},
}

// pendingMigrations returns the migrations newer than every applied version,
// in ascending semver order.
func pendingMigrations(applied []string) ([]Migration, error) {
	current := semver.MustParse("0.0.0")
	for _, v := range applied {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			return nil, fmt.Errorf("invalid applied schema version %s: %w", v, err)
		}
		if parsed.GreaterThan(current) {
			current = parsed
		}
	}

	type versioned struct {
		version   *semver.Version
		migration Migration
	}
	var pending []versioned
	for _, m := range AllMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if current.LessThan(v) {
			pending = append(pending, versioned{version: v, migration: m})
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].version.LessThan(pending[j].version)
	})

	out := make([]Migration, len(pending))
	for i, p := range pending {
		out[i] = p.migration
	}
	return out, nil
}
