// Package storage provides concrete metadata repositories: a SQLite store
// and a YAML rows file. Both supply raw dependency rows to the analyzer;
// neither is consulted by the engine after the initial fetch.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"dbimpact/internal/errors"
	"dbimpact/internal/graph"
	"dbimpact/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
    entity_type  TEXT NOT NULL,
    entity_id    TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    criticality  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (entity_type, entity_id)
);

CREATE TABLE IF NOT EXISTS dependencies (
    rowid_seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    source_type      TEXT NOT NULL,
    source_id        TEXT NOT NULL,
    target_type      TEXT NOT NULL,
    target_id        TEXT NOT NULL,
    dependency_type  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dependencies_source
    ON dependencies (source_type, source_id);
`

// Store is a SQLite-backed metadata repository.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	path   string
}

// Open opens or creates the SQLite metadata store at path, creating parent
// directories and the schema as needed.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.RepoUnavailable, "creating store directory", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.RepoUnavailable, "opening metadata store", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.Wrap(errors.RepoUnavailable, "setting pragma", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.RepoUnavailable, "initializing schema", err)
	}

	logger.Debug("metadata store open", map[string]interface{}{"path": path})
	return &Store{conn: conn, logger: logger, path: path}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// ImportRows replaces the store contents with the given rows, in one
// transaction. Entity criticality is taken from the first row that supplies
// an explicit value.
func (s *Store) ImportRows(ctx context.Context, rows []graph.DependencyRow) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.RepoUnavailable, "starting import transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM dependencies"); err != nil {
		return errors.Wrap(errors.RepoUnavailable, "clearing dependencies", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM entities"); err != nil {
		return errors.Wrap(errors.RepoUnavailable, "clearing entities", err)
	}

	upsertEntity := `
INSERT INTO entities (entity_type, entity_id, name, criticality)
VALUES (?, ?, ?, ?)
ON CONFLICT (entity_type, entity_id) DO UPDATE SET
    name = CASE WHEN excluded.name != '' THEN excluded.name ELSE entities.name END,
    criticality = CASE WHEN entities.criticality = 0 THEN excluded.criticality ELSE entities.criticality END`

	insertDep := `
INSERT INTO dependencies (source_type, source_id, target_type, target_id, dependency_type)
VALUES (?, ?, ?, ?, ?)`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, upsertEntity,
			row.SourceType, row.SourceId, row.SourceName, row.SourceCriticality); err != nil {
			return errors.Wrap(errors.RepoUnavailable, "importing source entity", err)
		}
		if _, err := tx.ExecContext(ctx, upsertEntity,
			row.TargetType, row.TargetId, row.TargetName, row.TargetCriticality); err != nil {
			return errors.Wrap(errors.RepoUnavailable, "importing target entity", err)
		}
		if _, err := tx.ExecContext(ctx, insertDep,
			row.SourceType, row.SourceId, row.TargetType, row.TargetId, row.DependencyType); err != nil {
			return errors.Wrap(errors.RepoUnavailable, "importing dependency", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.RepoUnavailable, "committing import", err)
	}
	s.logger.Info("dependency rows imported", map[string]interface{}{"rows": len(rows)})
	return nil
}

// DependencyRows returns every dependency row joined with entity names and
// criticality. Implements impact.MetadataRepository; honors ctx deadlines.
func (s *Store) DependencyRows(ctx context.Context) ([]graph.DependencyRow, error) {
	query := `
SELECT d.source_type, d.source_id, COALESCE(se.name, ''), COALESCE(se.criticality, 0),
       d.target_type, d.target_id, COALESCE(te.name, ''), COALESCE(te.criticality, 0),
       d.dependency_type
FROM dependencies d
LEFT JOIN entities se ON se.entity_type = d.source_type AND se.entity_id = d.source_id
LEFT JOIN entities te ON te.entity_type = d.target_type AND te.entity_id = d.target_id
ORDER BY d.rowid_seq`

	dbRows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.RepoUnavailable, "querying dependency rows", err)
	}
	defer dbRows.Close()

	var rows []graph.DependencyRow
	for dbRows.Next() {
		var r graph.DependencyRow
		if err := dbRows.Scan(
			&r.SourceType, &r.SourceId, &r.SourceName, &r.SourceCriticality,
			&r.TargetType, &r.TargetId, &r.TargetName, &r.TargetCriticality,
			&r.DependencyType); err != nil {
			return nil, errors.Wrap(errors.StoreCorrupt, "scanning dependency row", err)
		}
		rows = append(rows, r)
	}
	if err := dbRows.Err(); err != nil {
		return nil, errors.Wrap(errors.RepoUnavailable, "iterating dependency rows", err)
	}
	return rows, nil
}

// SetCriticality records an explicit criticality for an entity, creating it
// if it is not yet known.
func (s *Store) SetCriticality(ctx context.Context, entityType, entityId string, criticality int) error {
	if criticality < 1 || criticality > 5 {
		return errors.Newf(errors.StoreCorrupt, "criticality %d outside 1-5", criticality)
	}
	_, err := s.conn.ExecContext(ctx, `
INSERT INTO entities (entity_type, entity_id, criticality)
VALUES (?, ?, ?)
ON CONFLICT (entity_type, entity_id) DO UPDATE SET criticality = excluded.criticality`,
		entityType, entityId, criticality)
	if err != nil {
		return errors.Wrap(errors.RepoUnavailable, "setting criticality", err)
	}
	return nil
}

// Stats returns row counts for diagnostics.
func (s *Store) Stats(ctx context.Context) (entities, dependencies int, err error) {
	if err = s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&entities); err != nil {
		return 0, 0, fmt.Errorf("counting entities: %w", err)
	}
	if err = s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM dependencies").Scan(&dependencies); err != nil {
		return 0, 0, fmt.Errorf("counting dependencies: %w", err)
	}
	return entities, dependencies, nil
}
