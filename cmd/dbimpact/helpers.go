package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dbimpact/internal/catalog"
	"dbimpact/internal/config"
	"dbimpact/internal/entity"
	"dbimpact/internal/errors"
	"dbimpact/internal/graph"
	"dbimpact/internal/impact"
	"dbimpact/internal/logging"
	"dbimpact/internal/storage"
)

// getWorkspaceRoot returns the workspace root directory.
func getWorkspaceRoot() (string, error) {
	return os.Getwd()
}

// mustGetWorkspaceRoot returns the workspace root or exits on error.
func mustGetWorkspaceRoot() string {
	root, err := getWorkspaceRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

// mustLoadConfig loads the workspace configuration or exits on error.
func mustLoadConfig(root string, logger *logging.Logger) *config.Config {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return config.DefaultConfig()
	}
	return cfg
}

// newLogger creates a logger matching the output format. Human-readable
// command output pairs with human logs; JSON output keeps logs on stderr
// as JSON so pipelines stay machine-parseable.
func newLogger(format string, cfg *config.Config) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	level := logging.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		level = logging.LogLevel(cfg.Logging.Level)
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  level,
	})
}

// newAnalysisContext returns a context bounded by the configured fetch
// timeout.
func newAnalysisContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Analysis.FetchTimeoutMs) * time.Millisecond
	return context.WithTimeout(context.Background(), timeout)
}

// parseEntityArg parses a <type>:<id> argument into an EntityRef.
func parseEntityArg(arg string) (entity.EntityRef, error) {
	typeStr, id, ok := strings.Cut(arg, ":")
	if !ok || id == "" {
		return entity.EntityRef{}, fmt.Errorf("expected <type>:<id>, got %q", arg)
	}
	entityType, err := entity.ParseEntityType(typeStr)
	if err != nil {
		return entity.EntityRef{}, err
	}
	return entity.EntityRef{Type: entityType, Id: id}, nil
}

// catalogRepository decorates a metadata repository with declared
// criticality overrides from the entity catalog.
type catalogRepository struct {
	inner impact.MetadataRepository
	cat   *catalog.Catalog
}

func (r *catalogRepository) DependencyRows(ctx context.Context) ([]graph.DependencyRow, error) {
	rows, err := r.inner.DependencyRows(ctx)
	if err != nil {
		return nil, err
	}
	return r.cat.ApplyOverrides(rows), nil
}

// openRepository builds the metadata repository for a command run. A rows
// file (flag or config) takes precedence over the SQLite store. The returned
// close function is a no-op for file-backed repositories.
func openRepository(root string, cfg *config.Config, rowsFile string, logger *logging.Logger) (impact.MetadataRepository, func() error, error) {
	var repo impact.MetadataRepository
	closer := func() error { return nil }

	if rowsFile == "" {
		rowsFile = cfg.Store.RowsFile
	}
	if rowsFile != "" {
		repo = storage.NewFileRepository(rowsFile)
	} else {
		store, err := storage.Open(filepath.Join(root, cfg.Store.DatabasePath), logger)
		if err != nil {
			return nil, nil, err
		}
		repo = store
		closer = store.Close
	}

	if cfg.Store.CatalogFile != "" {
		cat, err := catalog.Parse(filepath.Join(root, cfg.Store.CatalogFile))
		if err != nil {
			closer()
			return nil, nil, err
		}
		repo = &catalogRepository{inner: repo, cat: cat}
	}

	return repo, closer, nil
}

// exitWithError prints the error with a remediation hint when one exists,
// then exits.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if hint := errors.Hint(errors.CodeOf(err)); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}
