package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dbimpact/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <rows.yaml>",
	Short: "Load dependency rows into the metadata store",
	Long: `Load extracted dependency rows from a YAML file into the SQLite metadata
store, replacing any previously imported rows.

Examples:
  dbimpact import deps.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	start := time.Now()
	root := mustGetWorkspaceRoot()
	logger := newLogger("human", nil)
	cfg := mustLoadConfig(root, logger)
	logger = newLogger("human", cfg)

	rows, err := storage.LoadRowsFile(args[0])
	if err != nil {
		exitWithError(err)
	}

	store, err := storage.Open(filepath.Join(root, cfg.Store.DatabasePath), logger)
	if err != nil {
		exitWithError(err)
	}
	defer store.Close()

	ctx, cancel := newAnalysisContext(cfg)
	defer cancel()

	if err := store.ImportRows(ctx, rows); err != nil {
		exitWithError(err)
	}

	entities, dependencies, err := store.Stats(ctx)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Imported %d dependency rows (%d entities, %d edges)\n",
		len(rows), entities, dependencies)

	logger.Debug("Import completed", map[string]interface{}{
		"rows":     len(rows),
		"duration": time.Since(start).Milliseconds(),
	})
}
