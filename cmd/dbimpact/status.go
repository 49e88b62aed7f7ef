package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dbimpact/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show metadata store statistics",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	root := mustGetWorkspaceRoot()
	logger := newLogger("human", nil)
	cfg := mustLoadConfig(root, logger)

	dbPath := filepath.Join(root, cfg.Store.DatabasePath)
	store, err := storage.Open(dbPath, logger)
	if err != nil {
		exitWithError(err)
	}
	defer store.Close()

	ctx, cancel := newAnalysisContext(cfg)
	defer cancel()

	entities, dependencies, err := store.Stats(ctx)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Store: %s\n", dbPath)
	fmt.Printf("Entities: %d\n", entities)
	fmt.Printf("Dependencies: %d\n", dependencies)
	if cfg.Store.RowsFile != "" {
		fmt.Printf("Rows file override: %s\n", cfg.Store.RowsFile)
	}
	if cfg.Store.CatalogFile != "" {
		fmt.Printf("Entity catalog: %s\n", cfg.Store.CatalogFile)
	}
}
