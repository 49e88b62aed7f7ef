package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dbimpact/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <type>:<id>",
	Short: "Analyze an entity and write a replayable audit bundle",
	Long: `Run a full impact analysis and persist the result, the verdict, and the
scoring policy snapshot as a compressed audit bundle.

The bundle carries everything needed to re-derive every score later, even
after the live scoring tables change.

Examples:
  dbimpact export table:orders --change=delete
  dbimpact export view:daily_sales --rows=deps.yaml --max-depth=3`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&analyzeChange, "change", "modify", "Change type (create, modify, delete)")
	exportCmd.Flags().IntVar(&analyzeMaxDepth, "max-depth", 0, "Maximum traversal depth (default from config)")
	exportCmd.Flags().IntVar(&analyzeMaxPaths, "max-paths", 0, "Maximum paths to enumerate (default from config)")
	exportCmd.Flags().StringVar(&analyzeRowsFile, "rows", "", "YAML dependency rows file (overrides the metadata store)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	start := time.Now()
	root := mustGetWorkspaceRoot()
	logger := newLogger("human", nil)
	cfg := mustLoadConfig(root, logger)
	logger = newLogger("human", cfg)

	result, v, err := runAnalysis(root, cfg, args[0], logger)
	if err != nil {
		exitWithError(err)
	}

	exporter := export.NewExporter(filepath.Join(root, cfg.Export.Directory), cfg.Export.CompressionLevel)
	runId, path, err := exporter.Export(result, v)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Audit bundle written: %s\n", path)
	fmt.Printf("Run id: %s\n", runId)

	logger.Debug("Audit export completed", map[string]interface{}{
		"runId":    runId,
		"paths":    len(result.DependencyPaths),
		"duration": time.Since(start).Milliseconds(),
	})
}
