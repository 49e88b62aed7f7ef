package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dbimpact/internal/config"
	"dbimpact/internal/entity"
	"dbimpact/internal/impact"
	"dbimpact/internal/logging"
	"dbimpact/internal/output"
	"dbimpact/internal/verdict"
)

var (
	analyzeChange   string
	analyzeMaxDepth int
	analyzeMaxPaths int
	analyzeRowsFile string
	analyzeFormat   string
	analyzeFull     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <type>:<id>",
	Short: "Analyze the impact of changing a database entity",
	Long: `Analyze the downstream impact of a proposed change to a database entity.

The entity is addressed as <type>:<id>, where type is one of table, view,
stored-procedure, or function.

Provides:
  - Every dependency path reaching the entity, with a risk score
  - Per-entity worst-case impact
  - An overall verdict with an approval recommendation

Examples:
  dbimpact analyze table:orders --change=delete
  dbimpact analyze view:daily_sales --change=modify --max-depth=3
  dbimpact analyze table:users --rows=deps.yaml --format=json
  dbimpact analyze stored-procedure:sp_close_books --full`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeChange, "change", "modify", "Change type (create, modify, delete)")
	analyzeCmd.Flags().IntVar(&analyzeMaxDepth, "max-depth", 0, "Maximum traversal depth (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxPaths, "max-paths", 0, "Maximum paths to enumerate (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeRowsFile, "rows", "", "YAML dependency rows file (overrides the metadata store)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	analyzeCmd.Flags().BoolVar(&analyzeFull, "full", false, "Emit the full result instead of the verdict")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	start := time.Now()
	root := mustGetWorkspaceRoot()
	logger := newLogger(analyzeFormat, nil)
	cfg := mustLoadConfig(root, logger)
	logger = newLogger(analyzeFormat, cfg)

	result, v, err := runAnalysis(root, cfg, args[0], logger)
	if err != nil {
		exitWithError(err)
	}

	switch analyzeFormat {
	case "json":
		var payload interface{} = v
		if analyzeFull {
			payload = result
		}
		data, err := output.EncodeJSON(payload)
		if err != nil {
			exitWithError(err)
		}
		os.Stdout.Write(data)
	default:
		if analyzeFull {
			output.WriteResultSummary(os.Stdout, result)
			fmt.Println()
		}
		output.WriteVerdict(os.Stdout, v)
	}

	logger.Debug("Impact analysis completed", map[string]interface{}{
		"root":     result.RootEntity.Key(),
		"paths":    len(result.DependencyPaths),
		"duration": time.Since(start).Milliseconds(),
	})
}

// runAnalysis performs a full analysis for an entity argument, shared by the
// analyze and export commands.
func runAnalysis(root string, cfg *config.Config, arg string, logger *logging.Logger) (*impact.ImpactResult, *verdict.ImpactVerdict, error) {
	rootEntity, err := parseEntityArg(arg)
	if err != nil {
		return nil, nil, err
	}
	change, err := entity.ParseChangeType(analyzeChange)
	if err != nil {
		return nil, nil, err
	}

	repo, closer, err := openRepository(root, cfg, analyzeRowsFile, logger)
	if err != nil {
		return nil, nil, err
	}
	defer closer()

	opts := impact.Options{
		MaxDepth: cfg.Analysis.MaxDepth,
		MaxPaths: cfg.Analysis.MaxPaths,
	}
	if analyzeMaxDepth > 0 {
		opts.MaxDepth = analyzeMaxDepth
	}
	if analyzeMaxPaths > 0 {
		opts.MaxPaths = analyzeMaxPaths
	}

	ctx, cancel := newAnalysisContext(cfg)
	defer cancel()

	analyzer := impact.NewAnalyzer(repo, logger)
	result, err := analyzer.Analyze(ctx, rootEntity, change, opts)
	if err != nil {
		return nil, nil, err
	}

	v := verdict.NewBuilder().Build(result)
	return result, &v, nil
}
