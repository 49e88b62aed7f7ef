package main

import (
	"dbimpact/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbimpact",
	Short: "dbimpact - database change impact analysis",
	Long: `dbimpact analyzes the downstream impact of changing a database entity
(table, view, stored procedure, or function). It builds a dependency graph
from extracted metadata, enumerates every dependency path reaching the
changed entity, scores each path, and synthesizes a reviewer-facing verdict
with an approval recommendation.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("dbimpact version {{.Version}}\n")
}
