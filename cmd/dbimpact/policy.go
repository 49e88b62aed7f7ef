package main

import (
	"os"

	"github.com/spf13/cobra"

	"dbimpact/internal/impact"
	"dbimpact/internal/output"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the active scoring policy snapshot",
	Long: `Print the scoring policy as JSON: dependency-type weights, change-type
multipliers, depth decay constants, and the criticality scale.

This is the same snapshot embedded in every analysis result and audit
bundle, so the output can be diffed against a recorded run to confirm the
policy has not drifted.`,
	Run: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) {
	snapshot := impact.NewEvaluator().Snapshot()
	data, err := output.EncodeJSON(snapshot)
	if err != nil {
		exitWithError(err)
	}
	os.Stdout.Write(data)
}
