package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dbimpact/internal/config"
	"dbimpact/internal/errors"
	"dbimpact/internal/logging"
	"dbimpact/internal/storage"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dbimpact configuration",
	Long:  "Creates a .dbimpact/ directory with default configuration in the current workspace",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .dbimpact directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	root, err := getWorkspaceRoot()
	if err != nil {
		return errors.Wrap(errors.InternalError, "getting current directory", err)
	}

	configDir := filepath.Join(root, ".dbimpact")
	if _, statErr := os.Stat(configDir); statErr == nil {
		if !initForce {
			// Idempotent: already initialized is success
			fmt.Println("dbimpact already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(configDir, "config.json"))
			fmt.Println("\nRun 'dbimpact init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(configDir); removeErr != nil {
			return errors.Wrap(errors.InternalError, "removing existing .dbimpact directory", removeErr)
		}
		logger.Info("Removed existing .dbimpact directory", nil)
	}

	if mkdirErr := os.MkdirAll(configDir, 0755); mkdirErr != nil {
		return errors.Wrap(errors.InternalError, "creating .dbimpact directory", mkdirErr)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(root); err != nil {
		return err
	}

	// Create the empty metadata store so status and analyze work right away.
	store, err := storage.Open(filepath.Join(root, cfg.Store.DatabasePath), logger)
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	logger.Info("dbimpact initialized", map[string]interface{}{
		"config_path": filepath.Join(configDir, "config.json"),
		"store_path":  cfg.Store.DatabasePath,
	})

	fmt.Println("dbimpact initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(configDir, "config.json"))
	fmt.Println("\nNext: load dependency rows with 'dbimpact import <rows.yaml>'")
	return nil
}
