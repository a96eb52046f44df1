package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"aicheck/internal/config"
	"aicheck/internal/paths"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long:  "Creates .aicheck/config.json with the default settings in the project root",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := getRepoRoot()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(paths.ConfigDir(root), "config.json")
	if _, statErr := os.Stat(cfgPath); statErr == nil && !initForce {
		// already initialized is success
		fmt.Fprintf(cmd.OutOrStdout(), "aicheck already initialized.\nConfiguration at: %s\n", cfgPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'aicheck init --force' to overwrite.")
		return nil
	}

	if err := config.DefaultConfig().Save(root); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", cfgPath)
	return nil
}
