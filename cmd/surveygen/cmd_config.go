package main

import (
	"fmt"
	"os"

	"survey-gen/internal/domain"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage generation config files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a generation config YAML with the default answers",
	Long: `Writes the default answers of the configuration step to a YAML file.
Edit it and pass it to "outline", "generate" or "wizard --from".`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	defaults := domain.DefaultGenerationConfig()
	if err := wizard.SaveGenerationConfig(path, &defaults); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
