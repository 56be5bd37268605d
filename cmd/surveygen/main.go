package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-gen/internal/app"
	"survey-gen/internal/config"
	"survey-gen/internal/logger"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	interfaceLang string
	verbose       bool
	timeout       time.Duration

	// Loaded by PersistentPreRunE.
	cfg *config.Config
)

var errIssuesFound = errors.New("consistency issues found")

var rootCmd = &cobra.Command{
	Use:   "surveygen",
	Short: "Guided survey authoring backed by a language model",
	Long: `surveygen walks through the configuration of a questionnaire, asks a
language model for an outline and then for the full survey, checks the
conditional logic of the result and exports it to JSON, Excel or CSV.

Run without arguments to start the interactive wizard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logger.Level = "debug"
		}
		if err := logger.Initialize(loaded.Logger); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runWizard,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (default: ./, ./config, ./configs)")
	rootCmd.PersistentFlags().StringVarP(&interfaceLang, "lang", "l", "", "Interface language (English, Français, Español, العربية)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute, "Overall operation timeout")

	registerWizardFlags(rootCmd)
	registerWizardFlags(wizardCmd)
	outlineCmd.Flags().StringVar(&generationFile, "config-file", "", "Generation config YAML (default: built-in defaults)")
	outlineCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the outline to this file instead of stdout")
	generateCmd.Flags().StringVar(&generationFile, "config-file", "", "Generation config YAML (default: built-in defaults)")
	generateCmd.Flags().StringVar(&outlineFile, "outline-file", "", "File holding the (edited) outline")
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Export the survey to this file")
	generateCmd.Flags().StringVarP(&formatName, "format", "f", "json", "Export format: json, xlsx or csv")
	_ = generateCmd.MarkFlagRequired("outline-file")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVarP(&formatName, "format", "f", "json", "Export format: json, xlsx or csv")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of surveys to list")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "", "Print the survey in this export format instead of the report")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errIssuesFound) && !errors.Is(err, wizard.ErrAborted) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// commandContext applies --timeout and cancels on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func currentConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig(configPath)
}

func buildApp(ctx context.Context, offline bool) (*app.App, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, c, app.Options{InterfaceLanguage: interfaceLang, Offline: offline})
}
