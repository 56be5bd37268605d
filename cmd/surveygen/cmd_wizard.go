package main

import (
	"errors"
	"fmt"

	"survey-gen/internal/logger"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile  string
	exportDir string
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive four-step survey wizard",
	Long: `Steps:
  1. Configure the survey (skipped with --from)
  2. Generate an outline
  3. Review and edit the outline
  4. Generate the survey, review its consistency report and export it`,
	Args: cobra.NoArgs,
	RunE: runWizard,
}

func registerWizardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&seedFile, "from", "", "Start from a saved generation config YAML and skip step 1")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "Default directory offered for exports")
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	session := &wizard.Session{}
	if seedFile != "" {
		seed, err := wizard.LoadGenerationConfig(seedFile)
		if err != nil {
			return err
		}
		if errs := a.Validator.ValidateGenerationConfig(seed); len(errs) > 0 {
			return fmt.Errorf("%s: %w", seedFile, errs)
		}
		session.SaveConfig(*seed)
	}

	w := wizard.New(
		wizard.NewTerminalDriver(cmd.OutOrStdout()),
		a.Service,
		a.Validator,
		a.Catalog,
		wizard.WithSession(session),
		wizard.WithExportDir(exportDir),
		wizard.WithLogger(logger.Get()),
	)
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, wizard.ErrAborted) {
			logger.Get().Info("Wizard aborted by user")
		} else {
			logger.Get().Error("Wizard stopped", zap.Error(err))
		}
		return err
	}
	return nil
}
