package main

import (
	"fmt"
	"os"
	"strings"

	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/logger"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generationFile string
	outlineFile    string
	outPath        string
	formatName     string
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Generate a survey outline from a generation config",
	Long: `Asks the configured language model for a structured outline.
Edit the result and feed it back with "surveygen generate --outline-file".

Example:
  surveygen config init survey.yaml
  surveygen outline --config-file survey.yaml -o outline.txt`,
	Args: cobra.NoArgs,
	RunE: runOutline,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the full survey from a config and an outline",
	Long: `Generates the survey JSON, checks its conditional logic and prints the
report. With --out the survey is also exported in --format.

Exits non-zero when the consistency check reports issues.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// loadGenerationConfig reads --config-file, or the defaults when unset.
func loadGenerationConfig() (*domain.GenerationConfig, error) {
	if generationFile == "" {
		c := domain.DefaultGenerationConfig()
		return &c, nil
	}
	return wizard.LoadGenerationConfig(generationFile)
}

func runOutline(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	genCfg, err := loadGenerationConfig()
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	outline, err := a.Service.GenerateOutline(ctx, genCfg)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), outline)
		return err
	}
	if err := os.WriteFile(outPath, []byte(outline+"\n"), 0o644); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	logger.Get().Info("Outline written", zap.String("path", outPath))
	fmt.Fprintln(cmd.OutOrStdout(), a.Catalog.T("questions_generated"))
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	genCfg, err := loadGenerationConfig()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(outlineFile)
	if err != nil {
		return fmt.Errorf("read outline: %w", err)
	}
	outline := strings.TrimSpace(string(raw))

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.GenerateSurvey(ctx, genCfg, outline)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), wizard.RenderSurvey(a.Catalog, result))
	if result.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", result.ID)
	}

	if outPath != "" {
		if err := export.ToFile(outPath, result.Survey, format); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Catalog.Tf("export_success", outPath))
	}
	if len(result.Issues) > 0 {
		return errIssuesFound
	}
	return nil
}
