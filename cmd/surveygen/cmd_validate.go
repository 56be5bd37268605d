package main

import (
	"fmt"
	"io"
	"os"

	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [survey.json]",
	Short: "Check the conditional logic of a survey document",
	Long: `Parses a survey JSON document and runs the consistency check on it.
Use "-" to read from stdin. Exits non-zero when issues are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var exportCmd = &cobra.Command{
	Use:   "export [survey.json]",
	Short: "Convert a survey document to JSON, Excel or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.ValidateSurvey(raw)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), wizard.RenderSurvey(a.Catalog, result))
	if len(result.Issues) > 0 {
		return errIssuesFound
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	survey, err := domain.ParseSurvey(raw)
	if err != nil {
		return err
	}
	if outPath == "" {
		return export.Write(cmd.OutOrStdout(), survey, format)
	}
	return export.ToFile(outPath, survey, format)
}
