package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/wizard"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	showFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored surveys, newest first (requires db.enabled)",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a stored survey with its consistency report",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	surveys, err := a.Service.ListSurveys(ctx, listLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLANGUAGE\tPROVIDER\tISSUES\tCREATED")
	for _, s := range surveys {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Title, s.Language, s.Provider, s.IssueCount, s.CreatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if showFormat != "" {
		format, err := export.ParseFormat(showFormat)
		if err != nil {
			return err
		}
		data, err := a.Service.ExportSurvey(ctx, args[0], format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	stored, err := a.Service.GetSurvey(ctx, args[0])
	if err != nil {
		return err
	}
	result := &domain.GenerationResult{
		ID:     stored.ID,
		Survey: stored.Survey,
		Issues: a.Validator.CheckConsistency(stored.Survey),
	}
	fmt.Fprint(cmd.OutOrStdout(), wizard.RenderSurvey(a.Catalog, result))
	return nil
}
