// Package commands adds estimator subcommands to the PocketBase CLI.
package commands

import (
	"fmt"
	"io"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"estimator/collections"
	"estimator/services"
)

// Register attaches the estimator commands to app's root command.
func Register(app *pocketbase.PocketBase, calc *services.Calculator) {
	app.RootCmd.AddCommand(
		NewRevenueCommand(app, calc),
		NewRecalcCommand(app, calc),
	)
}

// NewRevenueCommand prints the additional revenue recognized on fully paid
// projects.
func NewRevenueCommand(app *pocketbase.PocketBase, calc *services.Calculator) *cobra.Command {
	var year, start, end string

	cmd := &cobra.Command{
		Use:          "revenue",
		Short:        "Print markup and transportation revenue of fully paid projects",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := services.ParseRevenueFilter(year, start, end)
			if err != nil {
				return err
			}
			collections.Setup(app)

			_, projects, bad, err := collections.LoadProjects(app)
			if err != nil {
				return fmt.Errorf("revenue: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, err := range bad {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping unreadable project: %v\n", err)
			}
			printReport(out, f, calc.AdditionalRevenue(projects, f))
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "only projects starting in this year")
	cmd.Flags().StringVar(&start, "start", "", "only projects starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "only projects starting on or before this date (YYYY-MM-DD)")
	return cmd
}

func printReport(w io.Writer, f services.RevenueFilter, r services.RevenueReport) {
	rev := r.AdditionalRevenue.Rounded()
	fmt.Fprintf(w, "%-16s %s\n", "Filter:", f.Label())
	fmt.Fprintf(w, "%-16s %d considered, %d fully paid\n", "Projects:", r.Considered, r.ProjectCount)
	fmt.Fprintf(w, "%-16s %s\n", "Markup:", services.FormatCurrency(rev.Markup))
	fmt.Fprintf(w, "%-16s %s\n", "Transportation:", services.FormatCurrency(rev.Transportation))
	fmt.Fprintf(w, "%-16s %s\n", "Total:", services.FormatCurrency(rev.Total))
	for _, e := range r.Errors {
		fmt.Fprintf(w, "warning: %s\n", e.Message)
	}
}

// NewRecalcCommand upgrades legacy projects and rewrites stale totals
// snapshots.
func NewRecalcCommand(app *pocketbase.PocketBase, calc *services.Calculator) *cobra.Command {
	return &cobra.Command{
		Use:          "recalc",
		Short:        "Upgrade legacy projects and refresh stored totals",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)

			migrated, err := collections.MigrateLegacyProjects(app)
			if err != nil {
				return fmt.Errorf("recalc: %w", err)
			}
			refreshed, err := collections.RefreshSnapshots(app, calc)
			if err != nil {
				return fmt.Errorf("recalc: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d projects upgraded, %d snapshots refreshed\n", migrated, refreshed)
			return nil
		},
	}
}
