package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/client"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/store/postgres"
)

// reportSource is the read side of report storage. store.ReportStore
// satisfies it directly; remoteReports adapts a server client.
type reportSource interface {
	ListReports(ctx context.Context, filter model.ReportFilter) ([]*model.Report, int, error)
	GetReport(ctx context.Context, id string) (*model.Report, error)
	CodeStats(ctx context.Context) (map[model.Code]int, error)
	Close() error
}

type remoteReports struct {
	client.LintClient
}

func (r remoteReports) ListReports(ctx context.Context, filter model.ReportFilter) ([]*model.Report, int, error) {
	resp, err := r.LintClient.ListReports(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return resp.Reports, resp.Total, nil
}

func databaseURL() string {
	return envOrSetting("FLOWLINT_DATABASE_URL", settings.DatabaseURL)
}

// openReportSource prefers the server when --server is set and otherwise
// reads the database directly.
func openReportSource() (reportSource, error) {
	if c := remoteClient(); c != nil {
		return remoteReports{c}, nil
	}
	url := databaseURL()
	if url == "" {
		return nil, errors.New("no report backend: set --server or FLOWLINT_DATABASE_URL")
	}
	st, err := postgres.New(url)
	if err != nil {
		return nil, err
	}
	return st, nil
}

var reportsCmd = &cobra.Command{
	Use:     "reports",
	Short:   "List recorded lint reports",
	GroupID: "reports",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		invalid, _ := cmd.Flags().GetBool("invalid")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		src, err := openReportSource()
		if err != nil {
			return err
		}
		defer src.Close()

		reports, total, err := src.ListReports(cmd.Context(), model.ReportFilter{
			Mode:        mode,
			OnlyInvalid: invalid,
			Limit:       limit,
			Offset:      offset,
		})
		if err != nil {
			return fmt.Errorf("listing reports: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), client.ListReportsResponse{Reports: reports, Total: total})
		}
		printReportTable(cmd.OutOrStdout(), reports, total)
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one report with its diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openReportSource()
		if err != nil {
			return err
		}
		defer src.Close()

		r, err := src.GetReport(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting report %s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), r)
		}
		printReport(cmd.OutOrStdout(), r)
		return nil
	},
}

var reportsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count diagnostics by code across recorded reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openReportSource()
		if err != nil {
			return err
		}
		defer src.Close()

		stats, err := src.CodeStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"codes": stats})
		}
		printCodeStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports older than a cutoff (database only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return errors.New("--older-than must be positive")
		}
		url := databaseURL()
		if url == "" {
			return errors.New("prune requires FLOWLINT_DATABASE_URL")
		}
		st, err := postgres.New(url)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.DeleteReportsBefore(cmd.Context(), time.Now().Add(-olderThan))
		if err != nil {
			return fmt.Errorf("pruning reports: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": n})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d reports\n", n)
		return nil
	},
}

func init() {
	reportsCmd.Flags().String("mode", "", "only reports linted in this mode")
	reportsCmd.Flags().Bool("invalid", false, "only reports with errors")
	reportsCmd.Flags().Int("limit", 20, "maximum number of reports")
	reportsCmd.Flags().Int("offset", 0, "number of reports to skip")

	reportsPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete reports created before now minus this duration")

	reportsCmd.AddCommand(reportsShowCmd, reportsStatsCmd, reportsPruneCmd)
}
