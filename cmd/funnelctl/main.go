package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/funnel-report/internal/config"
	"github.com/AngelCh415/funnel-report/internal/ingest"
	"github.com/AngelCh415/funnel-report/internal/metrics"
	"github.com/AngelCh415/funnel-report/internal/models"
	"github.com/AngelCh415/funnel-report/internal/render"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "funnelctl",
		Short:         "Sales funnel cost and conversion report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := config.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})))
			return nil
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(reportCmd(v), versionCmd())
	return root
}

func reportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the report for a dataset file (or the built-in defaults)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := config.LoadDataset(v.GetString("dataset"))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cost-per-lead") {
				c := v.GetFloat64("cost-per-lead")
				if c < 0 {
					return fmt.Errorf("%w: cost-per-lead must be >= 0", ingest.ErrInvalid)
				}
				ds.CostPerLead = c
			}
			rep := metrics.NewEngine(slog.Default(), nil).Report(ds)
			return writeReport(cmd.OutOrStdout(), v.GetString("format"), rep)
		},
	}
	cmd.Flags().String("dataset", "", "YAML/JSON dataset file (stages, cost_per_lead, regions)")
	cmd.Flags().Float64("cost-per-lead", config.DefaultCostPerLead, "override cost per lead")
	cmd.Flags().String("format", "table", "output format (table, json, xlsx)")
	_ = v.BindPFlag("dataset", cmd.Flags().Lookup("dataset"))
	_ = v.BindPFlag("cost-per-lead", cmd.Flags().Lookup("cost-per-lead"))
	_ = v.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func writeReport(w io.Writer, format string, rep models.Report) error {
	switch format {
	case "table":
		_, err := io.WriteString(w, render.Text(rep))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", " ")
		return enc.Encode(rep)
	case "xlsx":
		return render.Workbook(w, rep)
	}
	return fmt.Errorf("unknown format %q", format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "funnelctl", version)
		},
	}
}
