package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/batch"
	"github.com/standort-labs/standort-cli/internal/portfolio"
	"github.com/standort-labs/standort-cli/internal/report"
)

var scoreCmd = &cobra.Command{
	Use:   "score <portfolio-file>",
	Short: "Score every company in a portfolio document",
	Long:  "Resolves each region, looks up the nearest transit stop, motorway ramp, and parking per company, applies the rubric, and writes an xlsx workbook with one sheet per company.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		outputDir, _ := cmd.Flags().GetString("output")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		save, _ := cmd.Flags().GetBool("save")
		format, _ := cmd.Flags().GetString("format")
		noReport, _ := cmd.Flags().GetBool("no-report")

		if format != "table" && format != "csv" {
			return eris.Errorf("score: unknown format %q (need table or csv)", format)
		}

		p, err := portfolio.Load(args[0])
		if err != nil {
			return err
		}

		runner, err := buildRunner(ctx, concurrency)
		if err != nil {
			return err
		}

		run, err := runner.Run(ctx, p)
		if err != nil {
			return err
		}

		reportPath := ""
		if !noReport && run.Processed() > 0 {
			reportPath, err = report.WriteWorkbook(run, outputDir)
			if err != nil {
				return err
			}
		}

		if save {
			if err := persistRun(cmd, run, reportPath); err != nil {
				return err
			}
		}

		switch format {
		case "csv":
			if err := report.WriteCSV(os.Stdout, run); err != nil {
				return eris.Wrap(err, "score: write csv")
			}
		default:
			report.WriteTable(os.Stdout, run)
			report.WriteSummary(os.Stdout, run)
		}

		if run.Processed() == 0 {
			return eris.New("score: no companies could be scored")
		}
		return nil
	},
}

func persistRun(cmd *cobra.Command, run *batch.RunResult, reportPath string) error {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	if err := st.CreateRun(ctx, run.RunID, run.StartedAt); err != nil {
		return err
	}
	if err := st.CompleteRun(ctx, run, reportPath); err != nil {
		return err
	}
	zap.L().Info("score: run persisted", zap.String("run_id", run.RunID))
	return nil
}

func init() {
	scoreCmd.Flags().String("output", ".", "directory for the xlsx workbook")
	scoreCmd.Flags().Int("concurrency", 0, "parallel company lookups (default from config)")
	scoreCmd.Flags().Bool("save", false, "persist the run to the history store")
	scoreCmd.Flags().String("format", "table", "console output format (table or csv)")
	scoreCmd.Flags().Bool("no-report", false, "skip writing the xlsx workbook")
	rootCmd.AddCommand(scoreCmd)
}
