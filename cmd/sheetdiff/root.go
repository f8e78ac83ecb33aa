package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/TFMV/sheetdiff/config"
	"github.com/TFMV/sheetdiff/logger"
	"github.com/TFMV/sheetdiff/pipeline"
	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/pkg/writers"
	"github.com/TFMV/sheetdiff/report"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCommand creates the root command, which runs the comparison itself.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetdiff [flags] FILE_A FILE_B",
		Short: "Compare two spreadsheets row by row and cell by cell",
		Long: `sheetdiff compares a baseline spreadsheet (FILE_A) with a newer one (FILE_B).

Rows are matched on the --key columns, or on their position when no key is
given. It reports rows only in A, rows only in B and rows whose cells changed,
and can write the full detail to a workbook with the tabs Deleted_rows,
Added_rows and Modified_cells.

Inputs may be xlsx, csv, parquet or arrow files.`,
		Example: `  sheetdiff old.xlsx new.xlsx --key id
  sheetdiff old.xlsx new.xlsx --sheet Orders --key order,line --out diff.xlsx
  sheetdiff old.csv new.xlsx --key id --report summary.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected FILE_A and FILE_B, got %d argument(s)", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runDiff(cmd, args[0], args[1], cfg)
		},
	}

	cmd.PersistentFlags().String("config", "", "YAML config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress and print modified cells per column")

	cmd.Flags().String("sheet", "", "Sheet name or 0-based index (default: first sheet)")
	cmd.Flags().StringSlice("key", nil, "Column(s) that uniquely identify a row; repeat or separate with commas")
	cmd.Flags().String("out", "", "Write Deleted_rows, Added_rows and Modified_cells to this file (.xlsx or .json)")
	cmd.Flags().StringSlice("ignore", nil, "Columns left out of the comparison")
	cmd.Flags().Bool("strict-empty", false, "Treat empty cells and empty strings as different")
	cmd.Flags().Bool("trim", false, "Trim surrounding whitespace before comparing")
	cmd.Flags().String("report", "", "Write a summary report (.json or .html)")
	cmd.Flags().String("type-a", "", "Reader type of FILE_A (xlsx, csv, parquet, arrow); detected when empty")
	cmd.Flags().String("type-b", "", "Reader type of FILE_B (xlsx, csv, parquet, arrow); detected when empty")
	cmd.Flags().Bool("progress", false, "Show a spinner on stderr")

	cmd.AddCommand(newServeCommand(), newVersionCommand())
	return cmd
}

// loadConfig loads and validates the configuration of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger sets up the shared logger for one command run.
func initLogger(cfg *config.Config) *zap.Logger {
	logger.SetLogPath(cfg.Log.File)
	logger.InitLogger()
	logger.SetLevel(cfg.LogLevel())
	return logger.GetLogger()
}

// runDiff executes the comparison of pathA and pathB.
func runDiff(cmd *cobra.Command, pathA, pathB string, cfg *config.Config) error {
	log := initLogger(cfg)
	defer logger.Sync()

	// Set up context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := pipeline.Request{
		PathA:   pathA,
		PathB:   pathB,
		TypeA:   cfg.TypeA,
		TypeB:   cfg.TypeB,
		Sheet:   cfg.Sheet,
		Options: cfg.DiffOptions(),
	}

	var spin *spinner.Spinner
	if cfg.Progress {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		req.OnStage = func(stage string) {
			spin.Lock()
			spin.Suffix = " " + stage
			spin.Unlock()
		}
		spin.Start()
	}

	start := time.Now()
	outcome, err := pipeline.Run(ctx, req, log)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	console := report.NewConsole(cmd.OutOrStdout(), cfg.Verbose)
	console.Columns(outcome.TableA)
	console.Columns(outcome.TableB)
	console.Summary(pathA, pathB, outcome.Result)

	outPath, err := writeDetail(ctx, outcome.Result, cfg.Out)
	if err != nil {
		return err
	}
	if outPath != "" {
		console.Written(outPath)
	}

	if cfg.Report != "" {
		run := report.NewRun(outcome.TableA, outcome.TableB, outcome.Result, start)
		run.Output = outPath
		if err := report.SaveReport(run, cfg.Report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		log.Info("report saved", zap.String("path", cfg.Report))
	}
	return nil
}

// writeDetail writes the result sections to out and returns its absolute
// path, or "" when out is empty.
func writeDetail(ctx context.Context, result *core.DiffResult, out string) (string, error) {
	if out == "" {
		return "", nil
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", out, err)
	}
	if err := report.Export(ctx, writers.DefaultFactory, core.WriterConfig{Path: abs}, result); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return abs, nil
}
