// Package main provides the CLI entry point for isobench, a driver that
// runs the isometric rendering benchmark app on an Android device across
// the full configuration matrix and pulls the results CSV.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fabianterhorst/isobench/adb"
	"github.com/fabianterhorst/isobench/matrix"
	"github.com/fabianterhorst/isobench/orchestrator"
	"github.com/fabianterhorst/isobench/report"
	"github.com/spf13/cobra"
)

const (
	defaultPackage   = "io.fabianterhorst.isometric.benchmark"
	defaultComponent = defaultPackage + "/.BenchmarkActivity"
	defaultResults   = "/storage/emulated/0/Android/data/" +
		defaultPackage + "/files/benchmark_results.csv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "isobench",
		Short: "On-device isometric rendering benchmark driver",
		Long: `Isobench drives the isometric benchmark app on an attached Android
device. It launches every configuration in the benchmark matrix sequentially,
force-stopping and killing the app between runs, and finally pulls the
results CSV written by the app.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newPullCmd(logger))
	root.AddCommand(newListCmd())

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		serial      string
		adbPath     string
		pkg         string
		activity    string
		resultsPath string
		matrixPath  string
		output      string
		outputJSON  bool
		waitStable  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full benchmark matrix on the device",
		Long: `Run every configuration in the benchmark matrix sequentially. Each run
launches the benchmark activity with typed intent extras, waits out a fixed
run window, and stops and kills the app before the next run. After the last
configuration the results CSV is pulled from the device.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := loadMatrix(matrixPath)
			if err != nil {
				return err
			}

			bridge := adb.New(adbPath, serial, logger)
			orch := orchestrator.New(bridge, orchestrator.Options{
				Package:     pkg,
				Component:   activity,
				ResultsPath: resultsPath,
				WaitStable:  waitStable,
			}, logger)

			records, csv, err := orch.RunAll(cmd.Context(), configs)
			if err != nil {
				return err
			}

			summaryW := os.Stderr

			if output != "" {
				if err := os.WriteFile(output, csv, 0o644); err != nil {
					return fmt.Errorf("write results: %w", err)
				}

				logger.Info("results written", slog.String("path", output))

				summaryW = os.Stdout
			} else if _, err := os.Stdout.Write(csv); err != nil {
				return fmt.Errorf("write results: %w", err)
			}

			if outputJSON {
				return report.GenerateJSON(summaryW, records)
			}

			return report.Generate(summaryW, records)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&serial, "serial", "",
		"Device serial to target (adb -s); empty targets the only device")
	flags.StringVar(&adbPath, "adb", "adb",
		"Path to the adb binary")
	flags.StringVar(&pkg, "package", defaultPackage,
		"Package name of the benchmark app")
	flags.StringVar(&activity, "activity", defaultComponent,
		"Activity component to launch")
	flags.StringVar(&resultsPath, "results-path", defaultResults,
		"On-device path of the results CSV")
	flags.StringVar(&matrixPath, "matrix", "",
		"Path to a YAML matrix file (default: built-in 18-entry matrix)")
	flags.StringVar(&output, "output", "",
		"Write the retrieved CSV to this file instead of stdout")
	flags.BoolVar(&outputJSON, "json", false,
		"Output the run summary as JSON instead of a table")
	flags.BoolVar(&waitStable, "wait-stable", false,
		"Poll the result file for size stability instead of the fixed wait")

	return cmd
}

func newPullCmd(logger *slog.Logger) *cobra.Command {
	var (
		serial      string
		adbPath     string
		resultsPath string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Retrieve the results CSV without running anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bridge := adb.New(adbPath, serial, logger)

			csv, err := bridge.ReadFile(cmd.Context(), resultsPath)
			if err != nil {
				return fmt.Errorf("retrieve results: %w", err)
			}

			if output != "" {
				if err := os.WriteFile(output, csv, 0o644); err != nil {
					return fmt.Errorf("write results: %w", err)
				}

				logger.Info("results written", slog.String("path", output))

				return nil
			}

			_, err = os.Stdout.Write(csv)

			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&serial, "serial", "",
		"Device serial to target (adb -s); empty targets the only device")
	flags.StringVar(&adbPath, "adb", "adb",
		"Path to the adb binary")
	flags.StringVar(&resultsPath, "results-path", defaultResults,
		"On-device path of the results CSV")
	flags.StringVar(&output, "output", "",
		"Write the retrieved CSV to this file instead of stdout")

	return cmd
}

func newListCmd() *cobra.Command {
	var matrixPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective benchmark matrix",
		RunE: func(_ *cobra.Command, _ []string) error {
			configs, err := loadMatrix(matrixPath)
			if err != nil {
				return err
			}

			for i, cfg := range configs {
				fmt.Printf("%2d  %-28s size=%-5d scenario=%-13s prepared=%-5t draw=%t\n",
					i+1, cfg.Name, cfg.SceneSize, cfg.Scenario,
					cfg.PreparedCache, cfg.DrawCache,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&matrixPath, "matrix", "",
		"Path to a YAML matrix file (default: built-in 18-entry matrix)")

	return cmd
}

func loadMatrix(path string) ([]matrix.Config, error) {
	if path == "" {
		return matrix.Default(), nil
	}

	configs, err := matrix.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	return configs, nil
}
