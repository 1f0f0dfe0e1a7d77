package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/analytics"
	"github.com/yangwenmai/bis/internal/seed"
	"github.com/yangwenmai/bis/internal/ui"
)

var (
	chartsOut  string
	chartsBins int
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the analytics charts of the seed to HTML",
	Args:  cobra.NoArgs,
	RunE:  runCharts,
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsOut, "out", "o", "bis-charts.html", `Output file ("-" for stdout)`)
	chartsCmd.Flags().IntVar(&chartsBins, "bins", analytics.DefaultBins, "Histogram buckets over [0,100]")
}

func runCharts(cmd *cobra.Command, args []string) error {
	if chartsBins < 1 || chartsBins > 100 {
		return fmt.Errorf("--bins must be in [1,100]")
	}
	assets, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return err
	}
	report := analytics.Build(assets, chartsBins)
	if report.Empty() {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatInfo(analytics.NoDataMessage))
	}

	var w io.Writer = cmd.OutOrStdout()
	if chartsOut != "-" {
		f, err := os.Create(chartsOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := analytics.Render(w, report); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	logger.Debug("charts rendered", zap.String("out", chartsOut), zap.Int("assets", report.Total))
	if chartsOut != "-" {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess(fmt.Sprintf("Wrote %s (%d assets)", chartsOut, report.Total)))
	}
	return nil
}
