package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/seed"
	"github.com/yangwenmai/bis/internal/store"
	"github.com/yangwenmai/bis/internal/ui"
)

var (
	listMinScore int
	listTypes    []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the pending review queue",
	Long: `Prints the seed's pending assets that pass the score threshold and
type filter, with each composite score coloured by band.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listMinScore, "min-score", 0, "Hide assets with a composite score below this (0-100)")
	listCmd.Flags().StringSliceVarP(&listTypes, "type", "t", nil, "Only show these asset types (repeatable; default: all)")
}

func runList(cmd *cobra.Command, args []string) error {
	if listMinScore < model.MinScore || listMinScore > model.MaxScore {
		return fmt.Errorf("--min-score must be in [%d,%d]", model.MinScore, model.MaxScore)
	}
	assets, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return err
	}
	s, err := store.New(assets)
	if err != nil {
		return err
	}

	types := listTypes
	if !cmd.Flags().Changed("type") {
		types = s.Types()
	}
	visible := s.Visible(listMinScore, types)

	out := cmd.OutOrStdout()
	c := s.Counts()
	fmt.Fprintln(out, ui.FormatTitle("Review Queue"))
	fmt.Fprintln(out, ui.Summary(c.Pending, c.Processed))
	fmt.Fprintln(out)
	if len(visible) == 0 {
		fmt.Fprintln(out, ui.FormatSuccess("All caught up! No assets match current filters."))
	} else {
		fmt.Fprint(out, ui.AssetTable(visible))
	}
	if hidden := c.Pending - len(visible); hidden > 0 && len(visible) > 0 {
		fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("%d of %d pending assets hidden by filters", hidden, c.Pending)))
	}
	return nil
}
