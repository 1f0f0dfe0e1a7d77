package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangwenmai/bis/internal/seed"
	"github.com/yangwenmai/bis/internal/ui"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed file utilities",
}

var seedCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := seed.Load(args[0])
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatError(err.Error()))
			return fmt.Errorf("seed %s is invalid", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess(fmt.Sprintf("%s: %d assets", args[0], len(assets))))
		return nil
	},
}
