package main

import (
	"github.com/spf13/cobra"
	reporttui "github.com/wader/respect/internal/report/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Lint once and browse the findings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runLintOnce()
		if err != nil {
			return err
		}
		return reporttui.Run(res)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
