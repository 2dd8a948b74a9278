package main

import (
	"github.com/spf13/cobra"

	"digital-nose/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Interactive terminal dashboard",
	RunE:  runDashCommand,
}

func runDashCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.TrainAndEvaluate(cmd.Context()); err != nil {
		return err
	}
	return tui.Run(a)
}
