package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier and print holdout metrics",
	RunE:  runTrainCommand,
}

func runTrainCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	metrics, err := a.TrainAndEvaluate(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(renderMetrics(metrics))
	return nil
}
