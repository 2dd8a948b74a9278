package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datasetForce bool

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Ensure the labeled training dataset exists",
	Long: `Makes sure a labeled dataset is persisted in the configured store,
generating one from the sensor simulator if absent.

Examples:
  nose dataset           # Generate only if missing
  nose dataset --force   # Regenerate from scratch`,
	RunE: runDatasetCommand,
}

func init() {
	datasetCmd.Flags().BoolVar(&datasetForce, "force", false,
		"Regenerate the dataset even if one already exists")
}

func runDatasetCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.EnsureDataset(cmd.Context(), datasetForce)
	if err != nil {
		return err
	}

	fmt.Printf("Dataset ready: %d rows, %d classes (%v)\n",
		len(data), len(data.Labels()), data.Labels())
	return nil
}
