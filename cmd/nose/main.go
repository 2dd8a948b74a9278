// Command nose is the digital nose CLI: dataset management, training,
// simulated captures, and the web/MQTT/TUI front ends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"digital-nose/internal/app"
	"digital-nose/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "nose",
	Short: "Simulated multi-channel scent sensor with a trained classifier",
	Long: `Digital Nose simulates a multi-channel VOC sensor, trains a centroid
classifier on generated readings, and reports predictions with confidence
and intensity scores.

Examples:
  nose dataset             # Generate (or show) the training dataset
  nose train               # Train the classifier and print metrics
  nose capture -p citrus   # Simulate a live capture and classify it
  nose serve               # Start the JSON HTTP API
  nose bridge              # Bridge captures to an MQTT broker
  nose dash                # Interactive terminal dashboard`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(dashCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newApp builds the application context from the environment. Every
// subcommand goes through here; there is no shared global instance.
func newApp() (*app.App, error) {
	return app.New(config.Load())
}
