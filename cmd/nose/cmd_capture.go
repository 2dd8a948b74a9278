package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"digital-nose/internal/scent"
)

var (
	captureProfile string
	captureCount   int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Simulate a live scent capture and classify it",
	Long: `Trains the classifier (generating the dataset first if needed), then
simulates one or more live captures for a profile and prints the report.

Examples:
  nose capture                     # Random profile, one capture
  nose capture -p citrus           # Specific profile
  nose capture -p woody --count 3  # Several captures in a row`,
	RunE: runCaptureCommand,
}

func init() {
	captureCmd.Flags().StringVarP(&captureProfile, "profile", "p", "",
		"Scent profile to capture (default: random)")
	captureCmd.Flags().IntVar(&captureCount, "count", 1,
		"Number of captures to simulate")
}

func runCaptureCommand(cmd *cobra.Command, args []string) error {
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

	profileName := captureProfile
	if profileName == "" {
		profiles := a.Profiles()
		profileName = profiles[rand.Intn(len(profiles))].Name
	} else if _, err := scent.ProfileByName(a.Profiles(), profileName); err != nil {
		return err
	}

	for i := 0; i < captureCount; i++ {
		_, rep, err := a.CaptureSample(profileName)
		if err != nil {
			return err
		}
		fmt.Println(renderReport(profileName, rep))
	}
	return nil
}
