package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"digital-nose/internal/app"
	"digital-nose/internal/mqtt"
	"digital-nose/pkg/config"
)

var bridgeInterval time.Duration

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge captures to an MQTT broker",
	Long: `Connects to the configured MQTT broker, serves capture requests on the
request topic, and publishes every report to the per-profile report topic.

With --interval set, the bridge also captures each profile in rotation on a
timer and publishes the resulting reports as live telemetry.

Examples:
  nose bridge                  # Serve capture requests only
  nose bridge --interval 10s   # Also publish a report every 10 seconds`,
	RunE: runBridgeCommand,
}

func init() {
	bridgeCmd.Flags().DurationVar(&bridgeInterval, "interval", 0,
		"Publish a telemetry report every interval (0 disables)")
}

func runBridgeCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.TrainAndEvaluate(cmd.Context()); err != nil {
		return err
	}

	log.Println("Connecting to MQTT broker...")
	client, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	publisher := mqtt.NewReportPublisher(client.NativeClient(), mqtt.PublisherConfig{
		ReportTopic: cfg.MQTTTopicReport,
	})
	go publisher.Start(ctx)

	subscriber := mqtt.NewCaptureSubscriber(client.NativeClient(), mqtt.SubscriberConfig{
		RequestTopic:  cfg.MQTTTopicCaptureReq,
		ResponseTopic: cfg.MQTTTopicCaptureResp,
	}, a.CaptureSample, publisher.ReportChan)
	if err := subscriber.Subscribe(); err != nil {
		return err
	}

	if bridgeInterval > 0 {
		go telemetryLoop(ctx, a, publisher, bridgeInterval)
	}

	log.Println("=== Digital Nose MQTT bridge is running ===")
	log.Printf("  - Capture requests:  %s", cfg.MQTTTopicCaptureReq)
	log.Printf("  - Capture responses: %s", cfg.MQTTTopicCaptureResp)
	log.Printf("  - Reports:           %s", cfg.MQTTTopicReport)
	log.Println("Press Ctrl+C to exit...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, stopping bridge...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	return nil
}

// telemetryLoop captures each profile in rotation and feeds the reports to
// the publisher until the context is cancelled.
func telemetryLoop(ctx context.Context, a *app.App, publisher *mqtt.ReportPublisher, interval time.Duration) {
	log.Printf("Telemetry: Publishing a report every %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	profiles := a.Profiles()
	next := 0
	for {
		select {
		case <-ctx.Done():
			log.Println("Telemetry: Shutting down...")
			return
		case <-ticker.C:
			profile := profiles[next%len(profiles)]
			next++

			_, rep, err := a.CaptureSample(profile.Name)
			if err != nil {
				log.Printf("Telemetry: Capture failed for %s: %v", profile.Name, err)
				continue
			}

			msg := &mqtt.ReportMessage{
				CaptureID: uuid.NewString(),
				Profile:   profile.Name,
				Report:    rep.Doc(),
			}
			select {
			case publisher.ReportChan <- msg:
			default:
				log.Printf("Telemetry: Report channel full, dropping report for %s", profile.Name)
			}
		}
	}
}
