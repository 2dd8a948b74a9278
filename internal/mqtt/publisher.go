package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"digital-nose/internal/report"
)

// ReportMessage is one classified capture headed for the broker.
type ReportMessage struct {
	CaptureID string     `json:"capture_id"`
	Profile   string     `json:"profile"`
	Report    report.Doc `json:"report"`
}

// ReportPublisher drains a channel of report messages and publishes each to
// the per-profile report topic.
type ReportPublisher struct {
	client mqtt.Client

	// ReportChan is written by the bridge loop and the capture subscriber.
	ReportChan chan *ReportMessage

	reportTopic string // e.g. "nose/{profile}/report"
}

// PublisherConfig holds configuration for the report publisher.
type PublisherConfig struct {
	ReportTopic string // e.g. "nose/{profile}/report"
	ChannelSize int
}

// NewReportPublisher creates a publisher with its own buffered channel.
func NewReportPublisher(client mqtt.Client, config PublisherConfig) *ReportPublisher {
	size := config.ChannelSize
	if size <= 0 {
		size = 50
	}
	return &ReportPublisher{
		client:      client,
		ReportChan:  make(chan *ReportMessage, size),
		reportTopic: config.ReportTopic,
	}
}

// Start publishes report messages until the context is cancelled or the
// channel is closed.
func (p *ReportPublisher) Start(ctx context.Context) {
	log.Println("ReportPublisher: Starting...")

	for {
		select {
		case <-ctx.Done():
			log.Println("ReportPublisher: Context cancelled, shutting down...")
			return

		case msg, ok := <-p.ReportChan:
			if !ok {
				log.Println("ReportPublisher: Report channel closed, shutting down...")
				return
			}

			if err := p.publishReport(msg); err != nil {
				log.Printf("Error publishing report: %v", err)
			}
		}
	}
}

// publishReport sends one report message to its per-profile topic.
func (p *ReportPublisher) publishReport(msg *ReportMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	topic := formatTopic(p.reportTopic, msg.Profile)

	token := p.client.Publish(topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish report: %w", token.Error())
	}

	log.Printf("Published report %s (%s, confidence %.4f) to topic: %s",
		msg.CaptureID, msg.Report.PredictedFamily, msg.Report.Confidence, topic)
	return nil
}

// formatTopic replaces the {profile} placeholder with the profile name.
func formatTopic(topicPattern, profile string) string {
	return strings.ReplaceAll(topicPattern, "{profile}", profile)
}
