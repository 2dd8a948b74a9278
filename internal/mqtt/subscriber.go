package mqtt

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"digital-nose/internal/report"
	"digital-nose/internal/scent"
)

// CaptureFunc performs one capture-and-classify for the named profile. The
// application context satisfies this.
type CaptureFunc func(profileName string) (scent.Reading, report.ScentReport, error)

// CaptureRequest is the inbound payload on the capture request topic.
type CaptureRequest struct {
	CaptureID string `json:"capture_id,omitempty"`
	Profile   string `json:"profile"`
}

// CaptureResponse is published on the response topic; either Report or
// Error is set.
type CaptureResponse struct {
	CaptureID string      `json:"capture_id"`
	Profile   string      `json:"profile"`
	Report    *report.Doc `json:"report,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// CaptureSubscriber serves capture requests arriving over MQTT: each
// request triggers a simulated capture, and the classification comes back
// on the response topic and the report stream.
type CaptureSubscriber struct {
	client  mqtt.Client
	capture CaptureFunc

	requestTopic  string // e.g. "nose/capture/request"
	responseTopic string // e.g. "nose/capture/response"

	// reportChan, when set, also receives every successful capture so the
	// publisher mirrors responses onto the per-profile report topics.
	reportChan chan *ReportMessage
}

// SubscriberConfig holds configuration for the capture subscriber.
type SubscriberConfig struct {
	RequestTopic  string
	ResponseTopic string
}

// NewCaptureSubscriber creates a subscriber serving capture requests with
// the given capture function.
func NewCaptureSubscriber(client mqtt.Client, config SubscriberConfig, capture CaptureFunc, reportChan chan *ReportMessage) *CaptureSubscriber {
	return &CaptureSubscriber{
		client:        client,
		capture:       capture,
		requestTopic:  config.RequestTopic,
		responseTopic: config.ResponseTopic,
		reportChan:    reportChan,
	}
}

// Subscribe registers the request handler with the broker.
func (s *CaptureSubscriber) Subscribe() error {
	token := s.client.Subscribe(s.requestTopic, 1, s.handleCaptureRequest)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to capture request topic: %w", token.Error())
	}
	log.Printf("CaptureSubscriber: Subscribed to %s", s.requestTopic)
	return nil
}

// handleCaptureRequest parses a request, runs the capture, and publishes
// the response.
func (s *CaptureSubscriber) handleCaptureRequest(client mqtt.Client, msg mqtt.Message) {
	var req CaptureRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		log.Printf("Error parsing capture request: %v", err)
		return
	}
	if req.CaptureID == "" {
		req.CaptureID = uuid.NewString()
	}

	resp := CaptureResponse{
		CaptureID: req.CaptureID,
		Profile:   req.Profile,
	}

	_, rep, err := s.capture(req.Profile)
	if err != nil {
		log.Printf("Capture request %s failed: %v", req.CaptureID, err)
		resp.Error = err.Error()
	} else {
		doc := rep.Doc()
		resp.Report = &doc

		if s.reportChan != nil {
			select {
			case s.reportChan <- &ReportMessage{
				CaptureID: req.CaptureID,
				Profile:   req.Profile,
				Report:    doc,
			}:
			default:
				log.Printf("Warning: report channel full, dropping report %s", req.CaptureID)
			}
		}
	}

	s.publishResponse(&resp)
}

// publishResponse sends the capture response to the response topic.
func (s *CaptureSubscriber) publishResponse(resp *CaptureResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Printf("Error marshaling capture response: %v", err)
		return
	}

	token := s.client.Publish(s.responseTopic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Printf("Error publishing capture response: %v", token.Error())
		return
	}
	log.Printf("Published capture response %s to topic: %s", resp.CaptureID, s.responseTopic)
}
