// Package report publishes migration outcomes to the fleet broker so
// operators can track the rollout across devices.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airshift-io/airshift/internal/migrator"
	"github.com/airshift-io/airshift/pkg/log"
	"github.com/airshift-io/airshift/pkg/mqtt"
)

// Report is the payload published after a migration run.
type Report struct {
	DeviceID         string `json:"deviceId"`
	Outcome          string `json:"outcome"`
	Phase            string `json:"phase"`
	NetworksMigrated int    `json:"networksMigrated"`
	APMigrated       bool   `json:"apMigrated"`
	SettingsDiverged int    `json:"settingsDiverged"`
	Error            string `json:"error,omitempty"`
	Timestamp        string `json:"timestamp"`
}

// Publisher sends migration reports over MQTT.
type Publisher struct {
	client    mqtt.Client
	topicRoot string
	deviceID  string
}

// NewPublisher wires a publisher to an already-created MQTT client.
func NewPublisher(client mqtt.Client, topicRoot, deviceID string) *Publisher {
	return &Publisher{
		client:    client,
		topicRoot: topicRoot,
		deviceID:  deviceID,
	}
}

// Topic is where this device's reports land.
func (p *Publisher) Topic() string {
	return fmt.Sprintf("%s/%s", p.topicRoot, p.deviceID)
}

// Publish connects, sends the report at QoS 1, and disconnects.
func (p *Publisher) Publish(ctx context.Context, res *migrator.Result) error {
	payload, err := json.Marshal(buildReport(p.deviceID, res, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := p.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}
	defer p.client.Disconnect(ctx)

	if err := p.client.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}

	topic := p.Topic()
	if err := p.client.Publish(ctx, topic, 1, false, payload); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	log.Info("Published migration report", "topic", topic, "outcome", res.Outcome)
	return nil
}

func buildReport(deviceID string, res *migrator.Result, now time.Time) Report {
	r := Report{
		DeviceID:         deviceID,
		Outcome:          string(res.Outcome),
		Phase:            string(res.Phase),
		NetworksMigrated: res.NetworksMigrated,
		APMigrated:       res.APMigrated,
		SettingsDiverged: res.SettingsDiverged,
		Timestamp:        now.UTC().Format(time.RFC3339),
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	return r
}
