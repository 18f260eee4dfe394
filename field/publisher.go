package field

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// HistogramSnapshot is the payload published after each live update:
// the current bucket values plus summary figures.
type HistogramSnapshot struct {
	SliceDegrees float64   `json:"sliceDegrees"`
	Buckets      []float64 `json:"buckets"`
	Max          float64   `json:"max"`
	Total        float64   `json:"total"`
	Messages     int       `json:"messages"`
	Timestamp    int64     `json:"timestamp"`
}

// Publisher publishes live histogram snapshots to MQTT so dashboards can
// follow the accumulation without polling the HTTP endpoints.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	retain bool
}

// NewPublisher creates a snapshot publisher. If client is nil or topic is
// empty, publishing is disabled.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
		qos:    0,    // fire and forget; the next snapshot supersedes this one
		retain: true, // retain so late subscribers get the latest state
	}
}

// Enabled reports whether the publisher will attempt to publish.
func (p *Publisher) Enabled() bool {
	return p.client != nil && p.topic != ""
}

// PublishSnapshot publishes the current state of a tracker's histogram.
func (p *Publisher) PublishSnapshot(tracker *LiveTracker) error {
	if !p.Enabled() {
		return nil
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	hist := tracker.Snapshot()
	snapshot := HistogramSnapshot{
		SliceDegrees: hist.SliceDegrees,
		Buckets:      hist.Buckets,
		Max:          hist.Max(),
		Total:        hist.Total(),
		Messages:     tracker.MessageCount(),
		Timestamp:    time.Now().Unix(),
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling histogram snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, p.retain, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, token.Error())
	}
	return nil
}
