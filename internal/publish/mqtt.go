// Package publish turns decoded bpc.Frame values into MQTT messages,
// adapted from the teacher's pkg/mqtt.
package publish

import (
	"encoding/json"
	"fmt"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"

	"github.com/womat/bpc/pkg/bpc"
)

const quiesceMS = 250

// FramePayload is the JSON shape published for every frame, whether or
// not the decode succeeded: status is always present so subscribers can
// distinguish a clean minute from a parity error or invalid frame
// without guessing from zeroed calendar fields.
type FramePayload struct {
	Status  string `json:"status"`
	Year    uint16 `json:"year,omitempty"`
	Month   uint8  `json:"month,omitempty"`
	Day     uint8  `json:"day,omitempty"`
	Weekday uint8  `json:"weekday"`
	Hour    uint8  `json:"hour,omitempty"`
	Minute  uint8  `json:"minute,omitempty"`
	Second  uint8  `json:"second,omitempty"`
}

// NewFramePayload converts a decoded Frame into its publish shape.
func NewFramePayload(f bpc.Frame) FramePayload {
	return FramePayload{
		Status:  f.Status.String(),
		Year:    f.Year,
		Month:   f.Month,
		Day:     f.Day,
		Weekday: f.Weekday,
		Hour:    f.Hour,
		Minute:  f.Minute,
		Second:  f.Second,
	}
}

// Handler publishes decoded frames to an MQTT broker. If no broker is
// configured, frames sent to C are silently dropped — matching the
// teacher's "no broker, no messages" behaviour.
type Handler struct {
	client mqttlib.Client
	topic  string
	// PublishAll controls whether non-OK frames are published too. When
	// false, only StatusOK frames reach the broker.
	PublishAll bool

	// C is the channel callers send frames to; Service drains it.
	C chan bpc.Frame
}

// New returns an unconnected Handler publishing to topic.
func New(topic string, publishAll bool) *Handler {
	return &Handler{
		topic:      topic,
		PublishAll: publishAll,
		C:          make(chan bpc.Frame, 16),
	}
}

// Connect connects to broker. An empty broker address disables
// publishing entirely.
func (h *Handler) Connect(broker string) error {
	if broker == "" {
		return nil
	}

	opts := mqttlib.NewClientOptions().AddBroker(broker)
	h.client = mqttlib.NewClient(opts)
	return h.reconnect()
}

func (h *Handler) reconnect() error {
	t := h.client.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect ends the broker connection, if any.
func (h *Handler) Disconnect() error {
	if h.client == nil {
		return nil
	}
	h.client.Disconnect(quiesceMS)
	return nil
}

// Service drains C and publishes each frame until the channel is closed.
// Intended to run in its own goroutine, mirroring pkg/mqtt.Handler.Service.
func (h *Handler) Service() {
	for f := range h.C {
		if h.client == nil || h.topic == "" {
			continue
		}
		if f.Status != bpc.StatusOK && !h.PublishAll {
			continue
		}

		h.publish(f)
	}
}

func (h *Handler) publish(f bpc.Frame) {
	payload, err := json.Marshal(NewFramePayload(f))
	if err != nil {
		debug.ErrorLog.Printf("publish: marshal frame: %v", err)
		return
	}

	if !h.client.IsConnected() {
		debug.DebugLog.Printf("mqtt broker isn't connected, reconnecting")
		if err := h.reconnect(); err != nil {
			debug.ErrorLog.Printf("publish: reconnect: %v", err)
			return
		}
	}

	retained := f.Status == bpc.StatusOK
	t := h.client.Publish(h.topic, 0, retained, payload)
	go func() {
		<-t.Done()
		if err := t.Error(); err != nil {
			debug.ErrorLog.Printf("publish: topic %s: %v", h.topic, err)
		}
	}()
}

// Topic returns the configured publish topic, or an error if none is set.
func (h *Handler) Topic() (string, error) {
	if h.topic == "" {
		return "", fmt.Errorf("publish: no topic configured")
	}
	return h.topic, nil
}
