package resultfeed

import "encoding/json"

type TestKind string

const (
	KindBlowerDoor  TestKind = "blower_door"
	KindVentilation TestKind = "ventilation"
	KindDuctLeakage TestKind = "duct_leakage"

	// KindGaugeFrame tags live manometer frames multiplexed onto the same
	// feed. Dashboards render them; the collector skips them.
	KindGaugeFrame TestKind = "gauge_frame"
)

// Envelope wraps one computed evaluation as broadcast by the compliance API.
// Test and Result stay raw so the collector can persist them without
// depending on every evaluator's result shape.
type Envelope struct {
	ID         string          `json:"id"`
	Kind       TestKind        `json:"kind"`
	RecordedAt string          `json:"recorded_at"`
	Test       json.RawMessage `json:"test"`
	Result     json.RawMessage `json:"result"`
	Compliant  bool            `json:"compliant"`
}

func (e *Envelope) ToJsonBytes() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

func EnvelopeFromJsonBytes(data []byte) *Envelope {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}
	if envelope.ID == "" || envelope.Kind == "" {
		return nil
	}
	return &envelope
}

// GaugeFrameMessage carries one live gauge frame on the feed. The frame stays
// raw so this package does not depend on the gauge frame shape.
type GaugeFrameMessage struct {
	Kind  TestKind        `json:"kind"`
	Frame json.RawMessage `json:"frame"`
}

func (m *GaugeFrameMessage) ToJsonBytes() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return data
}

// MessageKind peeks the kind tag of a feed message without committing to a
// message shape. Empty for untagged or malformed payloads.
func MessageKind(data []byte) TestKind {
	var tagged struct {
		Kind TestKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return ""
	}
	return tagged.Kind
}
