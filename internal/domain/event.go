package domain

import (
	"context"
	"time"
)

// RawMessage is one IRIS message attached to a departure.
type RawMessage struct {
	Type      string    `json:"type" validate:"required,len=1"`  // "d", "f" or "q"
	Code      string    `json:"code" validate:"required,number"` // e.g. "43"
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// RawDeparture represents the flat JSON structure produced by the collector.
type RawDeparture struct {
	Station            string       `json:"station" validate:"required"` // EVA number, e.g. "8000105"
	Train              string       `json:"train"`                       // raw designation, e.g. "NWB RS12345"
	ScheduledDeparture time.Time    `json:"scheduledDeparture" validate:"required"`
	Destination        string       `json:"destination,omitempty"`
	Platform           string       `json:"platform,omitempty"`
	DelayDeparture     int          `json:"delayDeparture,omitempty" validate:"gte=0"` // minutes
	IsCancelled        bool         `json:"isCancelled,omitempty"`
	Messages           []RawMessage `json:"messages,omitempty" validate:"dive"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Message is a normalized, displayable IRIS message.
type Message struct {
	Code      string    `json:"code"`
	Text      string    `json:"text,omitempty"`
	Category  Category  `json:"category"`
	Known     bool      `json:"known"`               // false when the catalog has no text
	Uncertain bool      `json:"uncertain,omitempty"` // text exists but its meaning is unconfirmed
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Messages groups normalized messages by category.
type Messages struct {
	Delay []Message `json:"delay"`
	QoS   []Message `json:"qos"`
	Other []Message `json:"other,omitempty"` // unknown type prefixes
}

// Departure is the enriched representation written to the sink topic.
type Departure struct {
	ID                 string    `json:"id"`
	Station            string    `json:"station"`
	Train              string    `json:"train"`
	ThirdParty         string    `json:"thirdParty,omitempty"`
	TrainType          string    `json:"trainType,omitempty"`
	TrainID            string    `json:"trainId,omitempty"`
	LongDistance       bool      `json:"longDistance"`
	ScheduledDeparture time.Time `json:"scheduledDeparture"`
	Destination        string    `json:"destination,omitempty"`
	Platform           string    `json:"platform,omitempty"`
	DelayDeparture     int       `json:"delayDeparture,omitempty"`
	IsCancelled        bool      `json:"isCancelled,omitempty"`
	Messages           Messages  `json:"messages"`
	SupersededCodes    []string  `json:"supersededCodes,omitempty"`

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Designation returns the parsed designation fields of the departure.
func (d Departure) Designation() TrainDesignation {
	return TrainDesignation{ThirdParty: d.ThirdParty, TrainType: d.TrainType, TrainID: d.TrainID}
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
