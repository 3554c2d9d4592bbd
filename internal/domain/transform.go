package domain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata; safe for concurrent use.
var validate = validator.New()

// ParseRawEvent deserializes and validates a RawEvent's value.
// It expects the flat departure JSON produced by the collector service.
func ParseRawEvent(raw RawEvent) (RawDeparture, error) {
	var dep RawDeparture
	if err := json.Unmarshal(raw.Value, &dep); err != nil {
		return RawDeparture{}, fmt.Errorf("parse raw departure: %w", err)
	}
	if err := validate.Struct(dep); err != nil {
		return RawDeparture{}, fmt.Errorf("validate raw departure: %w", err)
	}
	return dep, nil
}

// EnrichDeparture parses the train designation, classifies the departure as
// long-distance or not and normalizes its messages against the catalog.
// A nil catalog or parser falls back to DefaultCatalog and DefaultParser.
func EnrichDeparture(raw RawDeparture, catalog *Catalog, parser DesignationParser) Departure {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	if parser == nil {
		parser = DefaultParser
	}

	train := parser.Parse(raw.Train)
	messages, superseded := normalizeMessages(catalog, raw.Messages)

	return Departure{
		ID:                 generateID(train.TrainType, raw.Station, raw.Train, raw.ScheduledDeparture),
		Station:            raw.Station,
		Train:              raw.Train,
		ThirdParty:         train.ThirdParty,
		TrainType:          train.TrainType,
		TrainID:            train.TrainID,
		LongDistance:       train.LongDistance,
		ScheduledDeparture: raw.ScheduledDeparture,
		Destination:        raw.Destination,
		Platform:           raw.Platform,
		DelayDeparture:     raw.DelayDeparture,
		IsCancelled:        raw.IsCancelled,
		Messages:           messages,
		SupersededCodes:    superseded,
		ProcessedAt:        clock.Now(),
	}
}

// SerializeDeparture marshals a Departure into an OutputEvent keyed by its ID.
func SerializeDeparture(dep Departure) (OutputEvent, error) {
	data, err := json.Marshal(dep)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize departure: %w", err)
	}
	return OutputEvent{
		Key:   []byte(dep.ID),
		Value: data,
		Headers: map[string]string{
			"train_type":    dep.TrainType,
			"long_distance": strconv.FormatBool(dep.LongDistance),
			"processed_at":  dep.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// normalizeMessages collapses repeated codes (latest timestamp wins), drops
// superseded codes and resolves text and category for the rest. It returns the
// grouped messages and the sorted list of dropped codes.
func normalizeMessages(catalog *Catalog, raw []RawMessage) (Messages, []string) {
	out := Messages{Delay: []Message{}, QoS: []Message{}}
	if len(raw) == 0 {
		return out, nil
	}

	latest := make(map[string]RawMessage, len(raw))
	for _, m := range raw {
		if prev, ok := latest[m.Code]; ok && !m.Timestamp.After(prev.Timestamp) {
			continue
		}
		latest[m.Code] = m
	}

	active := make(CodeSet, len(latest))
	for code := range latest {
		active[code] = struct{}{}
	}
	resolved := catalog.ResolveActiveSet(active)

	codes := active.Sorted()
	slices.SortFunc(codes, compareCodes)

	var superseded []string
	for _, code := range codes {
		if !resolved.Has(code) {
			superseded = append(superseded, code)
			continue
		}
		msg := normalizeMessage(catalog, latest[code])
		switch msg.Category {
		case CategoryDelay:
			out.Delay = append(out.Delay, msg)
		case CategoryQoS:
			out.QoS = append(out.QoS, msg)
		default:
			out.Other = append(out.Other, msg)
		}
	}

	sortMessages(out.Delay)
	sortMessages(out.QoS)
	sortMessages(out.Other)
	return out, superseded
}

func normalizeMessage(catalog *Catalog, m RawMessage) Message {
	msg := Message{Code: m.Code, Timestamp: m.Timestamp, Category: CategoryUnknown}
	if cat, err := catalog.ClassifyType(m.Type); err == nil {
		msg.Category = cat
	}
	if text, err := catalog.LookupText(m.Code); err == nil {
		msg.Text = text
		msg.Known = true
		msg.Uncertain = catalog.IsUncertain(m.Code)
	}
	return msg
}

// sortMessages orders by timestamp, then numerically by code.
func sortMessages(msgs []Message) {
	slices.SortFunc(msgs, func(a, b Message) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return compareCodes(a.Code, b.Code)
	})
}

// compareCodes compares numeric codes without parsing: shorter is smaller.
func compareCodes(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// generateID produces a deterministic ID from the departure's key fields.
// Reprocessing the same raw departure produces the same ID.
func generateID(trainType, station, train string, scheduled time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", station, train, scheduled.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if trainType == "" {
		return short
	}
	return strings.ToLower(trainType) + "-" + short
}
