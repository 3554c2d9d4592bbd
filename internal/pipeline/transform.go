package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/couchcryptid/departure-etl/internal/observability"
)

// DepartureTransformer implements Transformer by parsing, enriching and
// serializing one departure per event.
type DepartureTransformer struct {
	catalog *domain.Catalog
	parser  domain.DesignationParser
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a DepartureTransformer. A nil catalog or parser uses
// the built-in defaults; metrics may be nil.
func NewTransformer(catalog *domain.Catalog, parser domain.DesignationParser, metrics *observability.Metrics, logger *slog.Logger) *DepartureTransformer {
	if catalog == nil {
		catalog = domain.DefaultCatalog
	}
	if parser == nil {
		parser = domain.DefaultParser
	}
	return &DepartureTransformer{
		catalog: catalog,
		parser:  parser,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *DepartureTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rawDep, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	dep := domain.EnrichDeparture(rawDep, t.catalog, t.parser)
	dep.RawPayload = raw.Value

	if dep.Train != "" && dep.Designation().IsZero() {
		t.logger.Debug("unparseable train designation", "train", dep.Train, "station", dep.Station)
	}
	t.record(dep)

	return domain.SerializeDeparture(dep)
}

func (t *DepartureTransformer) record(dep domain.Departure) {
	if t.metrics == nil {
		return
	}

	if dep.Designation().IsZero() {
		t.metrics.Designations.WithLabelValues("unparseable").Inc()
	} else {
		t.metrics.Designations.WithLabelValues("parsed").Inc()
	}
	if dep.LongDistance {
		t.metrics.LongDistance.Inc()
	}
	t.metrics.SupersededMessages.Add(float64(len(dep.SupersededCodes)))

	for _, group := range [][]domain.Message{dep.Messages.Delay, dep.Messages.QoS, dep.Messages.Other} {
		for _, m := range group {
			t.metrics.NormalizedMessages.WithLabelValues(string(m.Category)).Inc()
			t.metrics.CatalogLookups.WithLabelValues(lookupResult(m)).Inc()
		}
	}
}

func lookupResult(m domain.Message) string {
	switch {
	case !m.Known:
		return "not_found"
	case m.Uncertain:
		return "uncertain"
	default:
		return "found"
	}
}
