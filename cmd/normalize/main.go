// Command normalize runs the departure enrichment offline over a JSON fixture of
// raw departures and writes the normalized departures. It uses the same domain
// package as the pipeline so fixtures for downstream consumers match real
// output.
//
// Usage:
//
//	go run ./cmd/normalize \
//	  -in data/mock/departures_8000105.json \
//	  -out data/mock/departures_8000105_normalized.json \
//	  -catalog catalog.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/departure-etl/internal/adapter/catalogfile"
	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixedNow keeps processedAt stable across runs.
var fixedNow = time.Date(2024, time.April, 26, 9, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to a JSON array of raw departures")
	out := flag.String("out", "", "output path for normalized departures")
	catalogPath := flag.String("catalog", "", "optional message catalog overlay (YAML)")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	catalog, entries, err := catalogfile.LoadCatalog(*catalogPath, domain.DefaultCatalog)
	if err != nil {
		return err
	}
	if *catalogPath != "" {
		log.Printf("catalog overlay: %d texts", entries)
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer domain.SetClock(nil)

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	departures, err := normalize(data, catalog)
	if err != nil {
		return err
	}
	log.Printf("normalized %d departures", len(departures))

	if err := writeJSON(*out, departures); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Printf("wrote %s", *out)

	printStats(collectStats(departures))
	return nil
}

// normalize enriches every raw departure in a JSON array. Rows that fail
// validation abort the run with their index.
func normalize(data []byte, catalog *domain.Catalog) ([]domain.Departure, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}

	departures := make([]domain.Departure, 0, len(rows))
	for i, row := range rows {
		raw, err := domain.ParseRawEvent(domain.RawEvent{Value: row})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		departures = append(departures, domain.EnrichDeparture(raw, catalog, domain.DefaultParser))
	}
	return departures, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// stats holds aggregated counts for the summary printout.
type stats struct {
	total        int
	longDistance int
	unparseable  int
	byTrainType  map[string]int
	superseded   map[string]int
	unknownCodes map[string]int
}

func collectStats(departures []domain.Departure) stats {
	s := stats{
		total:        len(departures),
		byTrainType:  map[string]int{},
		superseded:   map[string]int{},
		unknownCodes: map[string]int{},
	}
	for i := range departures {
		d := &departures[i]
		if d.LongDistance {
			s.longDistance++
		}
		if d.Designation().IsZero() {
			s.unparseable++
		} else {
			s.byTrainType[d.TrainType]++
		}
		for _, code := range d.SupersededCodes {
			s.superseded[code]++
		}
		for _, group := range [][]domain.Message{d.Messages.Delay, d.Messages.QoS, d.Messages.Other} {
			for _, m := range group {
				if !m.Known {
					s.unknownCodes[m.Code]++
				}
			}
		}
	}
	return s
}

func printStats(s stats) {
	fmt.Println("\n=== Normalization stats ===")
	fmt.Printf("Total: %d\n", s.total)
	fmt.Printf("Long-distance: %d\n", s.longDistance)
	fmt.Printf("Unparseable designations: %d\n", s.unparseable)
	printCounts("By train type", s.byTrainType)
	printCounts("Superseded codes", s.superseded)
	printCounts("Codes without text", s.unknownCodes)
}

func printCounts(label string, counts map[string]int) {
	fmt.Printf("%s (%d):", label, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Printf(" %s=%d", k, counts[k])
	}
	fmt.Println()
}
