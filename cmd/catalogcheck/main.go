// Command catalogcheck checks the message catalog for consistency: the
// built-in tables, or the built-in tables merged with an overlay file. It
// verifies that every code named in a supersession rule has a text, that no
// code supersedes itself, and that uncertain codes have texts. Mutual
// supersession pairs are reported but are not errors.
//
// Usage:
//
//	go run ./cmd/catalogcheck -catalog catalog.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/departure-etl/internal/adapter/catalogfile"
	"github.com/couchcryptid/departure-etl/internal/domain"
)

// phase tracks pass/fail for a check phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "optional message catalog overlay (YAML)")
	flag.Parse()

	os.Exit(run(*catalogPath))
}

func run(catalogPath string) int {
	fmt.Println("=== Message Catalog Check ===")

	catalog, entries, err := catalogfile.LoadCatalog(catalogPath, domain.DefaultCatalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if catalogPath != "" {
		fmt.Printf("Overlay %s: %d texts\n", catalogPath, entries)
	}

	t := catalog.Tables()
	phases := check(t)

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Catalog: %d texts, %d uncertain, %d type prefixes, %d supersession rules\n",
		len(t.Texts), len(t.Uncertain), len(t.Types), len(t.Superseded))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Printf("  note: %s\n", n)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nCatalog check FAILED.")
	return 1
}

func check(t domain.CatalogTables) []*phase {
	return []*phase{
		checkSupersessionTexts(t),
		checkSupersessionRules(t),
		checkUncertain(t),
	}
}

// checkSupersessionTexts requires a text for every code named in a rule.
func checkSupersessionTexts(t domain.CatalogTables) *phase {
	p := &phase{name: "Phase 1: Supersession texts"}
	for _, code := range sortedKeys(t.Superseded) {
		if _, ok := t.Texts[code]; !ok {
			p.errorf("superseding code %s has no text", code)
		}
		for _, other := range t.Superseded[code] {
			if _, ok := t.Texts[other]; !ok {
				p.errorf("code %s superseded by %s has no text", other, code)
			}
		}
	}
	return p
}

// checkSupersessionRules rejects self-supersession and reports mutual pairs.
func checkSupersessionRules(t domain.CatalogTables) *phase {
	p := &phase{name: "Phase 2: Supersession rules"}
	for _, code := range sortedKeys(t.Superseded) {
		for _, other := range t.Superseded[code] {
			if other == code {
				p.errorf("code %s supersedes itself", code)
				continue
			}
			if code < other && slices.Contains(t.Superseded[other], code) {
				p.notef("mutual pair %s <-> %s: both are kept when reported together", code, other)
			}
		}
	}
	return p
}

func checkUncertain(t domain.CatalogTables) *phase {
	p := &phase{name: "Phase 3: Uncertain codes"}
	for _, code := range t.Uncertain {
		if _, ok := t.Texts[code]; !ok {
			p.errorf("uncertain code %s has no text", code)
		}
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
