package main

import (
	"testing"

	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_BuiltInCatalogPasses(t *testing.T) {
	phases := check(domain.DefaultCatalog.Tables())
	require.Len(t, phases, 3)
	for _, p := range phases {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}
	assert.Equal(t, []string{"mutual pair 96 <-> 97: both are kept when reported together"}, phases[1].notes)
}

func TestCheck_DetectsProblems(t *testing.T) {
	tables := domain.CatalogTables{
		Texts:      map[string]string{"1": "eins", "2": "zwei"},
		Uncertain:  []string{"3"},
		Superseded: map[string][]string{"1": {"1", "4"}, "5": {"2"}},
	}

	phases := check(tables)

	assert.ElementsMatch(t, []string{
		"code 4 superseded by 1 has no text",
		"superseding code 5 has no text",
	}, phases[0].errors)
	assert.Equal(t, []string{"code 1 supersedes itself"}, phases[1].errors)
	assert.Equal(t, []string{"uncertain code 3 has no text"}, phases[2].errors)
}

func TestRun_BuiltIn(t *testing.T) {
	assert.Equal(t, 0, run(""))
}
