package catalogfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/departure-etl/internal/domain"
)

const sampleOverlay = `
messages:
  "81": "Störung am Zug"
  "999": "Testmeldung"
uncertain: ["999"]
superseded:
  "999": ["80"]
`

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog_AppliesOverlay(t *testing.T) {
	path := writeOverlay(t, sampleOverlay)

	c, entries, err := LoadCatalog(path, domain.DefaultCatalog)
	require.NoError(t, err)
	assert.Equal(t, 2, entries)

	text, err := c.LookupText("999")
	require.NoError(t, err)
	assert.Equal(t, "Testmeldung", text)
	assert.True(t, c.IsUncertain("999"))

	text, err = c.LookupText("81")
	require.NoError(t, err)
	assert.Equal(t, "Störung am Zug", text)

	// built-in entries survive
	text, err = c.LookupText("43")
	require.NoError(t, err)
	assert.Equal(t, "Verspätung eines vorausfahrenden Zuges", text)
	assert.True(t, c.IsUncertain("55"))
	assert.True(t, c.Supersedes("84", "80"))

	active := c.ResolveActiveSet(domain.NewCodeSet("80", "999"))
	assert.Equal(t, []string{"999"}, active.Sorted())
}

func TestLoadCatalog_DoesNotModifyBase(t *testing.T) {
	path := writeOverlay(t, sampleOverlay)

	_, _, err := LoadCatalog(path, domain.DefaultCatalog)
	require.NoError(t, err)

	_, err = domain.DefaultCatalog.LookupText("999")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, domain.DefaultCatalog.Supersedes("999", "80"))
}

func TestLoadCatalog_EmptyPath(t *testing.T) {
	c, entries, err := LoadCatalog("", domain.DefaultCatalog)
	require.NoError(t, err)
	assert.Same(t, domain.DefaultCatalog, c)
	assert.Zero(t, entries)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"), domain.DefaultCatalog)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_EmptyDocument(t *testing.T) {
	o, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Zero(t, o.Entries())

	c, err := o.Apply(domain.DefaultCatalog)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog.Tables(), c.Tables())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "messages: [", "decode catalog overlay"},
		{"non-numeric code", "messages:\n  abc: text\n", "validate catalog overlay"},
		{"empty text", "messages:\n  \"81\": \"\"\n", "validate catalog overlay"},
		{"non-numeric uncertain", "uncertain: [x]\n", "validate catalog overlay"},
		{"non-numeric superseded target", "superseded:\n  \"81\": [x]\n", "validate catalog overlay"},
		{"empty superseded list", "superseded:\n  \"81\": []\n", "validate catalog overlay"},
		{"negative code", "messages:\n  \"-1\": text\n", "validate catalog overlay"},
		{"decimal uncertain", "uncertain: [\"1.5\"]\n", "validate catalog overlay"},
		{"decimal superseded target", "superseded:\n  \"81\": [\"1.5\"]\n", "validate catalog overlay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply_UncertainNotDuplicated(t *testing.T) {
	o, err := Parse([]byte("uncertain: [\"55\", \"58\"]\n"))
	require.NoError(t, err)

	c, err := o.Apply(domain.DefaultCatalog)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog.Tables().Uncertain, c.Tables().Uncertain)
}

func TestLoadCatalog_EmptySupersededListKeepsBuiltIn(t *testing.T) {
	path := writeOverlay(t, "superseded:\n  \"84\": []\n")

	_, _, err := LoadCatalog(path, domain.DefaultCatalog)
	require.Error(t, err)
	assert.True(t, domain.DefaultCatalog.Supersedes("84", "80"))
}
