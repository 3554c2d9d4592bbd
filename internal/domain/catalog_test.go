package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupText(t *testing.T) {
	text, err := LookupText("2")
	require.NoError(t, err)
	assert.Equal(t, "Polizeiliche Ermittlung", text)

	text, err = LookupText("84")
	require.NoError(t, err)
	assert.Equal(t, "Zug verkehrt richtig gereiht", text)
}

func TestLookupText_NotFound(t *testing.T) {
	for _, code := range []string{"999", "4", "", "abc"} {
		_, err := LookupText(code)
		require.Error(t, err, "code %q", code)
		assert.True(t, errors.Is(err, ErrNotFound), "code %q", code)
	}
}

func TestLookupText_UncertainEntriesAreValid(t *testing.T) {
	cases := map[string]string{
		"55":  "Technische Störung an einem anderen Zug",
		"58":  "Umleitung",
		"900": "Anschlussbus wartet(?)",
	}
	for code, want := range cases {
		text, err := LookupText(code)
		require.NoError(t, err, "code %q", code)
		assert.Equal(t, want, text)
		assert.True(t, DefaultCatalog.IsUncertain(code), "code %q", code)
	}
	assert.False(t, DefaultCatalog.IsUncertain("2"))
}

func TestClassifyType(t *testing.T) {
	cat, err := ClassifyType("d")
	require.NoError(t, err)
	assert.Equal(t, CategoryDelay, cat)

	for _, prefix := range []string{"f", "q"} {
		cat, err := ClassifyType(prefix)
		require.NoError(t, err)
		assert.Equal(t, CategoryQoS, cat)
	}
}

func TestClassifyType_UnknownPrefix(t *testing.T) {
	for _, prefix := range []string{"x", "D", "", "dq"} {
		_, err := ClassifyType(prefix)
		require.Error(t, err, "prefix %q", prefix)
		assert.ErrorIs(t, err, ErrUnknownPrefix)
	}
}

func TestResolveActiveSet(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  []string
	}{
		{"84 supersedes 80", []string{"80", "84"}, []string{"84"}},
		{"no counterpart present", []string{"96"}, []string{"96"}},
		{"mutual pair is kept", []string{"96", "97"}, []string{"96", "97"}},
		{"88 removes both mutual codes", []string{"88", "96", "97"}, []string{"88"}},
		{"unrelated codes untouched", []string{"2", "43", "99"}, []string{"2", "43", "99"}},
		{"84 and 88 share targets", []string{"80", "82", "84", "88", "86"}, []string{"84", "88"}},
		{"80 superseded by two codes", []string{"88", "84", "80"}, []string{"84", "88"}},
		{"unknown codes untouched", []string{"999", "80"}, []string{"80", "999"}},
		{"empty", nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveActiveSet(NewCodeSet(tc.codes...))
			assert.Equal(t, tc.want, got.Sorted())
		})
	}
}

func TestResolveActiveSet_DoesNotModifyInput(t *testing.T) {
	in := NewCodeSet("80", "84")
	_ = ResolveActiveSet(in)
	assert.Equal(t, 2, in.Len())
	assert.True(t, in.Has("80"))
}

func TestResolveActiveSet_Idempotent(t *testing.T) {
	sets := [][]string{
		{"80", "84"},
		{"96", "97"},
		{"88", "96", "97", "98", "2"},
		{"80", "82", "83", "84", "85", "86", "87", "88", "90", "91", "92", "93", "96", "97", "98"},
		{"84", "85", "43"},
	}
	for _, codes := range sets {
		once := ResolveActiveSet(NewCodeSet(codes...))
		twice := ResolveActiveSet(once)
		assert.Equal(t, once.Sorted(), twice.Sorted(), "codes %v", codes)
	}
}

func TestNewCatalog_RejectsBadPrefixes(t *testing.T) {
	_, err := NewCatalog(CatalogTables{Types: map[string]Category{"dd": CategoryDelay}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")

	_, err = NewCatalog(CatalogTables{Types: map[string]Category{"x": "weather"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestCatalog_TablesAreCopies(t *testing.T) {
	tables := DefaultCatalog.Tables()
	tables.Texts["2"] = "changed"
	tables.Superseded["84"] = nil

	text, err := LookupText("2")
	require.NoError(t, err)
	assert.Equal(t, "Polizeiliche Ermittlung", text)
	assert.True(t, DefaultCatalog.Supersedes("84", "80"))
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	texts := map[string]string{"1": "one"}
	c, err := NewCatalog(CatalogTables{Texts: texts})
	require.NoError(t, err)

	texts["1"] = "changed"
	text, err := c.LookupText("1")
	require.NoError(t, err)
	assert.Equal(t, "one", text)
}
