// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"scalar", "Water Lilies", "Water Lilies"},
		{"list takes first", []string{"A", "B"}, "A"},
		{"any list takes first", []any{"A", "B"}, "A"},
		{"string or list", StringOrList{"First", "Second"}, "First"},
		{"nil", nil, "Untitled"},
		{"empty list", []string{}, "Untitled"},
		{"blank string", "   ", "Untitled"},
		{"trims", "  The Bedroom ", "The Bedroom"},
		{"non-string", 42, "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.value))
		})
	}
}

func TestDescription(t *testing.T) {
	assert.Nil(t, Description(nil))
	assert.Nil(t, Description([]any{}))
	assert.Nil(t, Description(""))

	got := Description([]string{"first paragraph", "second"})
	require.NotNil(t, got)
	assert.Equal(t, "first paragraph", *got)

	got = Description("plain")
	require.NotNil(t, got)
	assert.Equal(t, "plain", *got)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"French"}, Strings("French"))
	assert.Equal(t, []string{"a", "b"}, Strings([]any{"a", " ", []string{"b"}}))
	assert.Equal(t, []string{}, Strings(nil))
	assert.Equal(t, []string{"oil", "canvas"}, Split("oil| canvas |", "|"))
	assert.Equal(t, []string{}, Split("", "|"))
}

func TestStringOrListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringOrList
	}{
		{"string", `"Nocturne"`, StringOrList{"Nocturne"}},
		{"list", `["Nocturne", "Nachtstück"]`, StringOrList{"Nocturne", "Nachtstück"}},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringOrList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringOrList
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &bad))
}

func TestYear(t *testing.T) {
	intPtr := func(n int) *int { return &n }
	tests := []struct {
		name  string
		value any
		want  *int
	}{
		{"int", 1875, intPtr(1875)},
		{"integral float", 1875.0, intPtr(1875)},
		{"fractional float", 1875.5, nil},
		{"negative year", -500, intPtr(-500)},
		{"json integer", json.Number("1889"), intPtr(1889)},
		{"json fraction", json.Number("1889.25"), nil},
		{"string", "1875", nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Year(tt.value))
		})
	}
}

func TestParseYear(t *testing.T) {
	require.NotNil(t, ParseYear("1875"))
	assert.Equal(t, 1875, *ParseYear(" 1875 "))
	assert.Equal(t, -300, *ParseYear("-300"))
	assert.Nil(t, ParseYear("1875.5"))
	assert.Nil(t, ParseYear("ca. 1875"))
	assert.Nil(t, ParseYear(""))
}

func TestArtistName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "Claude Monet", "Claude Monet"},
		{"collapses whitespace", "  Claude   Monet ", "Claude Monet"},
		{"reorders last first", "Monet, Claude", "Claude Monet"},
		{"keeps particle", "Gogh, Vincent van", "Vincent van Gogh"},
		{"upper case folded", "MONET, CLAUDE", "Claude Monet"},
		{"drops qualifier", "Vincent van Gogh (Dutch, 1853–1890)", "Vincent van Gogh"},
		{"keeps suffix", "Wyeth, Jr.", "Wyeth, Jr."},
		{"multiple commas untouched", "Smith, John, III", "Smith, John, III"},
		{"digits untouched", "Master of 1518, workshop", "Master of 1518, workshop"},
		{"trailing comma", "Hokusai,", "Hokusai"},
		{"empty", "   ", ""},
		{"decomposed accents", "Cézanne, Paul", "Paul Cézanne"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtistName(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Étude for a Portrait", "étude for a portrait"},
		{"ÉDOUARD MANET", "édouard manet"},
		{"E\u0301douard", "édouard"},
		{"Straße", "strasse"},
		{"Arts & Crafts", "arts & crafts"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}
