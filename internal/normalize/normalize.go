// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize holds the pure functions every museum adapter uses to
// collapse source quirks into the ArtworkResult shape: scalar-or-list text
// fields, artist name forms, and year coercion.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/museum-engine/pkg/types"
)

// Title collapses a scalar-or-list title to one string. A list yields its
// first element; nil, an empty list, or a blank string yields "Untitled".
func Title(value any) string {
	if s, ok := first(value); ok {
		return s
	}
	return types.DefaultTitle
}

// Description collapses a scalar-or-list description the same way as Title
// but returns nil when the value is absent.
func Description(value any) *string {
	if s, ok := first(value); ok {
		return &s
	}
	return nil
}

// first returns the first non-blank string held by value.
func first(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case *string:
		if v == nil {
			return "", false
		}
		return first(*v)
	case StringOrList:
		return first([]string(v))
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return first(v[0])
	case []any:
		if len(v) == 0 {
			return "", false
		}
		return first(v[0])
	default:
		return "", false
	}
}

// Strings flattens a scalar-or-list value into a list of trimmed, non-blank
// strings. It never returns nil.
func Strings(value any) []string {
	out := []string{}
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case *string:
		if v != nil {
			return Strings(*v)
		}
	case StringOrList:
		return Strings([]string(v))
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			out = append(out, Strings(item)...)
		}
	}
	return out
}

// Split breaks a delimited string field into a trimmed list.
func Split(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return Strings(strings.Split(s, sep))
}

// StringOrList decodes a JSON field that some exports write as a string and
// others as an array of strings.
type StringOrList []string

// UnmarshalJSON accepts null, a string, or an array of strings.
func (s *StringOrList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*s = nil
		return nil
	case strings.HasPrefix(trimmed, "["):
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decoding string list: %w", err)
		}
		*s = list
		return nil
	default:
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("decoding string or list: %w", err)
		}
		*s = StringOrList{single}
		return nil
	}
}

// Year accepts value as a year only when it is an exact integer. Integral
// floats (JSON numbers decode to float64) qualify; fractional numbers,
// strings and nil return nil. The caller keeps the raw date string separately.
func Year(value any) *int {
	switch v := value.(type) {
	case int:
		return &v
	case int32:
		n := int(v)
		return &n
	case int64:
		n := int(v)
		return &n
	case *int:
		return v
	case float64:
		return integral(v)
	case float32:
		return integral(float64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			i := int(n)
			return &i
		}
		if f, err := v.Float64(); err == nil {
			return integral(f)
		}
	}
	return nil
}

func integral(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil
	}
	n := int(f)
	return &n
}

// ParseYear converts a text column holding a year. Only base-10 integers
// (negative for BCE) are accepted.
func ParseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// nameSuffixes are trailing name parts that look like a "Last, First" split
// but are not one.
var nameSuffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
	"the elder": true, "the younger": true,
}

// ArtistName canonicalizes an artist name. Rules, applied in order:
//
//  1. Unicode NFC normalization; runs of whitespace collapse to one space.
//  2. A trailing parenthetical qualifier is dropped
//     ("Vincent van Gogh (Dutch, 1853–1890)" -> "Vincent van Gogh").
//  3. A name written entirely in upper case is title-cased
//     ("MONET, CLAUDE" -> "Monet, Claude"); mixed case is left alone so
//     particles like "van" survive.
//  4. A single "Last, First" comma form is reordered to "First Last", unless
//     the part after the comma is a generational suffix ("Jr.", "III") or
//     either part contains digits. Names with more than one comma are kept.
func ArtistName(name string) string {
	name = strings.Join(strings.Fields(norm.NFC.String(name)), " ")
	if name == "" {
		return ""
	}

	if strings.HasSuffix(name, ")") {
		if i := strings.LastIndex(name, "("); i > 0 {
			name = strings.TrimSpace(name[:i])
		}
	}
	name = strings.TrimSpace(strings.TrimSuffix(name, ","))

	if isUpper(name) {
		name = cases.Title(language.Und).String(strings.ToLower(name))
	}

	if strings.Count(name, ",") == 1 {
		parts := strings.SplitN(name, ",", 2)
		last, firstName := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if last != "" && firstName != "" &&
			!nameSuffixes[strings.ToLower(firstName)] &&
			!hasDigit(last) && !hasDigit(firstName) {
			name = firstName + " " + last
		}
	}
	return name
}

func isUpper(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters = true
		}
	}
	return letters
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// Fold returns s in NFC with full Unicode case folding applied. Both sides of
// a case-insensitive match go through Fold so "Édouard" and "éDOUARD" agree.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
