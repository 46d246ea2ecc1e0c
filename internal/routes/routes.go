// Package routes derives route numbers, names and color classes from the
// composite route strings returned by the transit service.
package routes

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"stoplens.dev/internal/models"
)

// ExtractNumber returns the route number of a composite route string.
// "504-King" and "35 Jane" both carry their number as the leading token.
func ExtractNumber(raw string) string {
	number, _ := split(raw)
	return number
}

// Name returns the route name, the remainder after the route number.
func Name(raw string) string {
	_, name := split(raw)
	return name
}

// ParseRef splits a composite route string into its parts.
func ParseRef(raw string) models.RouteRef {
	number, name := split(raw)
	return models.RouteRef{
		Raw:    raw,
		Number: number,
		Name:   name,
		Color:  ColorClass(number),
	}
}

// split takes the first "-" separated segment as the number and rejoins the
// rest with "-". When that segment still contains a space the string uses the
// space convention and the number is its first word instead.
func split(raw string) (string, string) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, "-")
	first := strings.TrimSpace(parts[0])
	if !strings.ContainsAny(first, " \t") {
		return first, strings.TrimSpace(strings.Join(parts[1:], "-"))
	}
	number, name, _ := strings.Cut(s, " ")
	return number, strings.TrimSpace(name)
}

// ColorClass classifies a route number. Three digit numbers starting with 3
// are express, 9 night and 4 limited; every other number is standard.
func ColorClass(number string) models.ColorClass {
	if len(number) != 3 || !isDigits(number) {
		return models.ColorStandard
	}
	switch number[0] {
	case '3':
		return models.ColorExpress
	case '9':
		return models.ColorNight
	case '4':
		return models.ColorLimited
	default:
		return models.ColorStandard
	}
}

// NumericKey strips every non-digit from raw and parses what is left. It
// reports false when no digits remain.
func NumericKey(raw string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Sort orders route strings ascending by NumericKey. The sort is stable and
// strings without digits go last.
func Sort(raw []string) []string {
	out := make([]string, len(raw))
	copy(out, raw)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// SortRefs is Sort for parsed refs, keyed on the raw string.
func SortRefs(refs []models.RouteRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		return less(refs[i].Raw, refs[j].Raw)
	})
}

func less(a, b string) bool {
	ka, okA := NumericKey(a)
	kb, okB := NumericKey(b)
	switch {
	case okA && okB:
		return ka < kb
	case okA:
		return true
	default:
		return false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
