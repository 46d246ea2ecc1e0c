package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The transit service is loosely typed: numbers arrive as JSON numbers, as
// quoted strings, as null, or not at all. The types below decode all of those
// shapes and treat anything unparseable as absent instead of failing the
// whole response.

// OptionalInt is an integer that may be absent. Only values within the int32
// range decode as present.
type OptionalInt struct {
	Value int
	Valid bool
}

// IntOf returns a present OptionalInt.
func IntOf(n int) OptionalInt {
	return OptionalInt{Value: n, Valid: true}
}

// Ptr returns nil when the value is absent.
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	n := o.Value
	return &n
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	*o = OptionalInt{}
	s, ok := scalarText(b)
	if !ok {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= -math.MaxInt32 && n <= math.MaxInt32 {
			*o = IntOf(n)
		}
		return nil
	}
	// Out-of-range values stay absent.
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && math.Abs(f) <= math.MaxInt32 {
		*o = IntOf(int(f))
	}
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(o.Value), 10), nil
}

// OptionalFloat is a floating point value that may be absent.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// FloatOf returns a present OptionalFloat.
func FloatOf(f float64) OptionalFloat {
	return OptionalFloat{Value: f, Valid: true}
}

func (o *OptionalFloat) UnmarshalJSON(b []byte) error {
	*o = OptionalFloat{}
	s, ok := scalarText(b)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*o = FloatOf(f)
	return nil
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, o.Value, 'f', -1, 64), nil
}

// FlexString decodes a JSON string or number into its text form. Objects,
// arrays, booleans and null decode to the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	*s = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		*s = FlexString(strings.TrimSpace(str))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = FlexString(string(b))
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// scalarText returns the trimmed text of a JSON number or string literal.
func scalarText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return "", false
		}
		str = strings.TrimSpace(str)
		return str, str != ""
	}
	if b[0] == '-' || (b[0] >= '0' && b[0] <= '9') {
		return string(b), true
	}
	return "", false
}
