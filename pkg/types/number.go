package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a numeric input field that accepts either a JSON/YAML number or a
// numeric string. The landing page posts every form value as a string, so the
// raw text is kept and only parsed when the load list is coerced.
// A null, missing or empty-string value leaves the Number unset.
type Number struct {
	raw string
	set bool
}

// NewNumber returns a Number holding f.
func NewNumber(f float64) Number {
	return Number{raw: strconv.FormatFloat(f, 'f', -1, 64), set: true}
}

// NumberFromString returns a Number holding the raw text s. It is not parsed
// until Float is called.
func NumberFromString(s string) Number {
	if strings.TrimSpace(s) == "" {
		return Number{}
	}
	return Number{raw: s, set: true}
}

// IsSet reports whether a value was supplied.
func (n Number) IsSet() bool {
	return n.set
}

// Raw returns the text as it was received.
func (n Number) Raw() string {
	return n.raw
}

// Float parses the number. ok is false when no value was supplied.
func (n Number) Float() (f float64, ok bool, err error) {
	if !n.set {
		return 0, false, nil
	}
	f, err = strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil {
		return 0, true, fmt.Errorf("not a number: %q", n.raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("not a finite number: %q", n.raw)
	}
	return f, true, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberFromString(s)
		return nil
	}
	// anything else (numbers, but also bools or objects) is kept verbatim and
	// rejected during coercion so the error can name the field
	*n = Number{raw: string(b), set: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if f, _, err := n.Float(); err == nil {
		return json.Marshal(f)
	}
	return json.Marshal(n.raw)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar number", value.Line)
	}
	if value.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	*n = NumberFromString(value.Value)
	return nil
}
