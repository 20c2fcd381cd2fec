package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The external providers own their payload schemas and are not consistent
// about them: timestamps arrive with or without zone offsets, and numeric
// fields occasionally arrive as quoted strings. Everything here parses
// defensively instead of trusting the wire format.

// timestampLayouts are tried in order when parsing a provider timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp string from a provider payload.
// It accepts RFC3339 as well as the zone-less ISO variants the energy
// providers actually send.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// MonthName returns the full English month name for a provider timestamp,
// or ("", false) if the timestamp cannot be parsed.
func MonthName(s string) (string, bool) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return "", false
	}
	return t.Month().String(), true
}

// FlexFloat is a float64 that unmarshals from either a JSON number or a
// quoted numeric string. Utility providers send consumption values both ways.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, "\"") {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return err
		}
		s = strings.TrimSpace(quoted)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}
