package utils

import (
	"encoding/json"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"RFC3339", "2025-01-01T00:00:00Z", false},
		{"RFC3339 with offset", "2025-06-15T12:30:00-07:00", false},
		{"zone-less ISO", "2025-01-01T00:00:00", false},
		{"space separated", "2025-01-01 00:00:00", false},
		{"date only", "2025-01-01", false},
		{"padded", "  2025-01-01  ", false},
		{"empty", "", true},
		{"garbage", "next tuesday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2025-01-01T00:00:00", "January", true},
		{"2025-07-15T00:00:00Z", "July", true},
		{"2025-12-31", "December", true},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		got, ok := MonthName(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("MonthName(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"number", `{"v": 1500.5}`, 1500.5, false},
		{"integer", `{"v": 42}`, 42, false},
		{"quoted number", `{"v": "980000"}`, 980000, false},
		{"quoted float", `{"v": "8.2"}`, 8.2, false},
		{"null", `{"v": null}`, 0, false},
		{"empty string", `{"v": ""}`, 0, false},
		{"non-numeric string", `{"v": "lots"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target struct {
				V FlexFloat `json:"v"`
			}
			err := json.Unmarshal([]byte(tt.input), &target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && target.V.Float64() != tt.want {
				t.Errorf("FlexFloat = %v, want %v", target.V.Float64(), tt.want)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123 Main St, Springfield", "123 main st springfield"},
		{"  123   MAIN st.  Springfield ", "123 main st springfield"},
		{"123 Main St; Springfield, IL 62704", "123 main st springfield il 62704"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeAddress(tt.input); got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
