package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestPalmettoClient(serverURL string) *PalmettoClient {
	return NewPalmettoClient(&config.PalmettoConfig{
		APIKey:  "test-key",
		APIBase: serverURL,
		Timeout: 5,
	}, testLogger())
}

func TestPalmettoClient_CalculateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("Expected X-API-Key header, got %q", got)
		}
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": {
				"annual_usage_kwh": 15000,
				"solar_potential": 8.2,
				"intervals": [
					{"from_datetime": "2025-01-01T00:00:00", "to_datetime": "2025-02-01T00:00:00", "variable": "consumption.electricity", "value": 1400},
					{"from_datetime": "2025-02-01T00:00:00", "to_datetime": "2025-03-01T00:00:00", "variable": "consumption.electricity", "value": 1200}
				]
			}
		}`)
	}))
	defer server.Close()

	metrics, err := newTestPalmettoClient(server.URL).Calculate(context.Background(), "123 Main St, Springfield", nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if annual, ok := metrics.AnnualUsage(); !ok || annual != 15000 {
		t.Errorf("AnnualUsage = %v, %v; want 15000, true", annual, ok)
	}
	if solar, ok := metrics.Solar(); !ok || solar != 8.2 {
		t.Errorf("Solar = %v, %v; want 8.2, true", solar, ok)
	}
	monthly, ok := metrics.Monthly()
	if !ok || len(monthly) != 2 {
		t.Fatalf("Monthly = %v, %v; want 2 months", monthly, ok)
	}
	if monthly[0].Month != "January" || monthly[0].KWh != 1400 {
		t.Errorf("First month = %+v, want January 1400", monthly[0])
	}
	if monthly[1].Month != "February" || monthly[1].KWh != 1200 {
		t.Errorf("Second month = %+v, want February 1200", monthly[1])
	}
}

func TestPalmettoClient_AnnualDerivedFromIntervals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"data": {
				"intervals": [
					{"from_datetime": "2025-01-01T00:00:00", "variable": "consumption.electricity", "value": 1000},
					{"from_datetime": "2025-02-01T00:00:00", "variable": "consumption.electricity", "value": 1250.5}
				]
			}
		}`)
	}))
	defer server.Close()

	metrics, err := newTestPalmettoClient(server.URL).Calculate(context.Background(), "123 Main St", nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	annual, ok := metrics.AnnualUsage()
	if !ok || annual != 2250.5 {
		t.Errorf("AnnualUsage = %v, %v; want sum of intervals 2250.5", annual, ok)
	}
	if _, ok := metrics.Solar(); ok {
		t.Error("Solar should be absent when the payload omits solar_potential")
	}
}

func TestPalmettoClient_MissingSolarStillBuildsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": {"annual_usage_kwh": 9000}}`)
	}))
	defer server.Close()

	metrics, err := newTestPalmettoClient(server.URL).Calculate(context.Background(), "123 Main St", nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if annual, ok := metrics.AnnualUsage(); !ok || annual != 9000 {
		t.Errorf("AnnualUsage = %v, %v; want 9000, true", annual, ok)
	}
	if _, ok := metrics.Solar(); ok {
		t.Error("Solar should be absent")
	}
	if _, ok := metrics.Monthly(); ok {
		t.Error("Monthly should be absent")
	}
}

func TestPalmettoClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "bad key"}`, ErrAuthentication},
		{"forbidden", http.StatusForbidden, `{}`, ErrAuthentication},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrTransport},
		{"server error", http.StatusInternalServerError, `{}`, ErrTransport},
		{"bad gateway", http.StatusBadGateway, `{}`, ErrTransport},
		{"unknown address", http.StatusUnprocessableEntity, `{"detail": "no data"}`, ErrInvalidResponse},
		{"not found", http.StatusNotFound, `{}`, ErrInvalidResponse},
		{"empty payload", http.StatusOK, `{"data": {}}`, ErrInvalidResponse},
		{"malformed payload", http.StatusOK, `not json`, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			metrics, err := newTestPalmettoClient(server.URL).Calculate(context.Background(), "123 Main St", nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Calculate error = %v, want %v", err, tt.wantErr)
			}
			if metrics != nil {
				t.Error("No metrics record may be constructed on an error path")
			}
		})
	}
}

func TestPalmettoClient_TimeoutIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := NewPalmettoClient(&config.PalmettoConfig{
		APIKey:  "test-key",
		APIBase: server.URL,
		Timeout: 1,
	}, testLogger())

	_, err := client.Calculate(context.Background(), "123 Main St", nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Timeout error = %v, want ErrTransport", err)
	}
}

func TestPalmettoClient_CheckServiceArea(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service-area" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") == "" || q.Get("lon") == "" || q.Get("postalCode") != "62704" {
			t.Errorf("Missing query params: %v", q)
		}
		io.WriteString(w, `{"in_service_area": true}`)
	}))
	defer server.Close()

	area, err := newTestPalmettoClient(server.URL).CheckServiceArea(context.Background(), 39.78, -89.65, "62704")
	if err != nil {
		t.Fatalf("CheckServiceArea failed: %v", err)
	}
	if !area.InServiceArea {
		t.Error("Expected in_service_area = true")
	}
}
