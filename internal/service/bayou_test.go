package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skulkarni3/energy-insights/internal/config"
)

func newTestBayouClient(serverURL string, enabled bool) *BayouClient {
	return NewBayouClient(&config.BayouConfig{
		APIKey:        "bayou-key",
		Utility:       "pacific_gas_and_electric",
		CustomerEmail: "test@example.com",
		Timeout:       5,
		PollInterval:  1,
		Enabled:       enabled,
	}, serverURL, testLogger())
}

func TestBayouClient_Disabled(t *testing.T) {
	client := newTestBayouClient("http://unused", false)

	if _, err := client.CreateCustomer(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Errorf("CreateCustomer error = %v, want ErrDisabled", err)
	}
	if _, _, err := client.GetConsumption(context.Background(), "1"); !errors.Is(err, ErrDisabled) {
		t.Errorf("GetConsumption error = %v, want ErrDisabled", err)
	}
}

func TestBayouClient_CreateCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/customers" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bayou-key" || pass != "" {
			t.Errorf("Expected basic auth with key as username, got %q/%q", user, pass)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode body: %v", err)
			return
		}
		if body["utility"] != "pacific_gas_and_electric" || body["email"] != "test@example.com" {
			t.Errorf("Unexpected body %v", body)
		}
		io.WriteString(w, `{"id": 42, "onboarding_link": "https://staging.bayou.energy/onboard/abc"}`)
	}))
	defer server.Close()

	customer, err := newTestBayouClient(server.URL, true).CreateCustomer(context.Background())
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if customer.ID != "42" {
		t.Errorf("ID = %q, want 42", customer.ID)
	}
	if customer.OnboardingLink == "" {
		t.Error("Expected onboarding link")
	}
}

func TestBayouClient_GetConsumption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/42/bills" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		// One gas meter to skip, one electric meter with Wh consumption,
		// one bill without consumption, one with a quoted number.
		io.WriteString(w, `[
			{
				"electricity_consumption": 1500000,
				"meters": [
					{"type": "gas", "billing_period_from": "2025-01-05", "billing_period_to": "2025-02-04"},
					{
						"type": "electric",
						"billing_period_from": "2025-01-05",
						"billing_period_to": "2025-02-04",
						"address": {"line_1": "123 Main St", "line_2": "Suite 4", "city": "Springfield", "state": "IL", "postal_code": "62704"}
					}
				]
			},
			{"meters": [{"type": "electric", "billing_period_from": "2025-02-05", "billing_period_to": "2025-03-04"}]},
			{
				"electricity_consumption": "980000",
				"meters": [{"type": "electric", "billing_period_from": "2025-02-05", "billing_period_to": "2025-03-04"}]
			}
		]`)
	}))
	defer server.Close()

	actuals, address, err := newTestBayouClient(server.URL, true).GetConsumption(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetConsumption failed: %v", err)
	}

	if len(actuals) != 2 {
		t.Fatalf("Expected 2 actuals, got %d: %+v", len(actuals), actuals)
	}
	if actuals[0].Value != 1500 {
		t.Errorf("First actual = %v kWh, want 1500 (Wh converted)", actuals[0].Value)
	}
	if actuals[0].Variable != "consumption.electricity" {
		t.Errorf("Variable = %q", actuals[0].Variable)
	}
	if actuals[0].FromDatetime != "2025-01-05" || actuals[0].ToDatetime != "2025-02-04" {
		t.Errorf("Billing period = %s..%s", actuals[0].FromDatetime, actuals[0].ToDatetime)
	}
	if actuals[1].Value != 980 {
		t.Errorf("Second actual = %v kWh, want 980 (quoted Wh converted)", actuals[1].Value)
	}

	want := "123 Main St Suite 4, Springfield, IL 62704"
	if address != want {
		t.Errorf("Service address = %q, want %q", address, want)
	}
}

func TestBayouClient_GetCustomerStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 42, "has_filled_credentials": true, "bills_are_ready": false}`)
	}))
	defer server.Close()

	customer, err := newTestBayouClient(server.URL, true).GetCustomer(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if !customer.HasFilledCredentials || customer.BillsAreReady {
		t.Errorf("Unexpected status %+v", customer)
	}
}
