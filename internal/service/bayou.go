package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/utils"
)

// BayouClient calls the Bayou utility-data API. The integration is optional:
// when no API key is configured the client reports disabled and every call
// returns ErrDisabled.
//
// Bayou authenticates with HTTP basic auth, API key as username and an empty
// password.
type BayouClient struct {
	config     *config.BayouConfig
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewBayouClient creates a new Bayou utility-data client
func NewBayouClient(cfg *config.BayouConfig, baseURL string, logger *logrus.Logger) *BayouClient {
	return &BayouClient{
		config:  cfg,
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *BayouClient) IsEnabled() bool {
	return c.config.Enabled
}

// customerPayload mirrors the slice of a Bayou customer object the UI needs.
type customerPayload struct {
	ID                   json.Number `json:"id"`
	OnboardingLink       string      `json:"onboarding_link"`
	HasFilledCredentials bool        `json:"has_filled_credentials"`
	BillsAreReady        bool        `json:"bills_are_ready"`
}

func (p *customerPayload) toModel() *model.UtilityCustomer {
	return &model.UtilityCustomer{
		ID:                   p.ID.String(),
		OnboardingLink:       p.OnboardingLink,
		HasFilledCredentials: p.HasFilledCredentials,
		BillsAreReady:        p.BillsAreReady,
	}
}

// billPayload is one utility bill with its meters. Consumption arrives in
// watt-hours and sometimes as a quoted string.
type billPayload struct {
	ElectricityConsumption *utils.FlexFloat `json:"electricity_consumption"`
	Meters                 []meterPayload   `json:"meters"`
}

type meterPayload struct {
	Type              string        `json:"type"`
	BillingPeriodFrom string        `json:"billing_period_from"`
	BillingPeriodTo   string        `json:"billing_period_to"`
	Address           *meterAddress `json:"address"`
}

type meterAddress struct {
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// CreateCustomer creates a Bayou customer for the configured utility and
// returns it with the onboarding link the user must complete.
func (c *BayouClient) CreateCustomer(ctx context.Context) (*model.UtilityCustomer, error) {
	if !c.config.Enabled {
		return nil, ErrDisabled
	}

	reqBody, err := json.Marshal(map[string]string{
		"utility": c.config.Utility,
		"email":   c.config.CustomerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var payload customerPayload
	if err := c.do(ctx, "POST", c.baseURL+"/customers", reqBody, &payload); err != nil {
		return nil, err
	}
	if payload.OnboardingLink == "" {
		return nil, fmt.Errorf("%w: customer created without onboarding link", ErrInvalidResponse)
	}

	c.logger.WithField("customer_id", payload.ID.String()).Info("Created Bayou customer")
	return payload.toModel(), nil
}

// GetCustomer fetches the current state of a Bayou customer, including the
// readiness flags the UI polls.
func (c *BayouClient) GetCustomer(ctx context.Context, customerID string) (*model.UtilityCustomer, error) {
	if !c.config.Enabled {
		return nil, ErrDisabled
	}

	var payload customerPayload
	if err := c.do(ctx, "GET", fmt.Sprintf("%s/customers/%s", c.baseURL, customerID), nil, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// WaitForBills polls the customer until its bills are ready or ctx expires.
// The poll interval comes from configuration; Bayou processes uploads in the
// low tens of seconds, so callers should bound ctx accordingly.
func (c *BayouClient) WaitForBills(ctx context.Context, customerID string) error {
	if !c.config.Enabled {
		return ErrDisabled
	}

	ticker := time.NewTicker(time.Duration(c.config.PollInterval) * time.Second)
	defer ticker.Stop()

	for {
		customer, err := c.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if customer.BillsAreReady {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
		case <-ticker.C:
		}
	}
}

// GetConsumption fetches a customer's bills and maps them to consumption
// actuals for the energy model: one reading per bill, taken from the first
// electric meter with a billing period, watt-hours converted to kWh. The
// returned address is the service address from the first bill's electric
// meter, empty when no meter carries one.
func (c *BayouClient) GetConsumption(ctx context.Context, customerID string) ([]model.ConsumptionActual, string, error) {
	if !c.config.Enabled {
		return nil, "", ErrDisabled
	}

	var bills []billPayload
	if err := c.do(ctx, "GET", fmt.Sprintf("%s/customers/%s/bills", c.baseURL, customerID), nil, &bills); err != nil {
		return nil, "", err
	}

	var actuals []model.ConsumptionActual
	var serviceAddress string
	for _, bill := range bills {
		if bill.ElectricityConsumption == nil {
			continue
		}
		for _, meter := range bill.Meters {
			if meter.Type != "electric" {
				continue
			}
			if serviceAddress == "" && meter.Address != nil {
				serviceAddress = meter.Address.format()
			}
			if meter.BillingPeriodFrom == "" || meter.BillingPeriodTo == "" {
				continue
			}
			actuals = append(actuals, model.ConsumptionActual{
				FromDatetime: meter.BillingPeriodFrom,
				ToDatetime:   meter.BillingPeriodTo,
				Variable:     "consumption.electricity",
				Value:        bill.ElectricityConsumption.Float64() / 1000, // Wh -> kWh
			})
			break // one reading per bill
		}
	}

	return actuals, serviceAddress, nil
}

// format assembles the meter address components into one display string.
func (a *meterAddress) format() string {
	var b strings.Builder
	b.WriteString(a.Line1)
	if a.Line2 != "" {
		b.WriteString(" " + a.Line2)
	}
	fmt.Fprintf(&b, ", %s, %s %s", a.City, a.State, a.PostalCode)
	return b.String()
}

// do performs one authenticated request and decodes the response, applying
// the shared error taxonomy.
func (c *BayouClient) do(ctx context.Context, method, url string, reqBody []byte, target interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.SetBasicAuth(c.config.APIKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    url,
		}).Warn("Bayou request failed")
		return classifyStatus(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
