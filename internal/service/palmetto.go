package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/utils"
)

// PalmettoClient calls the Palmetto Energy Insights API (building energy
// model). One Calculate call per insight lookup, no retries: a failed call
// surfaces a typed error and the user resubmits.
type PalmettoClient struct {
	config     *config.PalmettoConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPalmettoClient creates a new Palmetto Energy Insights client
func NewPalmettoClient(cfg *config.PalmettoConfig, logger *logrus.Logger) *PalmettoClient {
	return &PalmettoClient{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// calculateRequest is the payload for the BEM calculate endpoint.
type calculateRequest struct {
	Parameters  calculateParameters `json:"parameters"`
	Location    calculateLocation   `json:"location"`
	Consumption *consumptionBlock   `json:"consumption,omitempty"`
}

type calculateParameters struct {
	FromDatetime string   `json:"from_datetime"`
	ToDatetime   string   `json:"to_datetime"`
	Variables    []string `json:"variables"`
	GroupBy      string   `json:"group_by"`
}

type calculateLocation struct {
	Address string `json:"address"`
}

type consumptionBlock struct {
	Actuals []model.ConsumptionActual `json:"actuals"`
}

// calculateResponse mirrors the slice of the provider payload we consume.
// The schema is owned by Palmetto and may grow or omit fields; everything
// beyond the interval list is optional.
type calculateResponse struct {
	Data struct {
		AnnualUsageKWh *utils.FlexFloat    `json:"annual_usage_kwh"`
		SolarPotential *utils.FlexFloat    `json:"solar_potential"`
		Intervals      []calculateInterval `json:"intervals"`
	} `json:"data"`
}

type calculateInterval struct {
	FromDatetime string          `json:"from_datetime"`
	ToDatetime   string          `json:"to_datetime"`
	Variable     string          `json:"variable"`
	Value        utils.FlexFloat `json:"value"`
}

// Calculate runs the building energy model for an address and returns the
// normalized metrics. Billed consumption actuals, when available from the
// utility integration, are attached so the model calibrates against real
// usage instead of pure prediction.
func (c *PalmettoClient) Calculate(ctx context.Context, address string, actuals []model.ConsumptionActual) (*model.EnergyMetrics, error) {
	from, to := modelYearWindow(time.Now())
	req := calculateRequest{
		Parameters: calculateParameters{
			FromDatetime: from,
			ToDatetime:   to,
			Variables:    []string{"consumption.electricity"},
			GroupBy:      "month",
		},
		Location: calculateLocation{Address: address},
	}
	if len(actuals) > 0 {
		req.Consumption = &consumptionBlock{Actuals: actuals}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.APIBase, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"address": address,
		}).Warn("Palmetto calculate request failed")
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	var result calculateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return buildMetrics(address, &result)
}

// buildMetrics normalizes a calculate response into EnergyMetrics. Optional
// provider fields stay optional on the record; only a payload with neither
// an annual figure nor usable intervals is rejected.
func buildMetrics(address string, resp *calculateResponse) (*model.EnergyMetrics, error) {
	metrics := &model.EnergyMetrics{Address: address}

	// Aggregate intervals per month, preserving the provider's chronological
	// order so the breakdown renders January through December.
	var order []string
	totals := make(map[string]float64)
	for _, iv := range resp.Data.Intervals {
		month, ok := utils.MonthName(iv.FromDatetime)
		if !ok {
			continue
		}
		if _, seen := totals[month]; !seen {
			order = append(order, month)
		}
		totals[month] += iv.Value.Float64()
	}
	for _, month := range order {
		metrics.MonthlyUsage = append(metrics.MonthlyUsage, model.MonthlyUsage{
			Month: month,
			KWh:   totals[month],
		})
	}

	if resp.Data.AnnualUsageKWh != nil {
		annual := resp.Data.AnnualUsageKWh.Float64()
		metrics.AnnualUsageKWh = &annual
	} else if len(metrics.MonthlyUsage) > 0 {
		// No explicit annual figure; derive it from the monthly breakdown.
		var annual float64
		for _, mu := range metrics.MonthlyUsage {
			annual += mu.KWh
		}
		metrics.AnnualUsageKWh = &annual
	}

	if resp.Data.SolarPotential != nil {
		solar := resp.Data.SolarPotential.Float64()
		metrics.SolarPotential = &solar
	}

	if metrics.AnnualUsageKWh == nil && metrics.SolarPotential == nil {
		return nil, fmt.Errorf("%w: payload has no usable metric fields", ErrInvalidResponse)
	}

	return metrics, nil
}

// CheckServiceArea asks Palmetto whether it services a location.
func (c *PalmettoClient) CheckServiceArea(ctx context.Context, lat, lon float64, postalCode string) (*model.ServiceArea, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("postalCode", postalCode)

	reqURL := fmt.Sprintf("%s/service-area?%s", c.config.APIBase, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	// The flag has moved between the top level and a data envelope across
	// provider versions; accept either.
	var result struct {
		InServiceArea *bool `json:"in_service_area"`
		Data          struct {
			InServiceArea *bool `json:"in_service_area"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	area := &model.ServiceArea{PostalCode: postalCode}
	switch {
	case result.InServiceArea != nil:
		area.InServiceArea = *result.InServiceArea
	case result.Data.InServiceArea != nil:
		area.InServiceArea = *result.Data.InServiceArea
	default:
		return nil, fmt.Errorf("%w: missing in_service_area field", ErrInvalidResponse)
	}
	return area, nil
}

// modelYearWindow returns the calculate window covering the current calendar
// year, formatted the way the BEM endpoint expects (zone-less ISO).
func modelYearWindow(now time.Time) (string, string) {
	const layout = "2006-01-02T15:04:05"
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)
	return from.Format(layout), to.Format(layout)
}
