package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/model"
)

const (
	placesAutocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"
	placesDetailsURL      = "https://maps.googleapis.com/maps/api/place/details/json"
)

// PlacesClient resolves partial addresses to full US street addresses with
// coordinates via Google Places Autocomplete + Place Details. Optional, same
// enablement rule as the other integrations.
type PlacesClient struct {
	config     *config.MapsConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPlacesClient creates a new Google Places autocomplete client
func NewPlacesClient(cfg *config.MapsConfig, logger *logrus.Logger) *PlacesClient {
	return &PlacesClient{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *PlacesClient) IsEnabled() bool {
	return c.config.Enabled
}

// Suggest returns address candidates for a partial query. Each autocomplete
// prediction is resolved through Place Details for its formatted address and
// coordinates; a prediction that fails to resolve is dropped rather than
// failing the whole suggestion list.
func (c *PlacesClient) Suggest(ctx context.Context, query string) ([]model.AddressSuggestion, error) {
	if !c.config.Enabled {
		return nil, ErrDisabled
	}
	if query == "" {
		return []model.AddressSuggestion{}, nil
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("key", c.config.APIKey)
	params.Set("components", "country:"+c.config.Country)
	params.Set("types", "address")

	var autocomplete struct {
		Predictions []struct {
			PlaceID string `json:"place_id"`
		} `json:"predictions"`
	}
	if err := c.get(ctx, placesAutocompleteURL+"?"+params.Encode(), &autocomplete); err != nil {
		return nil, err
	}

	suggestions := make([]model.AddressSuggestion, 0, len(autocomplete.Predictions))
	for _, prediction := range autocomplete.Predictions {
		detailsParams := url.Values{}
		detailsParams.Set("place_id", prediction.PlaceID)
		detailsParams.Set("key", c.config.APIKey)
		detailsParams.Set("fields", "formatted_address,geometry")

		var details struct {
			Result struct {
				FormattedAddress string `json:"formatted_address"`
				Geometry         struct {
					Location struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"location"`
				} `json:"geometry"`
			} `json:"result"`
		}
		if err := c.get(ctx, placesDetailsURL+"?"+detailsParams.Encode(), &details); err != nil {
			c.logger.WithError(err).WithField("place_id", prediction.PlaceID).
				Debug("Skipping unresolvable place")
			continue
		}
		if details.Result.FormattedAddress == "" {
			continue
		}
		suggestions = append(suggestions, model.AddressSuggestion{
			Address: details.Result.FormattedAddress,
			Lat:     details.Result.Geometry.Location.Lat,
			Lng:     details.Result.Geometry.Location.Lng,
		})
	}

	return suggestions, nil
}

func (c *PlacesClient) get(ctx context.Context, url string, target interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
