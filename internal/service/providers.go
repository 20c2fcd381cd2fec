package service

import (
	"context"

	"github.com/skulkarni3/energy-insights/internal/model"
)

// EnergyAPI is the interface for the energy-data provider.
type EnergyAPI interface {
	// Calculate runs the energy model for an address, optionally calibrated
	// with billed consumption actuals.
	Calculate(ctx context.Context, address string, actuals []model.ConsumptionActual) (*model.EnergyMetrics, error)

	// CheckServiceArea reports whether the provider services a location.
	CheckServiceArea(ctx context.Context, lat, lon float64, postalCode string) (*model.ServiceArea, error)
}

// UtilityAPI is the interface for the utility-data provider.
type UtilityAPI interface {
	CreateCustomer(ctx context.Context) (*model.UtilityCustomer, error)
	GetCustomer(ctx context.Context, customerID string) (*model.UtilityCustomer, error)
	WaitForBills(ctx context.Context, customerID string) error
	GetConsumption(ctx context.Context, customerID string) ([]model.ConsumptionActual, string, error)

	// IsEnabled returns whether the provider is configured and ready
	IsEnabled() bool
}

// AddressAPI is the interface for address autocomplete.
type AddressAPI interface {
	Suggest(ctx context.Context, query string) ([]model.AddressSuggestion, error)
	IsEnabled() bool
}

// Ensure the concrete clients implement their interfaces
var (
	_ EnergyAPI  = (*PalmettoClient)(nil)
	_ UtilityAPI = (*BayouClient)(nil)
	_ AddressAPI = (*PlacesClient)(nil)
)
