package model

import "time"

// InsightRequest represents an insight lookup submitted from the UI
type InsightRequest struct {
	Address string `json:"address" binding:"required"`
	// UtilityCustomerID optionally references a connected Bayou customer
	// whose billed consumption refines the energy model.
	UtilityCustomerID string `json:"utility_customer_id,omitempty"`
}

// Recommendation is a single suggestion produced by one threshold rule.
type Recommendation struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// InsightResponse is the full result of one insight lookup
type InsightResponse struct {
	LookupID        string           `json:"lookup_id"`
	Address         string           `json:"address"`
	Metrics         *EnergyMetrics   `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Cached          bool             `json:"cached,omitempty"`
	Took            int64            `json:"took_ms"` // Response time in milliseconds
}

// AddressSuggestion is one autocomplete candidate for a partial address
type AddressSuggestion struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// FeedbackRequest represents user feedback on a recommendation
type FeedbackRequest struct {
	LookupID       string `json:"lookup_id" binding:"required"`
	Recommendation string `json:"recommendation,omitempty"` // rule name; empty means the lookup overall
	Action         string `json:"action" binding:"required"` // helpful, not_helpful, dismissed
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LookupRecord is one row of insight lookup history.
type LookupRecord struct {
	LookupID        string    `json:"lookup_id" db:"lookup_id"`
	Address         string    `json:"address" db:"address"`
	AnnualUsageKWh  *float64  `json:"annual_usage_kwh,omitempty" db:"annual_usage_kwh"`
	SolarPotential  *float64  `json:"solar_potential,omitempty" db:"solar_potential"`
	Recommendations int       `json:"recommendations" db:"recommendations"`
	Status          string    `json:"status" db:"status"` // ok or an error category
	Took            int64     `json:"took_ms" db:"took_ms"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
