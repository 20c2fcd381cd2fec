package model

// EnergyMetrics is the normalized view of a Palmetto calculate response for a
// single address. The provider owns the payload schema and may omit fields,
// so everything beyond the address is optional; use the accessors instead of
// dereferencing the pointers directly.
type EnergyMetrics struct {
	Address        string         `json:"address"`
	AnnualUsageKWh *float64       `json:"annual_usage_kwh,omitempty"`
	SolarPotential *float64       `json:"solar_potential,omitempty"`
	MonthlyUsage   []MonthlyUsage `json:"monthly_usage,omitempty"`
}

// MonthlyUsage is one month of predicted electricity consumption.
type MonthlyUsage struct {
	Month string  `json:"month"` // full month name, calendar order
	KWh   float64 `json:"kwh"`
}

// AnnualUsage returns the predicted annual consumption in kWh.
func (m *EnergyMetrics) AnnualUsage() (float64, bool) {
	if m == nil || m.AnnualUsageKWh == nil {
		return 0, false
	}
	return *m.AnnualUsageKWh, true
}

// Solar returns the estimated solar potential for the address.
func (m *EnergyMetrics) Solar() (float64, bool) {
	if m == nil || m.SolarPotential == nil {
		return 0, false
	}
	return *m.SolarPotential, true
}

// Monthly returns the month-by-month usage breakdown.
func (m *EnergyMetrics) Monthly() ([]MonthlyUsage, bool) {
	if m == nil || len(m.MonthlyUsage) == 0 {
		return nil, false
	}
	return m.MonthlyUsage, true
}

// PeakMonth returns the month with the highest predicted usage.
func (m *EnergyMetrics) PeakMonth() (MonthlyUsage, bool) {
	months, ok := m.Monthly()
	if !ok {
		return MonthlyUsage{}, false
	}
	peak := months[0]
	for _, mu := range months[1:] {
		if mu.KWh > peak.KWh {
			peak = mu
		}
	}
	return peak, true
}

// MeanMonthlyUsage returns the average monthly consumption in kWh.
func (m *EnergyMetrics) MeanMonthlyUsage() (float64, bool) {
	months, ok := m.Monthly()
	if !ok {
		return 0, false
	}
	var total float64
	for _, mu := range months {
		total += mu.KWh
	}
	return total / float64(len(months)), true
}

// ServiceArea is the result of a Palmetto service-area check for a location.
type ServiceArea struct {
	InServiceArea bool   `json:"in_service_area"`
	PostalCode    string `json:"postal_code,omitempty"`
}
