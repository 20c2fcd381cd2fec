package service

import (
	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/model"
)

// rule is one independent recommendation check: a predicate over the metrics
// plus the message shown when it triggers. Predicates read fields through the
// optional accessors; a missing field means the rule does not apply, which is
// silent and never an error.
type rule struct {
	Name      string
	Message   string
	Triggered func(m *model.EnergyMetrics, cfg config.RulesConfig) bool
}

// Recommender evaluates an ordered list of threshold rules against an
// EnergyMetrics record. Pure and deterministic: the same record always
// produces the same list, in rule order.
type Recommender struct {
	cfg   config.RulesConfig
	rules []rule
}

// NewRecommender creates a recommender with the default rule set and the
// configured thresholds.
func NewRecommender(cfg config.RulesConfig) *Recommender {
	return &Recommender{
		cfg:   cfg,
		rules: defaultRules(),
	}
}

// defaultRules is the rule set in presentation-priority order. Adding a rule
// is a data change: append an entry, no evaluation code changes.
func defaultRules() []rule {
	return []rule{
		{
			Name:    "efficiency_audit",
			Message: "Your annual usage is high for a building of this profile. Consider a professional energy-efficiency audit.",
			Triggered: func(m *model.EnergyMetrics, cfg config.RulesConfig) bool {
				annual, ok := m.AnnualUsage()
				return ok && annual > cfg.HighUsageKWh
			},
		},
		{
			Name:    "solar_installation",
			Message: "Consider solar installation based on your usage pattern.",
			Triggered: func(m *model.EnergyMetrics, cfg config.RulesConfig) bool {
				solar, ok := m.Solar()
				return ok && solar > cfg.SolarPotentialMin
			},
		},
		{
			Name:    "hvac_scheduling",
			Message: "Optimize HVAC scheduling: your peak month runs well above your average.",
			Triggered: func(m *model.EnergyMetrics, cfg config.RulesConfig) bool {
				peak, ok := m.PeakMonth()
				if !ok {
					return false
				}
				mean, ok := m.MeanMonthlyUsage()
				if !ok || mean == 0 {
					return false
				}
				return peak.KWh > cfg.SeasonalSpikeRatio*mean
			},
		},
		{
			Name:    "efficient_lighting",
			Message: "Implement energy-efficient lighting.",
			Triggered: func(m *model.EnergyMetrics, cfg config.RulesConfig) bool {
				annual, ok := m.AnnualUsage()
				return ok && annual > cfg.LightingUsageKWh
			},
		},
		{
			Name:    "peak_monitoring",
			Message: "Monitor peak usage times: consumption varies widely between months.",
			Triggered: func(m *model.EnergyMetrics, cfg config.RulesConfig) bool {
				months, ok := m.Monthly()
				if !ok || len(months) < 2 {
					return false
				}
				min, max := months[0].KWh, months[0].KWh
				for _, mu := range months[1:] {
					if mu.KWh < min {
						min = mu.KWh
					}
					if mu.KWh > max {
						max = mu.KWh
					}
				}
				if min <= 0 {
					return false
				}
				return max/min > cfg.PeakSpreadRatio
			},
		},
	}
}

// Evaluate runs every rule against the metrics and returns the triggered
// recommendations in rule order. A nil record yields an empty list.
func (r *Recommender) Evaluate(m *model.EnergyMetrics) []model.Recommendation {
	recommendations := make([]model.Recommendation, 0, len(r.rules))
	if m == nil {
		return recommendations
	}
	for _, rule := range r.rules {
		if rule.Triggered(m, r.cfg) {
			recommendations = append(recommendations, model.Recommendation{
				Name:    rule.Name,
				Message: rule.Message,
			})
		}
	}
	return recommendations
}
