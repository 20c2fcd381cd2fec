package service

import (
	"reflect"
	"testing"

	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/model"
)

func testRulesConfig() config.RulesConfig {
	return config.RulesConfig{
		HighUsageKWh:       12000,
		LightingUsageKWh:   6000,
		SolarPotentialMin:  5,
		SeasonalSpikeRatio: 1.5,
		PeakSpreadRatio:    2.0,
	}
}

func metricsWith(annual, solar *float64, monthly []model.MonthlyUsage) *model.EnergyMetrics {
	return &model.EnergyMetrics{
		Address:        "123 Main St, Springfield",
		AnnualUsageKWh: annual,
		SolarPotential: solar,
		MonthlyUsage:   monthly,
	}
}

func hasRecommendation(recs []model.Recommendation, name string) bool {
	for _, r := range recs {
		if r.Name == name {
			return true
		}
	}
	return false
}

func TestRecommender_Scenario(t *testing.T) {
	// 15000 kWh annual usage and 8.2 solar potential should trigger both
	// the efficiency and the solar recommendation.
	recommender := NewRecommender(testRulesConfig())
	annual, solar := 15000.0, 8.2

	recs := recommender.Evaluate(metricsWith(&annual, &solar, nil))

	if !hasRecommendation(recs, "efficiency_audit") {
		t.Error("Expected efficiency_audit recommendation for 15000 kWh annual usage")
	}
	if !hasRecommendation(recs, "solar_installation") {
		t.Error("Expected solar_installation recommendation for solar potential 8.2")
	}
}

func TestRecommender_UsageThresholdMonotonic(t *testing.T) {
	recommender := NewRecommender(testRulesConfig())

	tests := []struct {
		name      string
		annual    float64
		wantAudit bool
	}{
		{"well below threshold", 4000, false},
		{"just below threshold", 11999, false},
		{"exactly at threshold", 12000, false},
		{"just above threshold", 12001, true},
		{"well above threshold", 30000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := recommender.Evaluate(metricsWith(&tt.annual, nil, nil))
			if got := hasRecommendation(recs, "efficiency_audit"); got != tt.wantAudit {
				t.Errorf("annual=%v: efficiency_audit=%v, want %v", tt.annual, got, tt.wantAudit)
			}
		})
	}
}

func TestRecommender_MissingSolarSkipsOnlySolarRule(t *testing.T) {
	recommender := NewRecommender(testRulesConfig())
	annual := 15000.0

	withSolar := 8.2
	withRecs := recommender.Evaluate(metricsWith(&annual, &withSolar, nil))
	withoutRecs := recommender.Evaluate(metricsWith(&annual, nil, nil))

	if hasRecommendation(withoutRecs, "solar_installation") {
		t.Error("Solar rule should be skipped when solar_potential is missing")
	}

	// Every non-solar recommendation must be unaffected by the missing field.
	for _, r := range withRecs {
		if r.Name == "solar_installation" {
			continue
		}
		if !hasRecommendation(withoutRecs, r.Name) {
			t.Errorf("Rule %s was affected by the missing solar field", r.Name)
		}
	}
}

func TestRecommender_Idempotent(t *testing.T) {
	recommender := NewRecommender(testRulesConfig())
	annual, solar := 15000.0, 8.2
	m := metricsWith(&annual, &solar, []model.MonthlyUsage{
		{Month: "January", KWh: 2000},
		{Month: "July", KWh: 500},
	})

	first := recommender.Evaluate(m)
	second := recommender.Evaluate(m)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Evaluate is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) < 2 {
		t.Fatalf("Expected multiple recommendations, got %d", len(first))
	}
}

func TestRecommender_SeasonalRulesNeedMonthlyData(t *testing.T) {
	recommender := NewRecommender(testRulesConfig())
	annual := 15000.0

	recs := recommender.Evaluate(metricsWith(&annual, nil, nil))
	if hasRecommendation(recs, "hvac_scheduling") {
		t.Error("hvac_scheduling should be skipped without monthly data")
	}
	if hasRecommendation(recs, "peak_monitoring") {
		t.Error("peak_monitoring should be skipped without monthly data")
	}

	// A flat profile triggers neither seasonal rule.
	flat := []model.MonthlyUsage{
		{Month: "January", KWh: 1000},
		{Month: "February", KWh: 1000},
		{Month: "March", KWh: 1000},
	}
	recs = recommender.Evaluate(metricsWith(&annual, nil, flat))
	if hasRecommendation(recs, "hvac_scheduling") {
		t.Error("hvac_scheduling should not trigger on a flat monthly profile")
	}

	// A strong summer spike triggers both.
	spiky := []model.MonthlyUsage{
		{Month: "January", KWh: 500},
		{Month: "February", KWh: 500},
		{Month: "July", KWh: 3000},
	}
	recs = recommender.Evaluate(metricsWith(&annual, nil, spiky))
	if !hasRecommendation(recs, "hvac_scheduling") {
		t.Error("hvac_scheduling should trigger on a seasonal spike")
	}
	if !hasRecommendation(recs, "peak_monitoring") {
		t.Error("peak_monitoring should trigger on a wide monthly spread")
	}
}

func TestRecommender_NilAndEmptyMetrics(t *testing.T) {
	recommender := NewRecommender(testRulesConfig())

	if recs := recommender.Evaluate(nil); len(recs) != 0 {
		t.Errorf("Expected no recommendations for nil metrics, got %d", len(recs))
	}
	if recs := recommender.Evaluate(&model.EnergyMetrics{}); len(recs) != 0 {
		t.Errorf("Expected no recommendations for empty metrics, got %d", len(recs))
	}
}
