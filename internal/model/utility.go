package model

// UtilityCustomer is the state of a Bayou customer as the UI needs it: the
// onboarding link to hand to the user, then the two readiness flags the UI
// polls before asking for insights with billed consumption attached.
type UtilityCustomer struct {
	ID                   string `json:"id"`
	OnboardingLink       string `json:"onboarding_link,omitempty"`
	HasFilledCredentials bool   `json:"has_filled_credentials"`
	BillsAreReady        bool   `json:"bills_are_ready"`
}

// ConsumptionActual is one billed consumption interval forwarded to the
// energy model as ground truth.
type ConsumptionActual struct {
	FromDatetime string  `json:"from_datetime"`
	ToDatetime   string  `json:"to_datetime"`
	Variable     string  `json:"variable"`
	Value        float64 `json:"value"` // kWh
}
