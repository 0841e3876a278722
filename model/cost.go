package model

// DateInterval represents a time period for cost analysis
type DateInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BilledSpend is the month-to-date spend reported by the billing export
type BilledSpend struct {
	DateInterval
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// SavingsByReason aggregates potential savings per classification reason
type SavingsByReason struct {
	Reason  ReasonCode
	Count   int
	Savings float64
}
