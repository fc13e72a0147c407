package entity

import "time"

// Fund holds the performance figures shown on the fund views. Amounts are in USD.
type Fund struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Vintage     int       `json:"vintage"`
	AUM         float64   `json:"aum"`
	Committed   float64   `json:"committed"`
	Called      float64   `json:"called"`
	Distributed float64   `json:"distributed"`
	IRR         float64   `json:"irr"`
	Multiple    float64   `json:"multiple"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f Fund) Clone() Fund { return f }
func (f Fund) Key() string { return f.ID }

type FundPerformance struct {
	FundCount      int     `json:"fund_count"`
	TotalAUM       float64 `json:"total_aum"`
	TotalCommitted float64 `json:"total_committed"`
	TotalCalled    float64 `json:"total_called"`
	TotalDistrib   float64 `json:"total_distributed"`
	WeightedIRR    float64 `json:"weighted_irr"`
	AvgMultiple    float64 `json:"avg_multiple"`
}
