package entity

import "time"

type InvestorType string

const (
	InvestorIndividual    InvestorType = "Individual"
	InvestorInstitutional InvestorType = "Institutional"
	InvestorFamilyOffice  InvestorType = "FamilyOffice"
	InvestorFundOfFunds   InvestorType = "FundOfFunds"
)

// Investor is a limited partner referenced by KYC reviews and documents.
type Investor struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      InvestorType `json:"type"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"created_at"`
}

func (i Investor) Clone() Investor { return i }
func (i Investor) Key() string { return i.ID }
