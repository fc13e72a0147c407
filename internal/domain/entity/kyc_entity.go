package entity

import (
	"slices"
	"time"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

func (r RiskLevel) Valid() bool { return r == RiskLow || r == RiskMedium || r == RiskHigh }

type KYCStatus string

const (
	KYCApproved      KYCStatus = "Approved"
	KYCPendingReview KYCStatus = "PendingReview"
	KYCRejected      KYCStatus = "Rejected"
)

func (s KYCStatus) Valid() bool {
	return s == KYCApproved || s == KYCPendingReview || s == KYCRejected
}

type KYCDocumentStatus string

const (
	KYCDocValid         KYCDocumentStatus = "Valid"
	KYCDocExpired       KYCDocumentStatus = "Expired"
	KYCDocPendingReview KYCDocumentStatus = "PendingReview"
	KYCDocRejected      KYCDocumentStatus = "Rejected"
)

func (s KYCDocumentStatus) Valid() bool {
	switch s {
	case KYCDocValid, KYCDocExpired, KYCDocPendingReview, KYCDocRejected:
		return true
	}
	return false
}

// ExpiringSoonWindow is how far ahead a document expiry still counts as "expiring soon".
const ExpiringSoonWindow = 30 * 24 * time.Hour

// InvestorRef is the denormalized investor summary carried on a review.
type InvestorRef struct {
	Name string       `json:"name"`
	Type InvestorType `json:"type"`
}

type KYCDocument struct {
	ID         string            `json:"id"`
	ReviewID   string            `json:"review_id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	URL        string            `json:"url"`
	Status     KYCDocumentStatus `json:"status"`
	ExpiryDate *time.Time        `json:"expiry_date,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ExpiringSoon reports whether the expiry falls in (now, now+30d].
func (d KYCDocument) ExpiringSoon(now time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	left := d.ExpiryDate.Sub(now)
	return left > 0 && left <= ExpiringSoonWindow
}

type KYCReview struct {
	ID             string        `json:"id"`
	InvestorID     string        `json:"investor_id"`
	Investor       InvestorRef   `json:"investor"`
	RiskLevel      RiskLevel     `json:"risk_level"`
	Status         KYCStatus     `json:"status"`
	LastReviewDate time.Time     `json:"last_review_date"`
	NextReviewDate time.Time     `json:"next_review_date"`
	Documents      []KYCDocument `json:"documents"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (r KYCReview) Clone() KYCReview {
	r.Documents = slices.Clone(r.Documents)
	for i := range r.Documents {
		if e := r.Documents[i].ExpiryDate; e != nil {
			t := *e
			r.Documents[i].ExpiryDate = &t
		}
	}
	return r
}

func (r KYCReview) Key() string { return r.ID }

// KYCMetrics is the headline block of the KYC dashboard.
type KYCMetrics struct {
	Total         int `json:"total"`
	Approved      int `json:"approved"`
	PendingReview int `json:"pending_review"`
	Rejected      int `json:"rejected"`
	HighRisk      int `json:"high_risk"`
	ExpiringSoon  int `json:"expiring_soon"`
}

// RiskDistribution always reports all three levels.
type RiskDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}
