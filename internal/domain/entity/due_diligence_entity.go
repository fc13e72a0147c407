package entity

import (
	"slices"
	"time"
)

type DueDiligenceType string

const (
	DDInitialInvestment DueDiligenceType = "InitialInvestment"
	DDFollowOn          DueDiligenceType = "FollowOn"
	DDExit              DueDiligenceType = "Exit"
)

func (t DueDiligenceType) Valid() bool {
	return t == DDInitialInvestment || t == DDFollowOn || t == DDExit
}

type DueDiligenceStatus string

const (
	DDNotStarted  DueDiligenceStatus = "NotStarted"
	DDInProgress  DueDiligenceStatus = "InProgress"
	DDUnderReview DueDiligenceStatus = "UnderReview"
	DDCompleted   DueDiligenceStatus = "Completed"
)

func (s DueDiligenceStatus) Valid() bool {
	switch s {
	case DDNotStarted, DDInProgress, DDUnderReview, DDCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool { return p == PriorityHigh || p == PriorityMedium || p == PriorityLow }

type DDDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DDComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DueDiligenceItem tracks one investigation workflow. Progress is kept in [0,100].
type DueDiligenceItem struct {
	ID          string             `json:"id"`
	CompanyName string             `json:"company_name"`
	Type        DueDiligenceType   `json:"type"`
	StartDate   time.Time          `json:"start_date"`
	DueDate     time.Time          `json:"due_date"`
	Status      DueDiligenceStatus `json:"status"`
	Priority    Priority           `json:"priority"`
	AssignedTo  string             `json:"assigned_to"`
	Progress    int                `json:"progress"`
	Documents   []DDDocument       `json:"documents"`
	Comments    []DDComment        `json:"comments"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (d DueDiligenceItem) Clone() DueDiligenceItem {
	d.Documents = slices.Clone(d.Documents)
	d.Comments = slices.Clone(d.Comments)
	return d
}

func (d DueDiligenceItem) Key() string { return d.ID }

// ClampProgress bounds p to [0,100].
func ClampProgress(p int) int {
	return max(0, min(100, p))
}
