package application

import (
	"strings"
	"time"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// Filters are pure: they never touch a repository. Every unset field matches
// everything; set fields must all match. Order of the input is preserved.

type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t lies in [From, To]; a nil bound is open.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// DueDiligenceFilter selects items. Search matches company name or assignee;
// Due constrains DueDate.
type DueDiligenceFilter struct {
	Search     string
	Type       entity.DueDiligenceType
	Status     entity.DueDiligenceStatus
	Priority   entity.Priority
	AssignedTo string
	Due        DateRange
}

func (f DueDiligenceFilter) Match(d entity.DueDiligenceItem) bool {
	if f.Search != "" && !containsFold(d.CompanyName, f.Search) && !containsFold(d.AssignedTo, f.Search) {
		return false
	}
	if f.Type != "" && d.Type != f.Type {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.Priority != "" && d.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != "" && !containsFold(d.AssignedTo, f.AssignedTo) {
		return false
	}
	return f.Due.Contains(d.DueDate)
}

func FilterDueDiligence(items []entity.DueDiligenceItem, f DueDiligenceFilter) []entity.DueDiligenceItem {
	return filter(items, f.Match)
}

// DocumentFilter selects library documents. Search matches the title; Date constrains Date.
type DocumentFilter struct {
	Search     string
	Type       string
	InvestorID string
	ProjectID  string
	Date       DateRange
}

func (f DocumentFilter) Match(d entity.Document) bool {
	if f.Search != "" && !containsFold(d.Title, f.Search) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(d.Type, f.Type) {
		return false
	}
	if f.InvestorID != "" && d.InvestorID != f.InvestorID {
		return false
	}
	if f.ProjectID != "" && d.ProjectID != f.ProjectID {
		return false
	}
	return f.Date.Contains(d.Date)
}

func FilterDocuments(docs []entity.Document, f DocumentFilter) []entity.Document {
	return filter(docs, f.Match)
}

// UserFilter selects users by free text over name and email, role and status.
type UserFilter struct {
	Search string
	Role   entity.Role
	Status entity.UserStatus
}

func (f UserFilter) Match(u entity.User) bool {
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	return f.Status == "" || u.Status == f.Status
}

func FilterUsers(users []entity.User, f UserFilter) []entity.User {
	return filter(users, f.Match)
}

// KYCFilter selects reviews by investor name, status and risk level.
type KYCFilter struct {
	Search    string
	Status    entity.KYCStatus
	RiskLevel entity.RiskLevel
}

func (f KYCFilter) Match(r entity.KYCReview) bool {
	if f.Search != "" && !containsFold(r.Investor.Name, f.Search) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return f.RiskLevel == "" || r.RiskLevel == f.RiskLevel
}

func FilterKYC(reviews []entity.KYCReview, f KYCFilter) []entity.KYCReview {
	return filter(reviews, f.Match)
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
