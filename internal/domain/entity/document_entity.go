package entity

import "time"

// Document is a file in the document library, optionally tied to an investor and a project.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	URL        string    `json:"url"`
	InvestorID string    `json:"investor_id,omitempty"`
	ProjectID  string    `json:"project_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d Document) Clone() Document { return d }
func (d Document) Key() string { return d.ID }
