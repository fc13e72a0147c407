package entity

import (
	"maps"
	"slices"
	"time"
)

type CommunicationType string

const (
	CommEmail        CommunicationType = "email"
	CommMessage      CommunicationType = "message"
	CommAnnouncement CommunicationType = "announcement"
)

func (t CommunicationType) Valid() bool {
	return t == CommEmail || t == CommMessage || t == CommAnnouncement
}

type CommunicationStatus string

const (
	CommDraft     CommunicationStatus = "draft"
	CommSent      CommunicationStatus = "sent"
	CommScheduled CommunicationStatus = "scheduled"
)

// Per-recipient delivery states.
const (
	DeliveryPending   = "pending"
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type CommunicationMetadata struct {
	ReadBy         []string          `json:"read_by"`
	DeliveryStatus map[string]string `json:"delivery_status"`
}

type Communication struct {
	ID            string                `json:"id"`
	Type          CommunicationType     `json:"type"`
	Subject       string                `json:"subject"`
	Content       string                `json:"content"`
	Sender        string                `json:"sender"`
	Recipients    []string              `json:"recipients"`
	Status        CommunicationStatus   `json:"status"`
	ScheduledDate *time.Time            `json:"scheduled_date,omitempty"`
	SentDate      *time.Time            `json:"sent_date,omitempty"`
	Attachments   []Attachment          `json:"attachments"`
	Metadata      CommunicationMetadata `json:"metadata"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func (c Communication) Clone() Communication {
	c.Recipients = slices.Clone(c.Recipients)
	c.Attachments = slices.Clone(c.Attachments)
	c.Metadata.ReadBy = slices.Clone(c.Metadata.ReadBy)
	c.Metadata.DeliveryStatus = maps.Clone(c.Metadata.DeliveryStatus)
	if c.ScheduledDate != nil {
		t := *c.ScheduledDate
		c.ScheduledDate = &t
	}
	if c.SentDate != nil {
		t := *c.SentDate
		c.SentDate = &t
	}
	return c
}

func (c Communication) Key() string { return c.ID }

// CommunicationStats aggregates the communications list.
// ReadRate and DeliveryRate are percentages over recipients of sent communications.
type CommunicationStats struct {
	Total        int     `json:"total"`
	Sent         int     `json:"sent"`
	Scheduled    int     `json:"scheduled"`
	Drafts       int     `json:"drafts"`
	ReadRate     float64 `json:"read_rate"`
	DeliveryRate float64 `json:"delivery_rate"`
}
