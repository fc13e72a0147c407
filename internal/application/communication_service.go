package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
	"github.com/oksasatya/pulse-backoffice/pkg/mailer"
)

// Publisher hands outbound jobs to the delivery queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type CommunicationService struct {
	Repo      repo.CommunicationRepository
	Investors repo.InvestorRepository
	Pub       Publisher
	Latency   *Latency
	Clock     Clock
	log       *logrus.Entry
}

func NewCommunicationService(comms repo.CommunicationRepository, investors repo.InvestorRepository, pub Publisher, latency *Latency, logger *logrus.Logger) *CommunicationService {
	return &CommunicationService{
		Repo:      comms,
		Investors: investors,
		Pub:       pub,
		Latency:   latency,
		log:       serviceLog(logger, "communications"),
	}
}

type CreateCommunicationInput struct {
	Type          entity.CommunicationType
	Subject       string
	Content       string
	Sender        string
	Recipients    []string
	ScheduledDate *time.Time
	Attachments   []entity.Attachment
}

type UpdateCommunicationInput struct {
	Type        *entity.CommunicationType
	Subject     *string
	Content     *string
	Recipients  []string
	Attachments []entity.Attachment
}

func (s *CommunicationService) List(ctx context.Context) ([]entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	comms, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	return comms, nil
}

func (s *CommunicationService) Get(ctx context.Context, id string) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Create stores a draft, or a scheduled communication when ScheduledDate is set.
func (s *CommunicationService) Create(ctx context.Context, in CreateCommunicationInput) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	var errs []entity.FieldError
	if !in.Type.Valid() {
		errs = append(errs, entity.FieldError{Field: "type", Message: "must be email, message or announcement"})
	}
	if strings.TrimSpace(in.Subject) == "" {
		errs = append(errs, entity.FieldError{Field: "subject", Message: "is required"})
	}
	now := s.Clock.now()
	if in.ScheduledDate != nil && !in.ScheduledDate.After(now) {
		errs = append(errs, entity.FieldError{Field: "scheduled_date", Message: "must be in the future"})
	}
	if len(errs) > 0 {
		return nil, &entity.ValidationError{Errors: errs}
	}

	c := &entity.Communication{
		ID:            newID(),
		Type:          in.Type,
		Subject:       strings.TrimSpace(in.Subject),
		Content:       in.Content,
		Sender:        in.Sender,
		Recipients:    recipientSet(in.Recipients),
		Status:        entity.CommDraft,
		ScheduledDate: in.ScheduledDate,
		Attachments:   in.Attachments,
		Metadata: entity.CommunicationMetadata{
			ReadBy:         []string{},
			DeliveryStatus: map[string]string{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Attachments == nil {
		c.Attachments = []entity.Attachment{}
	}
	if c.ScheduledDate != nil {
		c.Status = entity.CommScheduled
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create communication: %w", err)
	}
	s.log.WithFields(logrus.Fields{"communication_id": c.ID, "status": c.Status}).Info("communication created")
	return c, nil
}

// Update edits a draft or scheduled communication; sent ones are read-only.
func (s *CommunicationService) Update(ctx context.Context, id string, in UpdateCommunicationInput) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == entity.CommSent {
		return nil, entity.NewValidationError("status", "sent communications cannot be edited")
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, entity.NewValidationError("type", "must be email, message or announcement")
		}
		c.Type = *in.Type
	}
	if in.Subject != nil {
		subject := strings.TrimSpace(*in.Subject)
		if subject == "" {
			return nil, entity.NewValidationError("subject", "is required")
		}
		c.Subject = subject
	}
	if in.Content != nil {
		c.Content = *in.Content
	}
	if in.Recipients != nil {
		c.Recipients = recipientSet(in.Recipients)
	}
	if in.Attachments != nil {
		c.Attachments = in.Attachments
	}
	c.UpdatedAt = s.Clock.now()
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommunicationService) Delete(ctx context.Context, id string) error {
	if err := s.Latency.Wait(ctx); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("communication_id", id).Info("communication deleted")
	return nil
}

// Schedule moves a draft to scheduled for delivery at the given time.
func (s *CommunicationService) Schedule(ctx context.Context, id string, at time.Time) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == entity.CommSent {
		return nil, entity.NewValidationError("status", "communication was already sent")
	}
	now := s.Clock.now()
	if !at.After(now) {
		return nil, entity.NewValidationError("scheduled_date", "must be in the future")
	}
	c.Status = entity.CommScheduled
	c.ScheduledDate = &at
	c.UpdatedAt = now
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Send marks the communication sent and queues one delivery job per recipient
// for email and announcement types. A recipient whose job cannot be queued is
// recorded as failed in the delivery status.
func (s *CommunicationService) Send(ctx context.Context, id string) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, c)
}

func (s *CommunicationService) send(ctx context.Context, c *entity.Communication) (*entity.Communication, error) {
	if c.Status == entity.CommSent {
		return nil, entity.NewValidationError("status", "communication was already sent")
	}
	if len(c.Recipients) == 0 {
		return nil, entity.NewValidationError("recipients", "at least one recipient is required")
	}
	now := s.Clock.now()
	c.Status = entity.CommSent
	c.SentDate = &now
	if c.Metadata.DeliveryStatus == nil {
		c.Metadata.DeliveryStatus = map[string]string{}
	}
	for _, r := range c.Recipients {
		c.Metadata.DeliveryStatus[r] = entity.DeliverySent
	}
	if c.Type != entity.CommMessage {
		s.dispatch(ctx, c)
	}
	c.UpdatedAt = now
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"communication_id": c.ID, "recipients": len(c.Recipients)}).Info("communication sent")
	return c, nil
}

func (s *CommunicationService) dispatch(ctx context.Context, c *entity.Communication) {
	if s.Pub == nil {
		return
	}
	for _, r := range c.Recipients {
		to, err := s.resolveAddress(ctx, r)
		if err != nil {
			s.log.WithError(err).WithField("recipient", r).Warn("cannot resolve recipient address")
			c.Metadata.DeliveryStatus[r] = entity.DeliveryFailed
			continue
		}
		job := mailer.EmailJob{
			CommunicationID: c.ID,
			Recipient:       r,
			To:              to,
			Subject:         c.Subject,
			Text:            c.Content,
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			s.log.WithError(err).WithField("recipient", r).Warn("publish delivery job failed")
			c.Metadata.DeliveryStatus[r] = entity.DeliveryFailed
		}
	}
}

// resolveAddress maps an investor id to its email; anything containing "@" is used as is.
func (s *CommunicationService) resolveAddress(ctx context.Context, recipient string) (string, error) {
	if strings.Contains(recipient, "@") {
		return recipient, nil
	}
	if s.Investors == nil {
		return "", entity.NotFoundError("investor", recipient)
	}
	inv, err := s.Investors.GetByID(ctx, recipient)
	if err != nil {
		return "", err
	}
	if inv.Email == "" {
		return "", fmt.Errorf("investor %q has no email: %w", recipient, entity.ErrValidation)
	}
	return inv.Email, nil
}

// SendDue sends every scheduled communication whose date has passed and
// returns how many went out.
func (s *CommunicationService) SendDue(ctx context.Context) (int, error) {
	comms, err := s.Repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list communications: %w", err)
	}
	now := s.Clock.now()
	sent := 0
	var errs []error
	for i := range comms {
		c := comms[i]
		if c.Status != entity.CommScheduled || c.ScheduledDate == nil || c.ScheduledDate.After(now) {
			continue
		}
		if _, err := s.send(ctx, &c); err != nil {
			errs = append(errs, fmt.Errorf("send %s: %w", c.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// MarkRead records that recipient opened the communication.
func (s *CommunicationService) MarkRead(ctx context.Context, id, recipient string) (*entity.Communication, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != entity.CommSent {
		return nil, entity.NewValidationError("status", "only sent communications can be read")
	}
	if !slices.Contains(c.Recipients, recipient) {
		return nil, entity.NewValidationError("recipient", "is not a recipient of this communication")
	}
	if !slices.Contains(c.Metadata.ReadBy, recipient) {
		c.Metadata.ReadBy = append(c.Metadata.ReadBy, recipient)
	}
	c.Metadata.DeliveryStatus[recipient] = entity.DeliveryDelivered
	c.UpdatedAt = s.Clock.now()
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordDelivery stores the outcome reported by the delivery worker.
// A recipient who has already read the communication stays delivered.
func (s *CommunicationService) RecordDelivery(ctx context.Context, id, recipient, status string) error {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slices.Contains(c.Metadata.ReadBy, recipient) {
		return nil
	}
	if c.Metadata.DeliveryStatus == nil {
		c.Metadata.DeliveryStatus = map[string]string{}
	}
	c.Metadata.DeliveryStatus[recipient] = status
	c.UpdatedAt = s.Clock.now()
	return s.Repo.Update(ctx, c)
}

func (s *CommunicationService) Stats(ctx context.Context) (entity.CommunicationStats, error) {
	comms, err := s.List(ctx)
	if err != nil {
		return entity.CommunicationStats{}, err
	}
	return ComputeCommunicationStats(comms), nil
}

// ComputeCommunicationStats counts by status. Over the recipients of sent
// communications, ReadRate is the share in ReadBy and DeliveryRate the share
// whose delivery status is delivered; both are percentages rounded to one decimal.
func ComputeCommunicationStats(comms []entity.Communication) entity.CommunicationStats {
	st := entity.CommunicationStats{Total: len(comms)}
	var recipients, read, delivered int
	for _, c := range comms {
		switch c.Status {
		case entity.CommSent:
			st.Sent++
		case entity.CommScheduled:
			st.Scheduled++
		case entity.CommDraft:
			st.Drafts++
		}
		if c.Status != entity.CommSent {
			continue
		}
		for _, r := range c.Recipients {
			recipients++
			if slices.Contains(c.Metadata.ReadBy, r) {
				read++
			}
			if c.Metadata.DeliveryStatus[r] == entity.DeliveryDelivered {
				delivered++
			}
		}
	}
	if recipients > 0 {
		st.ReadRate = percent(read, recipients)
		st.DeliveryRate = percent(delivered, recipients)
	}
	return st
}

func percent(n, total int) float64 {
	return float64(int(float64(n)/float64(total)*1000+0.5)) / 10
}

func recipientSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
