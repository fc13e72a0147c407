package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

type DueDiligenceService struct {
	Repo    repo.DueDiligenceRepository
	Blobs   BlobStore
	Latency *Latency
	Clock   Clock
	log     *logrus.Entry
}

func NewDueDiligenceService(items repo.DueDiligenceRepository, blobs BlobStore, latency *Latency, logger *logrus.Logger) *DueDiligenceService {
	return &DueDiligenceService{
		Repo:    items,
		Blobs:   blobs,
		Latency: latency,
		log:     serviceLog(logger, "due_diligence"),
	}
}

type CreateDueDiligenceInput struct {
	CompanyName string
	Type        entity.DueDiligenceType
	StartDate   time.Time
	DueDate     time.Time
	Status      entity.DueDiligenceStatus
	Priority    entity.Priority
	AssignedTo  string
	Progress    int
}

type UpdateDueDiligenceInput struct {
	CompanyName *string
	Type        *entity.DueDiligenceType
	StartDate   *time.Time
	DueDate     *time.Time
	Status      *entity.DueDiligenceStatus
	Priority    *entity.Priority
	AssignedTo  *string
	Progress    *int
}

func (s *DueDiligenceService) List(ctx context.Context) ([]entity.DueDiligenceItem, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	items, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list due diligence items: %w", err)
	}
	return items, nil
}

func (s *DueDiligenceService) Get(ctx context.Context, id string) (*entity.DueDiligenceItem, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DueDiligenceService) Create(ctx context.Context, in CreateDueDiligenceInput) (*entity.DueDiligenceItem, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	var errs []entity.FieldError
	if strings.TrimSpace(in.CompanyName) == "" {
		errs = append(errs, entity.FieldError{Field: "company_name", Message: "is required"})
	}
	if !in.Type.Valid() {
		errs = append(errs, entity.FieldError{Field: "type", Message: "must be InitialInvestment, FollowOn or Exit"})
	}
	if in.Status == "" {
		in.Status = entity.DDNotStarted
	}
	if !in.Status.Valid() {
		errs = append(errs, entity.FieldError{Field: "status", Message: "must be NotStarted, InProgress, UnderReview or Completed"})
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if !in.Priority.Valid() {
		errs = append(errs, entity.FieldError{Field: "priority", Message: "must be High, Medium or Low"})
	}
	if len(errs) > 0 {
		return nil, &entity.ValidationError{Errors: errs}
	}

	now := s.Clock.now()
	if in.StartDate.IsZero() {
		in.StartDate = now
	}
	d := &entity.DueDiligenceItem{
		ID:          newID(),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Type:        in.Type,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Progress:    entity.ClampProgress(in.Progress),
		Documents:   []entity.DDDocument{},
		Comments:    []entity.DDComment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create due diligence item: %w", err)
	}
	s.log.WithFields(logrus.Fields{"item_id": d.ID, "company": d.CompanyName}).Info("due diligence item created")
	return d, nil
}

// Update merges the non-nil fields of in. Progress is clamped to [0,100].
func (s *DueDiligenceService) Update(ctx context.Context, id string, in UpdateDueDiligenceInput) (*entity.DueDiligenceItem, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyName != nil {
		name := strings.TrimSpace(*in.CompanyName)
		if name == "" {
			return nil, entity.NewValidationError("company_name", "is required")
		}
		d.CompanyName = name
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, entity.NewValidationError("type", "must be InitialInvestment, FollowOn or Exit")
		}
		d.Type = *in.Type
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, entity.NewValidationError("status", "must be NotStarted, InProgress, UnderReview or Completed")
		}
		d.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, entity.NewValidationError("priority", "must be High, Medium or Low")
		}
		d.Priority = *in.Priority
	}
	if in.StartDate != nil {
		d.StartDate = *in.StartDate
	}
	if in.DueDate != nil {
		d.DueDate = *in.DueDate
	}
	if in.AssignedTo != nil {
		d.AssignedTo = strings.TrimSpace(*in.AssignedTo)
	}
	if in.Progress != nil {
		d.Progress = entity.ClampProgress(*in.Progress)
	}
	d.UpdatedAt = s.Clock.now()
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.log.WithField("item_id", d.ID).Info("due diligence item updated")
	return d, nil
}

func (s *DueDiligenceService) UpdateStatus(ctx context.Context, id string, status entity.DueDiligenceStatus) (*entity.DueDiligenceItem, error) {
	return s.Update(ctx, id, UpdateDueDiligenceInput{Status: &status})
}

// UpdateProgress sets progress to max(0, min(100, p)).
func (s *DueDiligenceService) UpdateProgress(ctx context.Context, id string, p int) (*entity.DueDiligenceItem, error) {
	return s.Update(ctx, id, UpdateDueDiligenceInput{Progress: &p})
}

func (s *DueDiligenceService) AddComment(ctx context.Context, id, author, text string) (*entity.DDComment, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, entity.NewValidationError("text", "is required")
	}
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Clock.now()
	c := entity.DDComment{ID: newID(), Author: author, Text: strings.TrimSpace(text), CreatedAt: now}
	d.Comments = append(d.Comments, c)
	d.UpdatedAt = now
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DueDiligenceService) UploadDocument(ctx context.Context, id string, file FileUpload, name, docType string) (*entity.DDDocument, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Clock.now()
	doc := entity.DDDocument{ID: newID(), Name: name, Type: docType, UploadedAt: now}
	if doc.Name == "" {
		doc.Name = file.Filename
	}
	url, err := s.Blobs.Put(ctx, file.objectPath("due-diligence", d.ID, doc.ID), file.ContentType, file.Body)
	if err != nil {
		s.log.WithError(err).WithField("item_id", d.ID).Error("store due diligence document failed")
		return nil, fmt.Errorf("store due diligence document: %w", err)
	}
	doc.URL = url
	d.Documents = append(d.Documents, doc)
	d.UpdatedAt = now
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return &doc, nil
}
