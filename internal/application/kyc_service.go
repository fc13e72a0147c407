package application

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

// DefaultActivityLimit is how many reviews RecentActivity returns when no limit is given.
const DefaultActivityLimit = 10

type KYCService struct {
	Repo      repo.KYCRepository
	Investors repo.InvestorRepository
	Blobs     BlobStore
	Latency   *Latency
	Clock     Clock
	log       *logrus.Entry
}

func NewKYCService(reviews repo.KYCRepository, investors repo.InvestorRepository, blobs BlobStore, latency *Latency, logger *logrus.Logger) *KYCService {
	return &KYCService{
		Repo:      reviews,
		Investors: investors,
		Blobs:     blobs,
		Latency:   latency,
		log:       serviceLog(logger, "kyc"),
	}
}

type CreateReviewInput struct {
	InvestorID     string
	RiskLevel      entity.RiskLevel
	Status         entity.KYCStatus
	LastReviewDate time.Time
	NextReviewDate time.Time
}

type UpdateReviewInput struct {
	RiskLevel      *entity.RiskLevel
	Status         *entity.KYCStatus
	LastReviewDate *time.Time
	NextReviewDate *time.Time
}

type KYCDocumentMeta struct {
	Name       string
	Type       string
	ExpiryDate *time.Time
}

func (s *KYCService) ListReviews(ctx context.Context) ([]entity.KYCReview, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	reviews, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kyc reviews: %w", err)
	}
	return reviews, nil
}

func (s *KYCService) GetReview(ctx context.Context, id string) (*entity.KYCReview, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

// CreateReview opens a review for an existing investor.
// Missing status defaults to PendingReview, missing risk to Medium and
// missing dates to today / one year out.
func (s *KYCService) CreateReview(ctx context.Context, in CreateReviewInput) (*entity.KYCReview, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if in.InvestorID == "" {
		return nil, entity.NewValidationError("investor_id", "is required")
	}
	inv, err := s.Investors.GetByID(ctx, in.InvestorID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, entity.NewValidationError("investor_id", "investor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve investor: %w", err)
	}
	if in.RiskLevel == "" {
		in.RiskLevel = entity.RiskMedium
	}
	if !in.RiskLevel.Valid() {
		return nil, entity.NewValidationError("risk_level", "must be Low, Medium or High")
	}
	if in.Status == "" {
		in.Status = entity.KYCPendingReview
	}
	if !in.Status.Valid() {
		return nil, entity.NewValidationError("status", "must be Approved, PendingReview or Rejected")
	}

	now := s.Clock.now()
	if in.LastReviewDate.IsZero() {
		in.LastReviewDate = now
	}
	if in.NextReviewDate.IsZero() {
		in.NextReviewDate = in.LastReviewDate.AddDate(1, 0, 0)
	}
	r := &entity.KYCReview{
		ID:             newID(),
		InvestorID:     inv.ID,
		Investor:       entity.InvestorRef{Name: inv.Name, Type: inv.Type},
		RiskLevel:      in.RiskLevel,
		Status:         in.Status,
		LastReviewDate: in.LastReviewDate,
		NextReviewDate: in.NextReviewDate,
		Documents:      []entity.KYCDocument{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create kyc review: %w", err)
	}
	s.log.WithFields(logrus.Fields{"review_id": r.ID, "investor_id": r.InvestorID}).Info("kyc review created")
	return r, nil
}

func (s *KYCService) UpdateReview(ctx context.Context, id string, in UpdateReviewInput) (*entity.KYCReview, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RiskLevel != nil {
		if !in.RiskLevel.Valid() {
			return nil, entity.NewValidationError("risk_level", "must be Low, Medium or High")
		}
		r.RiskLevel = *in.RiskLevel
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, entity.NewValidationError("status", "must be Approved, PendingReview or Rejected")
		}
		r.Status = *in.Status
	}
	if in.LastReviewDate != nil {
		r.LastReviewDate = *in.LastReviewDate
	}
	if in.NextReviewDate != nil {
		r.NextReviewDate = *in.NextReviewDate
	}
	r.UpdatedAt = s.Clock.now()
	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.log.WithField("review_id", r.ID).Info("kyc review updated")
	return r, nil
}

func (s *KYCService) UpdateReviewStatus(ctx context.Context, id string, status entity.KYCStatus) (bool, error) {
	if _, err := s.UpdateReview(ctx, id, UpdateReviewInput{Status: &status}); err != nil {
		return false, err
	}
	return true, nil
}

// UploadDocument stores the file and appends it to the review's document list.
func (s *KYCService) UploadDocument(ctx context.Context, reviewID string, file FileUpload, meta KYCDocumentMeta) (*entity.KYCDocument, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	r, err := s.Repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.now()
	doc := entity.KYCDocument{
		ID:         newID(),
		ReviewID:   r.ID,
		Name:       meta.Name,
		Type:       meta.Type,
		Status:     entity.KYCDocPendingReview,
		ExpiryDate: meta.ExpiryDate,
		CreatedAt:  now,
	}
	if doc.Name == "" {
		doc.Name = file.Filename
	}
	url, err := s.Blobs.Put(ctx, file.objectPath("kyc", r.ID, doc.ID), file.ContentType, file.Body)
	if err != nil {
		s.log.WithError(err).WithField("review_id", r.ID).Error("store kyc document failed")
		return nil, fmt.Errorf("store kyc document: %w", err)
	}
	doc.URL = url

	r.Documents = append(r.Documents, doc)
	r.UpdatedAt = now
	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"review_id": r.ID, "document_id": doc.ID}).Info("kyc document uploaded")
	return &doc, nil
}

func (s *KYCService) UpdateDocumentStatus(ctx context.Context, reviewID, docID string, status entity.KYCDocumentStatus) (*entity.KYCDocument, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, entity.NewValidationError("status", "must be Valid, Expired, PendingReview or Rejected")
	}
	r, err := s.Repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(r.Documents, func(d entity.KYCDocument) bool { return d.ID == docID })
	if i < 0 {
		return nil, entity.NotFoundError("kyc document", docID)
	}
	r.Documents[i].Status = status
	r.UpdatedAt = s.Clock.now()
	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, err
	}
	doc := r.Documents[i]
	return &doc, nil
}

func (s *KYCService) Metrics(ctx context.Context) (entity.KYCMetrics, error) {
	reviews, err := s.ListReviews(ctx)
	if err != nil {
		return entity.KYCMetrics{}, err
	}
	return ComputeKYCMetrics(reviews, s.Clock.now()), nil
}

func (s *KYCService) RiskDistribution(ctx context.Context) (entity.RiskDistribution, error) {
	reviews, err := s.ListReviews(ctx)
	if err != nil {
		return entity.RiskDistribution{}, err
	}
	return ComputeRiskDistribution(reviews), nil
}

func (s *KYCService) RecentActivity(ctx context.Context, limit int) ([]entity.KYCReview, error) {
	reviews, err := s.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return RecentActivity(reviews, limit), nil
}

// ComputeKYCMetrics counts reviews by status and risk, plus documents expiring within 30 days.
func ComputeKYCMetrics(reviews []entity.KYCReview, now time.Time) entity.KYCMetrics {
	m := entity.KYCMetrics{Total: len(reviews)}
	for _, r := range reviews {
		switch r.Status {
		case entity.KYCApproved:
			m.Approved++
		case entity.KYCPendingReview:
			m.PendingReview++
		case entity.KYCRejected:
			m.Rejected++
		}
		if r.RiskLevel == entity.RiskHigh {
			m.HighRisk++
		}
		for _, d := range r.Documents {
			if d.ExpiringSoon(now) {
				m.ExpiringSoon++
			}
		}
	}
	return m
}

func ComputeRiskDistribution(reviews []entity.KYCReview) entity.RiskDistribution {
	var d entity.RiskDistribution
	for _, r := range reviews {
		switch r.RiskLevel {
		case entity.RiskHigh:
			d.High++
		case entity.RiskMedium:
			d.Medium++
		case entity.RiskLow:
			d.Low++
		}
	}
	return d
}

// RecentActivity returns the most recently updated reviews first, at most limit of them.
func RecentActivity(reviews []entity.KYCReview, limit int) []entity.KYCReview {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b entity.KYCReview) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
