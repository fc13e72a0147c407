package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

// DocumentIndex is the full-text index behind document search.
type DocumentIndex interface {
	Index(ctx context.Context, d entity.Document) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

const defaultSearchSize = 20

type DocumentService struct {
	Repo      repo.DocumentRepository
	Investors repo.InvestorRepository
	Blobs     BlobStore
	Index     DocumentIndex
	Latency   *Latency
	Clock     Clock
	log       *logrus.Entry
}

func NewDocumentService(docs repo.DocumentRepository, investors repo.InvestorRepository, blobs BlobStore, index DocumentIndex, latency *Latency, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		Repo:      docs,
		Investors: investors,
		Blobs:     blobs,
		Index:     index,
		Latency:   latency,
		log:       serviceLog(logger, "documents"),
	}
}

type DocumentMeta struct {
	Title     string
	Type      string
	Date      time.Time
	ProjectID string
}

func (s *DocumentService) List(ctx context.Context) ([]entity.Document, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*entity.Document, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Upload stores a file for an investor and records it in the library.
func (s *DocumentService) Upload(ctx context.Context, investorID string, file FileUpload, meta DocumentMeta) (*entity.Document, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	inv, err := s.Investors.GetByID(ctx, investorID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.now()
	d := &entity.Document{
		ID:         newID(),
		Title:      strings.TrimSpace(meta.Title),
		Type:       meta.Type,
		Date:       meta.Date,
		InvestorID: inv.ID,
		ProjectID:  meta.ProjectID,
		CreatedAt:  now,
	}
	if d.Title == "" {
		d.Title = file.Filename
	}
	if d.Date.IsZero() {
		d.Date = now
	}
	url, err := s.Blobs.Put(ctx, file.objectPath("documents", inv.ID, d.ID), file.ContentType, file.Body)
	if err != nil {
		s.log.WithError(err).WithField("investor_id", inv.ID).Error("store document failed")
		return nil, fmt.Errorf("store document: %w", err)
	}
	d.URL = url
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, *d); err != nil {
			s.log.WithError(err).WithField("document_id", d.ID).Warn("index document failed")
		}
	}
	s.log.WithFields(logrus.Fields{"document_id": d.ID, "investor_id": inv.ID}).Info("document uploaded")
	return d, nil
}

// Search queries the index when one is configured and falls back to a title
// filter over the whole library otherwise.
func (s *DocumentService) Search(ctx context.Context, q string) ([]entity.Document, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return FilterDocuments(docs, DocumentFilter{Search: q}), nil
	}
	ids, err := s.Index.Search(ctx, q, defaultSearchSize)
	if err != nil {
		s.log.WithError(err).Warn("document search failed, using title filter")
		return FilterDocuments(docs, DocumentFilter{Search: q}), nil
	}
	byID := make(map[string]entity.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	out := make([]entity.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Reindex pushes every document to the index.
func (s *DocumentService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	n := 0
	for _, d := range docs {
		if err := s.Index.Index(ctx, d); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
