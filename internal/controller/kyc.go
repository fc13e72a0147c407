package controller

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// KYC holds the review list plus the dashboard aggregates. Every mutation
// reloads the reviews and the aggregates together.
type KYC struct {
	*Collection[entity.KYCReview]
	Metrics      *Value[entity.KYCMetrics]
	Distribution *Value[entity.RiskDistribution]
	Activity     *Value[[]entity.KYCReview]

	svc *application.KYCService
}

func NewKYC(svc *application.KYCService, logger *logrus.Logger) *KYC {
	return &KYC{
		Collection:   NewCollection("kyc", svc.ListReviews, logger),
		Metrics:      NewValue("kyc.metrics", svc.Metrics, logger),
		Distribution: NewValue("kyc.risk", svc.RiskDistribution, logger),
		Activity: NewValue("kyc.activity", func(ctx context.Context) ([]entity.KYCReview, error) {
			return svc.RecentActivity(ctx, application.DefaultActivityLimit)
		}, logger),
		svc: svc,
	}
}

// LoadAll loads reviews and aggregates concurrently and returns the first error.
func (k *KYC) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return k.Load(ctx) })
	g.Go(func() error { return k.Metrics.Load(ctx) })
	g.Go(func() error { return k.Distribution.Load(ctx) })
	g.Go(func() error { return k.Activity.Load(ctx) })
	return g.Wait()
}

func (k *KYC) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := k.Collection.Mutate(ctx, fn); err != nil {
		return err
	}
	// each aggregate records its own failure; one failing must not stop the others
	var g errgroup.Group
	g.Go(func() error { return k.Metrics.Load(ctx) })
	g.Go(func() error { return k.Distribution.Load(ctx) })
	g.Go(func() error { return k.Activity.Load(ctx) })
	_ = g.Wait()
	return nil
}

func (k *KYC) CreateReview(ctx context.Context, in application.CreateReviewInput) (*entity.KYCReview, error) {
	var out *entity.KYCReview
	err := k.mutate(ctx, func(ctx context.Context) (err error) {
		out, err = k.svc.CreateReview(ctx, in)
		return err
	})
	return out, err
}

func (k *KYC) UpdateReview(ctx context.Context, id string, in application.UpdateReviewInput) (*entity.KYCReview, error) {
	var out *entity.KYCReview
	err := k.mutate(ctx, func(ctx context.Context) (err error) {
		out, err = k.svc.UpdateReview(ctx, id, in)
		return err
	})
	return out, err
}

func (k *KYC) UpdateStatus(ctx context.Context, id string, status entity.KYCStatus) (bool, error) {
	var ok bool
	err := k.mutate(ctx, func(ctx context.Context) (err error) {
		ok, err = k.svc.UpdateReviewStatus(ctx, id, status)
		return err
	})
	return ok, err
}

func (k *KYC) UploadDocument(ctx context.Context, reviewID string, file application.FileUpload, meta application.KYCDocumentMeta) (*entity.KYCDocument, error) {
	var out *entity.KYCDocument
	err := k.mutate(ctx, func(ctx context.Context) (err error) {
		out, err = k.svc.UploadDocument(ctx, reviewID, file, meta)
		return err
	})
	return out, err
}

func (k *KYC) UpdateDocumentStatus(ctx context.Context, reviewID, docID string, status entity.KYCDocumentStatus) (*entity.KYCDocument, error) {
	var out *entity.KYCDocument
	err := k.mutate(ctx, func(ctx context.Context) (err error) {
		out, err = k.svc.UpdateDocumentStatus(ctx, reviewID, docID, status)
		return err
	})
	return out, err
}

func (k *KYC) Filter(f application.KYCFilter) []entity.KYCReview {
	return application.FilterKYC(k.Items(), f)
}

func (k *KYC) Close() {
	k.Collection.Close()
	k.Metrics.Close()
	k.Distribution.Close()
	k.Activity.Close()
}
