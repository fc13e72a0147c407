package controller

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

type DueDiligence struct {
	*Collection[entity.DueDiligenceItem]
	svc *application.DueDiligenceService
}

func NewDueDiligence(svc *application.DueDiligenceService, logger *logrus.Logger) *DueDiligence {
	return &DueDiligence{
		Collection: NewCollection("due_diligence", svc.List, logger),
		svc:        svc,
	}
}

func (d *DueDiligence) Create(ctx context.Context, in application.CreateDueDiligenceInput) (*entity.DueDiligenceItem, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DueDiligenceItem, error) {
		return d.svc.Create(ctx, in)
	})
}

func (d *DueDiligence) Update(ctx context.Context, id string, in application.UpdateDueDiligenceInput) (*entity.DueDiligenceItem, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DueDiligenceItem, error) {
		return d.svc.Update(ctx, id, in)
	})
}

func (d *DueDiligence) UpdateStatus(ctx context.Context, id string, status entity.DueDiligenceStatus) (*entity.DueDiligenceItem, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DueDiligenceItem, error) {
		return d.svc.UpdateStatus(ctx, id, status)
	})
}

func (d *DueDiligence) UpdateProgress(ctx context.Context, id string, p int) (*entity.DueDiligenceItem, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DueDiligenceItem, error) {
		return d.svc.UpdateProgress(ctx, id, p)
	})
}

func (d *DueDiligence) AddComment(ctx context.Context, id, author, text string) (*entity.DDComment, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DDComment, error) {
		return d.svc.AddComment(ctx, id, author, text)
	})
}

func (d *DueDiligence) UploadDocument(ctx context.Context, id string, file application.FileUpload, name, docType string) (*entity.DDDocument, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.DDDocument, error) {
		return d.svc.UploadDocument(ctx, id, file, name, docType)
	})
}

// Filter applies f to the loaded items. An empty filter returns them all in order.
func (d *DueDiligence) Filter(f application.DueDiligenceFilter) []entity.DueDiligenceItem {
	return application.FilterDueDiligence(d.Items(), f)
}
