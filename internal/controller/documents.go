package controller

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

type Documents struct {
	*Collection[entity.Document]
	svc *application.DocumentService
}

func NewDocuments(svc *application.DocumentService, logger *logrus.Logger) *Documents {
	return &Documents{
		Collection: NewCollection("documents", svc.List, logger),
		svc:        svc,
	}
}

func (d *Documents) Upload(ctx context.Context, investorID string, file application.FileUpload, meta application.DocumentMeta) (*entity.Document, error) {
	return Mutation(ctx, d.Collection, func(ctx context.Context) (*entity.Document, error) {
		return d.svc.Upload(ctx, investorID, file, meta)
	})
}

func (d *Documents) Filter(f application.DocumentFilter) []entity.Document {
	return application.FilterDocuments(d.Items(), f)
}
