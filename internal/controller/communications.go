package controller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

type Communications struct {
	*Collection[entity.Communication]
	svc *application.CommunicationService
}

func NewCommunications(svc *application.CommunicationService, logger *logrus.Logger) *Communications {
	return &Communications{
		Collection: NewCollection("communications", svc.List, logger),
		svc:        svc,
	}
}

func (c *Communications) Create(ctx context.Context, in application.CreateCommunicationInput) (*entity.Communication, error) {
	return Mutation(ctx, c.Collection, func(ctx context.Context) (*entity.Communication, error) {
		return c.svc.Create(ctx, in)
	})
}

func (c *Communications) Update(ctx context.Context, id string, in application.UpdateCommunicationInput) (*entity.Communication, error) {
	return Mutation(ctx, c.Collection, func(ctx context.Context) (*entity.Communication, error) {
		return c.svc.Update(ctx, id, in)
	})
}

func (c *Communications) Delete(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(ctx context.Context) error {
		return c.svc.Delete(ctx, id)
	})
}

func (c *Communications) Send(ctx context.Context, id string) (*entity.Communication, error) {
	return Mutation(ctx, c.Collection, func(ctx context.Context) (*entity.Communication, error) {
		return c.svc.Send(ctx, id)
	})
}

func (c *Communications) Schedule(ctx context.Context, id string, at time.Time) (*entity.Communication, error) {
	return Mutation(ctx, c.Collection, func(ctx context.Context) (*entity.Communication, error) {
		return c.svc.Schedule(ctx, id, at)
	})
}

func (c *Communications) MarkRead(ctx context.Context, id, recipient string) (*entity.Communication, error) {
	return Mutation(ctx, c.Collection, func(ctx context.Context) (*entity.Communication, error) {
		return c.svc.MarkRead(ctx, id, recipient)
	})
}

// Stats derives the statistics from the loaded snapshot.
func (c *Communications) Stats() entity.CommunicationStats {
	return application.ComputeCommunicationStats(c.Items())
}
