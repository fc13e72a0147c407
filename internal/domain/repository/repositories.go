package repository

import (
	"context"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// Every repository returns entity.ErrNotFound (possibly wrapped) for unknown ids
// and hands out copies: callers never share memory with the store.

type InvestorRepository interface {
	List(ctx context.Context) ([]entity.Investor, error)
	GetByID(ctx context.Context, id string) (*entity.Investor, error)
	Create(ctx context.Context, inv *entity.Investor) error
}

type KYCRepository interface {
	List(ctx context.Context) ([]entity.KYCReview, error)
	GetByID(ctx context.Context, id string) (*entity.KYCReview, error)
	Create(ctx context.Context, r *entity.KYCReview) error
	Update(ctx context.Context, r *entity.KYCReview) error
}

type DueDiligenceRepository interface {
	List(ctx context.Context) ([]entity.DueDiligenceItem, error)
	GetByID(ctx context.Context, id string) (*entity.DueDiligenceItem, error)
	Create(ctx context.Context, d *entity.DueDiligenceItem) error
	Update(ctx context.Context, d *entity.DueDiligenceItem) error
}

type CommunicationRepository interface {
	List(ctx context.Context) ([]entity.Communication, error)
	GetByID(ctx context.Context, id string) (*entity.Communication, error)
	Create(ctx context.Context, c *entity.Communication) error
	Update(ctx context.Context, c *entity.Communication) error
	Delete(ctx context.Context, id string) error
}

type DocumentRepository interface {
	List(ctx context.Context) ([]entity.Document, error)
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	Create(ctx context.Context, d *entity.Document) error
}

type FundRepository interface {
	List(ctx context.Context) ([]entity.Fund, error)
	GetByID(ctx context.Context, id string) (*entity.Fund, error)
	Create(ctx context.Context, f *entity.Fund) error
}

// Repositories bundles one implementation per domain so a backend can be swapped as a unit.
type Repositories struct {
	Users          UserRepository
	Investors      InvestorRepository
	KYC            KYCRepository
	DueDiligence   DueDiligenceRepository
	Communications CommunicationRepository
	Documents      DocumentRepository
	Funds          FundRepository
}
