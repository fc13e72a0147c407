package memory

import (
	"context"
	"strings"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

// Store holds one table per domain.
type Store struct {
	users          *table[entity.User]
	investors      *table[entity.Investor]
	kyc            *table[entity.KYCReview]
	dueDiligence   *table[entity.DueDiligenceItem]
	communications *table[entity.Communication]
	documents      *table[entity.Document]
	funds          *table[entity.Fund]
}

func NewStore() *Store {
	return &Store{
		users:          newTable[entity.User]("user"),
		investors:      newTable[entity.Investor]("investor"),
		kyc:            newTable[entity.KYCReview]("kyc review"),
		dueDiligence:   newTable[entity.DueDiligenceItem]("due diligence item"),
		communications: newTable[entity.Communication]("communication"),
		documents:      newTable[entity.Document]("document"),
		funds:          newTable[entity.Fund]("fund"),
	}
}

// Repositories exposes the store through the domain repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:          &UserRepository{t: s.users},
		Investors:      &InvestorRepository{t: s.investors},
		KYC:            &KYCRepository{t: s.kyc},
		DueDiligence:   &DueDiligenceRepository{t: s.dueDiligence},
		Communications: &CommunicationRepository{t: s.communications},
		Documents:      &DocumentRepository{t: s.documents},
		Funds:          &FundRepository{t: s.funds},
	}
}

// Empty reports whether nothing has been stored yet.
func (s *Store) Empty() bool {
	return s.users.count()+s.investors.count()+s.kyc.count()+s.dueDiligence.count()+
		s.communications.count()+s.documents.count()+s.funds.count() == 0
}

type UserRepository struct{ t *table[entity.User] }

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) { return r.t.list(), nil }

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.t.get(id)
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.t.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, entity.NotFoundError("user", email)
	}
	return u, nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.t.insert(*u)
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error { return r.t.replace(*u) }

type InvestorRepository struct{ t *table[entity.Investor] }

func (r *InvestorRepository) List(_ context.Context) ([]entity.Investor, error) {
	return r.t.list(), nil
}

func (r *InvestorRepository) GetByID(_ context.Context, id string) (*entity.Investor, error) {
	return r.t.get(id)
}

func (r *InvestorRepository) Create(_ context.Context, inv *entity.Investor) error {
	return r.t.insert(*inv)
}

type KYCRepository struct{ t *table[entity.KYCReview] }

func (r *KYCRepository) List(_ context.Context) ([]entity.KYCReview, error) {
	return r.t.list(), nil
}

func (r *KYCRepository) GetByID(_ context.Context, id string) (*entity.KYCReview, error) {
	return r.t.get(id)
}

func (r *KYCRepository) Create(_ context.Context, rv *entity.KYCReview) error {
	return r.t.insert(*rv)
}

func (r *KYCRepository) Update(_ context.Context, rv *entity.KYCReview) error {
	return r.t.replace(*rv)
}

type DueDiligenceRepository struct{ t *table[entity.DueDiligenceItem] }

func (r *DueDiligenceRepository) List(_ context.Context) ([]entity.DueDiligenceItem, error) {
	return r.t.list(), nil
}

func (r *DueDiligenceRepository) GetByID(_ context.Context, id string) (*entity.DueDiligenceItem, error) {
	return r.t.get(id)
}

func (r *DueDiligenceRepository) Create(_ context.Context, d *entity.DueDiligenceItem) error {
	return r.t.insert(*d)
}

func (r *DueDiligenceRepository) Update(_ context.Context, d *entity.DueDiligenceItem) error {
	return r.t.replace(*d)
}

type CommunicationRepository struct{ t *table[entity.Communication] }

func (r *CommunicationRepository) List(_ context.Context) ([]entity.Communication, error) {
	return r.t.list(), nil
}

func (r *CommunicationRepository) GetByID(_ context.Context, id string) (*entity.Communication, error) {
	return r.t.get(id)
}

func (r *CommunicationRepository) Create(_ context.Context, c *entity.Communication) error {
	return r.t.insert(*c)
}

func (r *CommunicationRepository) Update(_ context.Context, c *entity.Communication) error {
	return r.t.replace(*c)
}

func (r *CommunicationRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type DocumentRepository struct{ t *table[entity.Document] }

func (r *DocumentRepository) List(_ context.Context) ([]entity.Document, error) {
	return r.t.list(), nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*entity.Document, error) {
	return r.t.get(id)
}

func (r *DocumentRepository) Create(_ context.Context, d *entity.Document) error {
	return r.t.insert(*d)
}

type FundRepository struct{ t *table[entity.Fund] }

func (r *FundRepository) List(_ context.Context) ([]entity.Fund, error) { return r.t.list(), nil }

func (r *FundRepository) GetByID(_ context.Context, id string) (*entity.Fund, error) {
	return r.t.get(id)
}

func (r *FundRepository) Create(_ context.Context, f *entity.Fund) error {
	return r.t.insert(*f)
}

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.InvestorRepository      = (*InvestorRepository)(nil)
	_ repository.KYCRepository           = (*KYCRepository)(nil)
	_ repository.DueDiligenceRepository  = (*DueDiligenceRepository)(nil)
	_ repository.CommunicationRepository = (*CommunicationRepository)(nil)
	_ repository.DocumentRepository      = (*DocumentRepository)(nil)
	_ repository.FundRepository          = (*FundRepository)(nil)
)
