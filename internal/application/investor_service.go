package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

type InvestorService struct {
	Repo    repo.InvestorRepository
	Latency *Latency
	Clock   Clock
	log     *logrus.Entry
}

func NewInvestorService(investors repo.InvestorRepository, latency *Latency, logger *logrus.Logger) *InvestorService {
	return &InvestorService{Repo: investors, Latency: latency, log: serviceLog(logger, "investors")}
}

func (s *InvestorService) List(ctx context.Context) ([]entity.Investor, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

func (s *InvestorService) Get(ctx context.Context, id string) (*entity.Investor, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *InvestorService) Create(ctx context.Context, name string, typ entity.InvestorType, email string) (*entity.Investor, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.NewValidationError("name", "is required")
	}
	switch typ {
	case entity.InvestorIndividual, entity.InvestorInstitutional, entity.InvestorFamilyOffice, entity.InvestorFundOfFunds:
	default:
		return nil, entity.NewValidationError("type", "must be Individual, Institutional, FamilyOffice or FundOfFunds")
	}
	inv := &entity.Investor{ID: newID(), Name: name, Type: typ, Email: strings.TrimSpace(email), CreatedAt: s.Clock.now()}
	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create investor: %w", err)
	}
	s.log.WithField("investor_id", inv.ID).Info("investor created")
	return inv, nil
}
