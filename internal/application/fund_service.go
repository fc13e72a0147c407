package application

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
)

type FundService struct {
	Repo    repo.FundRepository
	Latency *Latency
	log     *logrus.Entry
}

func NewFundService(funds repo.FundRepository, latency *Latency, logger *logrus.Logger) *FundService {
	return &FundService{Repo: funds, Latency: latency, log: serviceLog(logger, "funds")}
}

func (s *FundService) List(ctx context.Context) ([]entity.Fund, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	funds, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	return funds, nil
}

func (s *FundService) Get(ctx context.Context, id string) (*entity.Fund, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *FundService) Performance(ctx context.Context) (entity.FundPerformance, error) {
	funds, err := s.List(ctx)
	if err != nil {
		return entity.FundPerformance{}, err
	}
	return ComputeFundPerformance(funds), nil
}

// ComputeFundPerformance sums the fund figures. IRR is weighted by AUM and
// the multiple is a plain average; both are zero for an empty list.
func ComputeFundPerformance(funds []entity.Fund) entity.FundPerformance {
	p := entity.FundPerformance{FundCount: len(funds)}
	var irrWeighted, multiples float64
	for _, f := range funds {
		p.TotalAUM += f.AUM
		p.TotalCommitted += f.Committed
		p.TotalCalled += f.Called
		p.TotalDistrib += f.Distributed
		irrWeighted += f.IRR * f.AUM
		multiples += f.Multiple
	}
	if p.TotalAUM > 0 {
		p.WeightedIRR = round2(irrWeighted / p.TotalAUM)
	}
	if len(funds) > 0 {
		p.AvgMultiple = round2(multiples / float64(len(funds)))
	}
	return p
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
