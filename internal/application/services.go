package application

import (
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

// Deps are the collaborators shared by every service. Index and Pub may be nil.
type Deps struct {
	JWT     *helpers.JWTManager
	Blobs   BlobStore
	Index   DocumentIndex
	Pub     Publisher
	Latency *Latency
	Logger  *logrus.Logger
}

type Services struct {
	Users          *UserService
	Investors      *InvestorService
	KYC            *KYCService
	DueDiligence   *DueDiligenceService
	Communications *CommunicationService
	Documents      *DocumentService
	Funds          *FundService
}

func NewServices(r repo.Repositories, d Deps) *Services {
	return &Services{
		Users:          NewUserService(r.Users, d.JWT, d.Latency, d.Logger),
		Investors:      NewInvestorService(r.Investors, d.Latency, d.Logger),
		KYC:            NewKYCService(r.KYC, r.Investors, d.Blobs, d.Latency, d.Logger),
		DueDiligence:   NewDueDiligenceService(r.DueDiligence, d.Blobs, d.Latency, d.Logger),
		Communications: NewCommunicationService(r.Communications, r.Investors, d.Pub, d.Latency, d.Logger),
		Documents:      NewDocumentService(r.Documents, r.Investors, d.Blobs, d.Index, d.Latency, d.Logger),
		Funds:          NewFundService(r.Funds, d.Latency, d.Logger),
	}
}

// SetClock pins the clock of every service.
func (s *Services) SetClock(c Clock) {
	s.Users.Clock = c
	s.Investors.Clock = c
	s.KYC.Clock = c
	s.DueDiligence.Clock = c
	s.Communications.Clock = c
	s.Documents.Clock = c
}
