package controller

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// Funds is read-only; Performance starts Idle so the view can tell
// "not loaded" apart from a portfolio of zeros.
type Funds struct {
	*Collection[entity.Fund]
	Performance *Value[entity.FundPerformance]
}

func NewFunds(svc *application.FundService, logger *logrus.Logger) *Funds {
	return &Funds{
		Collection:  NewCollection("funds", svc.List, logger),
		Performance: NewValue("funds.performance", svc.Performance, logger),
	}
}

func (f *Funds) Close() {
	f.Collection.Close()
	f.Performance.Close()
}
