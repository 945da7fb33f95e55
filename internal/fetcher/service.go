package fetcher

import (
	"context"
	"time"

	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// Service bundles the stock and energy fetchers behind one surface the web
// layer and background refresher share.
type Service struct {
	*Axia
	*Energy
}

// NewService creates the combined fetcher service.
func NewService(axia *Axia, energy *Energy) *Service {
	return &Service{Axia: axia, Energy: energy}
}

// Dashboard assembles everything the dashboard polls into one snapshot.
func (s *Service) Dashboard(ctx context.Context) *model.DashboardSnapshot {
	return &model.DashboardSnapshot{
		AxiaPrices:  s.CurrentPrices(ctx),
		Reservoirs:  s.Reservoirs(ctx),
		PLDPrices:   s.PLD(ctx),
		Consumption: s.Consumption(ctx),
		GeneratedAt: time.Now().UTC(),
	}
}
