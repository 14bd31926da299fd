package port

import (
	"context"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

// TelemetrySource fetches site data. A non-nil error means the snapshot is absent.
type TelemetrySource interface {
	EnergyTotals(ctx context.Context) (*domain.EnergyTotals, error)
	PowerFlow(ctx context.Context) (*domain.PowerFlowSnapshot, error)
	Battery(ctx context.Context) (*domain.BatterySnapshot, error)
	History(ctx context.Context) (*domain.EnergyHistory, error)
}

type ForecastSource interface {
	Forecast(ctx context.Context) (*domain.ForecastSnapshot, error)
}
