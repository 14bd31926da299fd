// Package render draws the monitor screens as 1000x488 black and white bitmaps.
package render

import (
	"fmt"
	"image"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

// Renderer maps bound screens to bitmaps. It holds no state besides the
// time zone used for clock labels.
type Renderer struct {
	loc *time.Location
}

func New(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{loc: loc}
}

func (r *Renderer) Render(s domain.BoundScreen, now time.Time) (*image.Gray, error) {
	d := s.Data
	if !d.Has(s.Kind.DataKind()) {
		return nil, fmt.Errorf("no %s data for screen %s", s.Kind.DataKind(), s.Kind)
	}

	var c *canvas
	marked := false
	switch s.Kind {
	case domain.ScreenProduction:
		c = productionScreen(*d.Energy, d.PowerFlow)
	case domain.ScreenConsumption:
		c = consumptionScreen(*d.Energy)
	case domain.ScreenFeedIn:
		c = feedInScreen(*d.Energy)
	case domain.ScreenPurchased:
		c = purchasedScreen(*d.Energy)
	case domain.ScreenBattery:
		c = batteryScreen(*d.Battery)
	case domain.ScreenForecast:
		c, marked = forecastScreen(*d.Forecast, now, r.loc)
	case domain.ScreenHistoryProduction:
		c = historyScreen(*d.History, d.History.ProductionKWh, "Produktion")
	case domain.ScreenHistoryConsumption:
		c = historyScreen(*d.History, d.History.ConsumptionKWh, "Verbrauch")
	default:
		return nil, fmt.Errorf("unsupported screen %s", s.Kind)
	}

	if s.Stale && !marked {
		c.staleMarker(s.StaleSince(), r.loc)
	}
	return c.bitmap(), nil
}

func (r *Renderer) RenderError(message string, now time.Time) *image.Gray {
	return errorScreen(message, now, r.loc).bitmap()
}
