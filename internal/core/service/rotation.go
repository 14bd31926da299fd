package service

import "github.com/berfenger/solaredge2eink/internal/core/domain"

// Capabilities are the optional screens enabled for this site, fixed at startup.
type Capabilities struct {
	Battery  bool
	Forecast bool
}

func BuildRotation(caps Capabilities) []domain.ScreenKind {
	plan := []domain.ScreenKind{
		domain.ScreenProduction,
		domain.ScreenConsumption,
		domain.ScreenFeedIn,
		domain.ScreenPurchased,
	}
	if caps.Battery {
		plan = append(plan, domain.ScreenBattery)
	}
	if caps.Forecast {
		plan = append(plan, domain.ScreenForecast)
	}
	return append(plan,
		domain.ScreenHistoryProduction,
		domain.ScreenHistoryConsumption,
	)
}

// BindRotation pairs every screen of the plan with data, skipping screens
// whose data kind has never been obtained. A screen is stale when its kind
// is missing from fresh, the result of the latest poll.
func BindRotation(plan []domain.ScreenKind, data, fresh domain.Dataset) []domain.BoundScreen {
	bound := make([]domain.BoundScreen, 0, len(plan))
	for _, kind := range plan {
		if !data.Has(kind.DataKind()) {
			continue
		}
		bound = append(bound, domain.BoundScreen{
			Kind:  kind,
			Data:  data,
			Stale: !fresh.Has(kind.DataKind()),
		})
	}
	return bound
}
