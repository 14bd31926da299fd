package service

import (
	"testing"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildRotationOrder(t *testing.T) {

	assert := assert.New(t)

	assert.Equal([]domain.ScreenKind{
		domain.ScreenProduction,
		domain.ScreenConsumption,
		domain.ScreenFeedIn,
		domain.ScreenPurchased,
		domain.ScreenBattery,
		domain.ScreenForecast,
		domain.ScreenHistoryProduction,
		domain.ScreenHistoryConsumption,
	}, BuildRotation(Capabilities{Battery: true, Forecast: true}))

	assert.Equal([]domain.ScreenKind{
		domain.ScreenProduction,
		domain.ScreenConsumption,
		domain.ScreenFeedIn,
		domain.ScreenPurchased,
		domain.ScreenHistoryProduction,
		domain.ScreenHistoryConsumption,
	}, BuildRotation(Capabilities{}))
}

func TestBindRotationSkipsMissingData(t *testing.T) {

	assert := assert.New(t)

	plan := BuildRotation(Capabilities{Battery: true, Forecast: true})
	data := domain.Dataset{
		Energy:   &domain.EnergyTotals{ProductionKWh: 3},
		Forecast: &domain.ForecastSnapshot{TodayKWh: 10},
	}
	bound := BindRotation(plan, data, data)

	var kinds []domain.ScreenKind
	for _, b := range bound {
		kinds = append(kinds, b.Kind)
		assert.False(b.Stale)
	}
	assert.Equal([]domain.ScreenKind{
		domain.ScreenProduction,
		domain.ScreenConsumption,
		domain.ScreenFeedIn,
		domain.ScreenPurchased,
		domain.ScreenForecast,
	}, kinds)
}

func TestBindRotationMarksStalenessPerKind(t *testing.T) {

	assert := assert.New(t)

	plan := BuildRotation(Capabilities{Battery: true})
	data := domain.Dataset{
		Energy:  &domain.EnergyTotals{ProductionKWh: 3},
		Battery: &domain.BatterySnapshot{StateOfCharge: 40},
		History: &domain.EnergyHistory{},
	}
	// energy failed in the latest poll, battery and history were refreshed
	fresh := domain.Dataset{Battery: data.Battery, History: data.History}

	stale := map[string]bool{}
	for _, b := range BindRotation(plan, data, fresh) {
		stale[b.Kind.String()] = b.Stale
	}
	assert.Equal(map[string]bool{
		"production":          true,
		"consumption":         true,
		"feed_in":             true,
		"purchased":           true,
		"battery":             false,
		"history_production":  false,
		"history_consumption": false,
	}, stale)
}

func TestBindRotationEmptyDataset(t *testing.T) {

	bound := BindRotation(BuildRotation(Capabilities{Battery: true}), domain.Dataset{}, domain.Dataset{})
	assert.Empty(t, bound)
}
