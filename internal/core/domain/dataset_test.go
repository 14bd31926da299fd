package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeKeepsAbsentKinds(t *testing.T) {

	assert := assert.New(t)

	old := Dataset{
		Energy:  &EnergyTotals{ProductionKWh: 1},
		Battery: &BatterySnapshot{StateOfCharge: 50},
	}
	fresh := Dataset{
		Energy: &EnergyTotals{ProductionKWh: 2},
	}
	merged := old.Merge(fresh)

	assert.Equal(2.0, merged.Energy.ProductionKWh, "energy replaced")
	assert.Equal(50, merged.Battery.StateOfCharge, "battery kept")
	assert.Nil(merged.History, "history still absent")
}

func TestMergeBindsForecastActual(t *testing.T) {

	assert := assert.New(t)

	fetched := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	forecast := &ForecastSnapshot{TodayKWh: 20, TomorrowKWh: 18, FetchedAt: fetched}
	merged := Dataset{}.Merge(Dataset{
		Energy:   &EnergyTotals{ProductionKWh: 5},
		Forecast: forecast,
	})

	assert.Equal(5.0, merged.Forecast.ActualKWh)
	assert.Equal(0.0, forecast.ActualKWh, "input snapshot untouched")
	assert.InDelta(25.0, merged.Forecast.Achieved(), 0.001)
}

func TestEnergyShares(t *testing.T) {

	assert := assert.New(t)

	e := EnergyTotals{
		ProductionKWh:      10,
		SelfConsumptionKWh: 4,
		FeedInKWh:          6,
		ConsumptionKWh:     8,
		PurchasedKWh:       2,
	}
	assert.InDelta(2.0, e.BatteryKWh(), 0.0001)
	assert.InDelta(50.0, e.SolarShare(), 0.0001)
	assert.InDelta(60.0, e.FeedInShare(), 0.0001)
	assert.InDelta(25.0, e.PurchasedShare(), 0.0001)
	assert.Equal(0.0, EnergyTotals{}.SelfConsumptionShare(), "no production")

	e.PurchasedKWh = 6
	assert.Equal(0.0, e.BatteryKWh(), "never negative")
}

func TestForecastStale(t *testing.T) {

	assert := assert.New(t)

	fetched := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := ForecastSnapshot{FetchedAt: fetched}
	assert.False(f.IsStale(fetched.Add(2 * time.Hour)))
	assert.True(f.IsStale(fetched.Add(2*time.Hour + time.Second)))
}

func TestParseStorageStatus(t *testing.T) {

	assert := assert.New(t)

	s, err := ParseStorageStatus("Charging")
	assert.NoError(err)
	assert.Equal(StorageCharging, s)

	s, err = ParseStorageStatus("discharging")
	assert.NoError(err)
	assert.Equal(StorageDischarging, s)

	s, err = ParseStorageStatus("Idle")
	assert.NoError(err)
	assert.Equal(StorageIdle, s)

	_, err = ParseStorageStatus("exploding")
	assert.Error(err)
}

func TestScreenNames(t *testing.T) {

	assert := assert.New(t)

	s := BoundScreen{Kind: ScreenFeedIn}
	assert.Equal("feed_in", s.Name())
	s.Stale = true
	assert.Equal("feed_in_stale", s.Name())
	assert.Equal(DataHistory, ScreenHistoryConsumption.DataKind())
	assert.Equal(DataEnergy, ScreenPurchased.DataKind())
}
