package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	HistoryDays        = 14
	ForecastStaleAfter = 2 * time.Hour
)

type StorageStatus int

const (
	StorageIdle StorageStatus = iota
	StorageCharging
	StorageDischarging
)

func (s StorageStatus) String() string {
	switch s {
	case StorageCharging:
		return "charging"
	case StorageDischarging:
		return "discharging"
	default:
		return "idle"
	}
}

// ParseStorageStatus accepts the status strings reported by the monitoring API.
func ParseStorageStatus(s string) (StorageStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging", "charge":
		return StorageCharging, nil
	case "discharging", "discharge":
		return StorageDischarging, nil
	case "idle", "":
		return StorageIdle, nil
	}
	return StorageIdle, fmt.Errorf("unknown storage status %q", s)
}

// PowerFlowSnapshot is the instantaneous power flow of the site in kW.
type PowerFlowSnapshot struct {
	GridKW        float64
	LoadKW        float64
	PVKW          float64
	StorageKW     float64
	HasStorage    bool
	StorageStatus StorageStatus
	StateOfCharge int
	OffGrid       bool
	FetchedAt     time.Time
}

// EnergyTotals are the energy meters of the current day in kWh.
type EnergyTotals struct {
	ProductionKWh      float64
	SelfConsumptionKWh float64
	FeedInKWh          float64
	ConsumptionKWh     float64
	PurchasedKWh       float64
	FetchedAt          time.Time
}

// BatteryKWh is the part of the consumption served by the home battery.
func (e EnergyTotals) BatteryKWh() float64 {
	return max(0, e.ConsumptionKWh-e.SelfConsumptionKWh-e.PurchasedKWh)
}

func (e EnergyTotals) SolarShare() float64 {
	return percent(e.SelfConsumptionKWh, e.ConsumptionKWh)
}

func (e EnergyTotals) SelfConsumptionShare() float64 {
	return percent(e.SelfConsumptionKWh, e.ProductionKWh)
}

func (e EnergyTotals) FeedInShare() float64 {
	return percent(e.FeedInKWh, e.ProductionKWh)
}

func (e EnergyTotals) PurchasedShare() float64 {
	return percent(e.PurchasedKWh, e.ConsumptionKWh)
}

type BatterySnapshot struct {
	StateOfCharge int
	Status        StorageStatus
	TemperatureC  float64
	AvailableKWh  float64
	PowerKW       float64
	FetchedAt     time.Time
}

// EnergyHistory holds daily production and consumption, oldest day first.
type EnergyHistory struct {
	Dates          []string
	ProductionKWh  []float64
	ConsumptionKWh []float64
	FetchedAt      time.Time
}

func (h EnergyHistory) Len() int {
	return len(h.Dates)
}

type ForecastSnapshot struct {
	TodayKWh    float64
	TomorrowKWh float64
	ActualKWh   float64
	FetchedAt   time.Time
}

func (f ForecastSnapshot) IsStale(now time.Time) bool {
	return now.Sub(f.FetchedAt) > ForecastStaleAfter
}

// Achieved is the share of today's forecast already produced.
func (f ForecastSnapshot) Achieved() float64 {
	return percent(f.ActualKWh, f.TodayKWh)
}

func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := part / total * 100
	return min(100, max(0, p))
}
