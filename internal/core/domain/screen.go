package domain

import "time"

type ScreenKind int

const (
	ScreenProduction ScreenKind = iota
	ScreenConsumption
	ScreenFeedIn
	ScreenPurchased
	ScreenBattery
	ScreenForecast
	ScreenHistoryProduction
	ScreenHistoryConsumption
	ScreenError
)

var screenNames = map[ScreenKind]string{
	ScreenProduction:         "production",
	ScreenConsumption:        "consumption",
	ScreenFeedIn:             "feed_in",
	ScreenPurchased:          "purchased",
	ScreenBattery:            "battery",
	ScreenForecast:           "forecast",
	ScreenHistoryProduction:  "history_production",
	ScreenHistoryConsumption: "history_consumption",
	ScreenError:              "error",
}

func (k ScreenKind) String() string {
	if name, ok := screenNames[k]; ok {
		return name
	}
	return "unknown"
}

// DataKind is the snapshot kind a screen is rendered from.
func (k ScreenKind) DataKind() DataKind {
	switch k {
	case ScreenBattery:
		return DataBattery
	case ScreenForecast:
		return DataForecast
	case ScreenHistoryProduction, ScreenHistoryConsumption:
		return DataHistory
	}
	return DataEnergy
}

// BoundScreen is a screen of the rotation together with the data it shows.
type BoundScreen struct {
	Kind  ScreenKind
	Data  Dataset
	Stale bool
}

// Name is the identifier used for logs and debug file names.
func (s BoundScreen) Name() string {
	if s.Stale {
		return s.Kind.String() + "_stale"
	}
	return s.Kind.String()
}

// StaleSince is the fetch time of the data the screen is rendered from.
func (s BoundScreen) StaleSince() time.Time {
	switch s.Kind.DataKind() {
	case DataBattery:
		if s.Data.Battery != nil {
			return s.Data.Battery.FetchedAt
		}
	case DataForecast:
		if s.Data.Forecast != nil {
			return s.Data.Forecast.FetchedAt
		}
	case DataHistory:
		if s.Data.History != nil {
			return s.Data.History.FetchedAt
		}
	default:
		if s.Data.Energy != nil {
			return s.Data.Energy.FetchedAt
		}
	}
	return time.Time{}
}
