package domain

type DataKind int

const (
	DataEnergy DataKind = iota
	DataBattery
	DataForecast
	DataHistory
)

func (k DataKind) String() string {
	switch k {
	case DataEnergy:
		return "energy"
	case DataBattery:
		return "battery"
	case DataForecast:
		return "forecast"
	case DataHistory:
		return "history"
	}
	return "unknown"
}

// Dataset groups one snapshot per kind. A nil field means the kind is absent.
type Dataset struct {
	Energy    *EnergyTotals
	PowerFlow *PowerFlowSnapshot
	Battery   *BatterySnapshot
	History   *EnergyHistory
	Forecast  *ForecastSnapshot
}

func (d Dataset) Has(kind DataKind) bool {
	switch kind {
	case DataEnergy:
		return d.Energy != nil
	case DataBattery:
		return d.Battery != nil
	case DataForecast:
		return d.Forecast != nil
	case DataHistory:
		return d.History != nil
	}
	return false
}

// Merge returns d with every kind present in fresh replaced. The forecast's
// actual production is bound to the energy totals when both are known.
func (d Dataset) Merge(fresh Dataset) Dataset {
	out := d
	if fresh.Energy != nil {
		out.Energy = fresh.Energy
	}
	if fresh.PowerFlow != nil {
		out.PowerFlow = fresh.PowerFlow
	}
	if fresh.Battery != nil {
		out.Battery = fresh.Battery
	}
	if fresh.History != nil {
		out.History = fresh.History
	}
	if fresh.Forecast != nil {
		out.Forecast = fresh.Forecast
	}
	if out.Forecast != nil && out.Energy != nil && out.Forecast.ActualKWh != out.Energy.ProductionKWh {
		f := *out.Forecast
		f.ActualKWh = out.Energy.ProductionKWh
		out.Forecast = &f
	}
	return out
}
