package render

import (
	"fmt"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

var storageStatusLabels = map[domain.StorageStatus]string{
	domain.StorageCharging:    "Lädt",
	domain.StorageDischarging: "Entlädt",
	domain.StorageIdle:        "Leerlauf",
}

func batteryScreen(b domain.BatterySnapshot) *canvas {
	c := newCanvas()
	hr := c.headline("Hausakku")
	iconSize := hr.Dy() - 10
	c.batteryIcon(CANVAS_WIDTH-MARGIN-iconSize, MARGIN+5, iconSize, float64(b.StateOfCharge))

	// idle batteries get no legend
	legend := ""
	if b.Status != domain.StorageIdle {
		legend = fmt.Sprintf("%s mit %.1f kW", storageStatusLabels[b.Status], abs64(b.PowerKW))
	}
	c.valueGroup(hr.Max.Y, BREAKDOWN_TOP, valueGroup{
		value:   fmt.Sprintf("%d", b.StateOfCharge),
		unit:    "%",
		percent: float64(b.StateOfCharge),
		legend:  legend,
	})

	c.columns(BREAKDOWN_TOP, []column{
		{label: "Temperatur", value: fmt.Sprintf("%.0f°C", b.TemperatureC)},
		{label: "Verfügbar", value: kwh(b.AvailableKWh)},
	})
	return c
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
