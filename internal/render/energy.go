package render

import (
	"fmt"
	"image"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

func productionScreen(e domain.EnergyTotals, pf *domain.PowerFlowSnapshot) *canvas {
	c := newCanvas()
	hr := c.headline("Produktion")
	if pf != nil && pf.OffGrid {
		c.text(hr.Max.X+20, MARGIN+ascent(regular(HEADLINE_SIZE))-ascent(regular(STALE_SIZE)),
			"(Inselbetrieb)", regular(STALE_SIZE))
	}

	c.valueGroup(hr.Max.Y, BREAKDOWN_TOP, valueGroup{
		value:   number(e.ProductionKWh),
		unit:    "kWh",
		percent: e.SelfConsumptionShare(),
		legend:  fmt.Sprintf("Eigenverbrauch %d%%", int(e.SelfConsumptionShare())),
	})

	cols := []column{
		{icon: houseIcon, label: "Eigenverbrauch", value: kwh(e.SelfConsumptionKWh)},
		{icon: gridIcon, label: "Einspeisung", value: kwh(e.FeedInKWh)},
	}
	if pf != nil {
		cols = append(cols, column{icon: sunIcon, label: "Leistung", value: fmt.Sprintf("%.1f kW", pf.PVKW)})
	}
	c.columns(BREAKDOWN_TOP, cols)
	return c
}

func consumptionScreen(e domain.EnergyTotals) *canvas {
	c := newCanvas()
	hr := c.headline("Verbrauch")

	solar := 100 - e.PurchasedShare()
	if e.ConsumptionKWh <= 0 {
		solar = 0
	}
	c.valueGroup(hr.Max.Y, BREAKDOWN_TOP, valueGroup{
		value:   number(e.ConsumptionKWh),
		unit:    "kWh",
		percent: solar,
		legend:  fmt.Sprintf("Solaranteil %d%%", int(solar)),
	})

	c.columns(BREAKDOWN_TOP, []column{
		{icon: sunIcon, label: "Aus Solaranlage", value: kwh(e.SelfConsumptionKWh)},
		{icon: batteryIcon(-1), label: "Von Batterie", value: kwh(e.BatteryKWh())},
		{icon: gridIcon, label: "Vom Netz", value: kwh(e.PurchasedKWh)},
	})
	return c
}

// feedInScreen is a centered layout with an extra large value.
func feedInScreen(e domain.EnergyTotals) *canvas {
	c := newCanvas()
	lf := regular(64)
	vf := bold(180)
	uf := regular(56)
	legend := regular(44)

	groupH := lineHeight(lf) + lineHeight(vf) + 20 + 50 + 10 + lineHeight(legend)
	y := max(MARGIN, (CANVAS_HEIGHT-groupH)/2)

	lr := c.textCentered(CANVAS_WIDTH/2, y, "Einspeisung", lf)

	value := number(e.FeedInKWh)
	total := textWidth(vf, value) + 20 + textWidth(uf, "kWh")
	vx := (CANVAS_WIDTH - total) / 2
	vr := c.text(vx, lr.Max.Y, value, vf)
	c.textOnBaseline(vr.Max.X+20, lr.Max.Y+ascent(vf), "kWh", uf)

	bar := image.Rect(100, vr.Max.Y+20, CANVAS_WIDTH-100, vr.Max.Y+70)
	c.percentBar(bar, e.FeedInShare())
	c.textCentered(CANVAS_WIDTH/2, bar.Max.Y+10, fmt.Sprintf("Anteil Produktion %d%%", int(e.FeedInShare())), legend)
	return c
}

func purchasedScreen(e domain.EnergyTotals) *canvas {
	c := newCanvas()
	hr := c.headline("Bezug")
	c.valueGroup(hr.Max.Y, BREAKDOWN_TOP, valueGroup{
		value:   number(e.PurchasedKWh),
		unit:    "kWh",
		percent: e.PurchasedShare(),
		legend:  fmt.Sprintf("Anteil Verbrauch %d%%", int(e.PurchasedShare())),
	})
	c.columns(BREAKDOWN_TOP, []column{
		{icon: gridIcon, label: "Vom Netz", value: kwh(e.PurchasedKWh)},
		{icon: houseIcon, label: "Verbrauch", value: kwh(e.ConsumptionKWh)},
	})
	return c
}
