package render

import (
	"fmt"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

// forecastScreen reports whether it drew a staleness marker.
func forecastScreen(f domain.ForecastSnapshot, now time.Time, loc *time.Location) (*canvas, bool) {
	c := newCanvas()
	hr := c.headline("Prognose, heute")

	g := valueGroup{
		value:  number(f.TodayKWh),
		unit:   "kWh erwartet",
		legend: "Keine Prognose verfügbar",
	}
	if f.TodayKWh > 0 {
		ratio := f.ActualKWh / f.TodayKWh * 100
		g.percent = ratio
		g.overflow = ratio > 100
		g.legend = fmt.Sprintf("%d%% der Prognose erreicht", int(ratio))
	}
	c.valueGroup(hr.Max.Y, BREAKDOWN_TOP, g)

	if tomorrow := tomorrowLine(f); tomorrow != "" {
		tf := regular(COLUMN_VALUE_SIZE + 8)
		y := BREAKDOWN_TOP + (BREAKDOWN_HEIGHT-lineHeight(tf))/2
		c.textCentered(CANVAS_WIDTH/2, y, tomorrow, tf)
	}

	stale := f.IsStale(now)
	if stale {
		c.staleMarker(f.FetchedAt, loc)
	}
	return c, stale
}

func tomorrowLine(f domain.ForecastSnapshot) string {
	switch {
	case f.TomorrowKWh > 0:
		delta := f.TomorrowKWh - f.TodayKWh
		sign := ""
		if delta >= 0 {
			sign = "+"
		}
		return fmt.Sprintf("Morgen: %.1f kWh (%s%.1f)", f.TomorrowKWh, sign, delta)
	case f.TodayKWh > 0:
		return "Morgen: keine Daten"
	}
	return ""
}
