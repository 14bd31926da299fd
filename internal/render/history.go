package render

import (
	"fmt"
	"image"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

const HISTORY_BAR_GAP = 6

func historyScreen(h domain.EnergyHistory, values []float64, label string) *canvas {
	c := newCanvas()
	hr := c.headline("Letzte 2 Wochen")

	sf := regular(44)
	df := regular(36)

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	subY := hr.Max.Y + 8
	sr := c.text(MARGIN, subY, label, sf)
	c.textRight(CANVAS_WIDTH-MARGIN, subY, fmt.Sprintf("max: %.1f kWh", maxVal), sf)

	dateY := CANVAS_HEIGHT - MARGIN - lineHeight(df)
	barTop := sr.Max.Y + 15
	barBottom := dateY - 8
	areaH := barBottom - barTop

	n := len(values)
	if n == 0 {
		return c
	}
	barW := (CANVAS_WIDTH - 2*MARGIN - (n-1)*HISTORY_BAR_GAP) / n
	for i, v := range values {
		x := MARGIN + i*(barW+HISTORY_BAR_GAP)
		if v > 0 && maxVal > 0 {
			bh := max(2, int(v/maxVal*float64(areaH)))
			c.fill(image.Rect(x, barBottom-bh, x+barW, barBottom), BLACK)
		}
		if i < len(h.Dates) && len(h.Dates[i]) >= 2 {
			day := h.Dates[i][len(h.Dates[i])-2:]
			c.textCentered(x+barW/2, dateY, day, df)
		}
	}
	return c
}
