package render

import (
	"fmt"
	"image"
	"time"
)

const (
	HEADLINE_SIZE     = 60
	VALUE_SIZE        = 120
	UNIT_SIZE         = 64
	LEGEND_SIZE       = 52
	COLUMN_LABEL_SIZE = 44
	COLUMN_VALUE_SIZE = 52
	STALE_SIZE        = 36

	BAR_HEIGHT       = 40
	BAR_STROKE       = 4
	BREAKDOWN_HEIGHT = 125
	BREAKDOWN_TOP    = CANVAS_HEIGHT - MARGIN - BREAKDOWN_HEIGHT
)

type iconFunc func(c *canvas, x, y, size int)

func (c *canvas) headline(title string) image.Rectangle {
	return c.text(MARGIN, MARGIN, title, regular(HEADLINE_SIZE))
}

func (c *canvas) staleMarker(at time.Time, loc *time.Location) {
	c.textRight(CANVAS_WIDTH-MARGIN, MARGIN, "Stand: "+at.In(loc).Format("15:04"), regular(STALE_SIZE))
}

// percentBar draws r outlined and filled from the left to percent.
func (c *canvas) percentBar(r image.Rectangle, percent float64) {
	c.outline(r, BAR_STROKE)
	percent = min(100, max(0, percent))
	if w := int(percent / 100 * float64(r.Dx())); w > 0 {
		c.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), BLACK)
	}
}

// overflowNotch marks a bar whose value exceeds 100%.
func (c *canvas) overflowNotch(r image.Rectangle) {
	notch := image.Rect(r.Max.X-40, r.Min.Y+2, r.Max.X-2, r.Max.Y-2)
	c.fill(notch, WHITE)
	c.outline(notch, 2)
}

type valueGroup struct {
	value    string
	unit     string
	percent  float64
	legend   string
	overflow bool
}

// valueGroup draws a big value with its unit, a bar and the bar legend,
// vertically centered between top and bottom.
func (c *canvas) valueGroup(top, bottom int, g valueGroup) {
	vf := bold(VALUE_SIZE)
	lf := regular(LEGEND_SIZE)

	groupH := lineHeight(vf) + 20 + BAR_HEIGHT + 5 + lineHeight(lf)
	y := top + max(0, (bottom-top-groupH)/2)

	vr := c.text(MARGIN, y, g.value, vf)
	c.textOnBaseline(vr.Max.X+20, y+ascent(vf), g.unit, regular(UNIT_SIZE))

	bar := image.Rect(MARGIN, vr.Max.Y+20, CANVAS_WIDTH-MARGIN, vr.Max.Y+20+BAR_HEIGHT)
	c.percentBar(bar, g.percent)
	if g.overflow {
		c.overflowNotch(bar)
	}
	if g.legend != "" {
		c.text(MARGIN, bar.Max.Y+5, g.legend, lf)
	}
}

type column struct {
	icon  iconFunc
	label string
	value string
}

// columns draws labelled values side by side starting at top.
func (c *canvas) columns(top int, cols []column) {
	if len(cols) == 0 {
		return
	}
	labelSize := float64(COLUMN_LABEL_SIZE)
	if len(cols) > 2 {
		labelSize = 34
	}
	lf := regular(labelSize)
	vf := regular(COLUMN_VALUE_SIZE)
	iconSize := lineHeight(lf) - 4
	width := (CANVAS_WIDTH - 2*MARGIN) / len(cols)

	for i, col := range cols {
		cx := MARGIN + i*width + width/2
		lw := textWidth(lf, col.label)
		x := cx - lw/2
		if col.icon != nil {
			x = cx - (lw+iconSize+10)/2
			col.icon(c, x, top+2, iconSize)
			x += iconSize + 10
		}
		lr := c.text(x, top, col.label, lf)
		c.textCentered(cx, lr.Max.Y+8, col.value, vf)
	}
}

func kwh(v float64) string {
	return fmt.Sprintf("%.1f kWh", v)
}

func number(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func sunIcon(c *canvas, x, y, size int)   { c.sunIcon(x, y, size) }
func gridIcon(c *canvas, x, y, size int)  { c.gridIcon(x, y, size) }
func houseIcon(c *canvas, x, y, size int) { c.houseIcon(x, y, size) }

func batteryIcon(level float64) iconFunc {
	return func(c *canvas, x, y, size int) { c.batteryIcon(x, y, size, level) }
}
