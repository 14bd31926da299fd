package render

import (
	"image"
	"math"
)

const ICON_STROKE = 6

// Icons are drawn inside the square of the given size at (x, y).

func (c *canvas) sunIcon(x, y, size int) {
	cx, cy := x+size/2, y+size/2
	c.disc(cx, cy, size/5, BLACK)
	inner := float64(size) * 0.25
	outer := float64(size) * 0.45
	for deg := 0; deg < 360; deg += 45 {
		rad := float64(deg) * math.Pi / 180
		c.line(
			cx+int(inner*math.Cos(rad)), cy+int(inner*math.Sin(rad)),
			cx+int(outer*math.Cos(rad)), cy+int(outer*math.Sin(rad)),
			ICON_STROKE)
	}
}

// batteryIcon draws a battery filled to level percent, level < 0 draws it empty.
func (c *canvas) batteryIcon(x, y, size int, level float64) {
	bodyH := size * 4 / 5
	bodyY := y + size - bodyH
	body := image.Rect(x, bodyY, x+size, y+size)
	c.outline(body, ICON_STROKE)

	termW := size / 5
	termX := x + (size-termW)/2
	c.fill(image.Rect(termX, bodyY-size/10, termX+termW, bodyY), BLACK)

	if level > 0 {
		inner := body.Inset(ICON_STROKE + 2)
		h := int(float64(inner.Dy()) * min(100, level) / 100)
		c.fill(image.Rect(inner.Min.X, inner.Max.Y-h, inner.Max.X, inner.Max.Y), BLACK)
	}
}

func (c *canvas) gridIcon(x, y, size int) {
	for i := 0; i < 4; i++ {
		off := i * size / 3
		c.line(x+off, y, x+off, y+size, 4)
		c.line(x, y+off, x+size, y+off, 4)
	}
}

func (c *canvas) houseIcon(x, y, size int) {
	roofH := size * 2 / 5
	c.line(x+size/2, y, x, y+roofH, ICON_STROKE)
	c.line(x+size/2, y, x+size, y+roofH, ICON_STROKE)
	c.line(x, y+roofH, x+size, y+roofH, ICON_STROKE)
	c.outline(image.Rect(x+size/6, y+roofH, x+size-size/6, y+size), ICON_STROKE)
}
