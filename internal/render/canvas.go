package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Screens are drawn at 4x the panel resolution and downsampled by the display.
const (
	CANVAS_WIDTH  = 1000
	CANVAS_HEIGHT = 488
	MARGIN        = 5

	BLACK uint8 = 0
	WHITE uint8 = 255
)

type canvas struct {
	img *image.Gray
}

func newCanvas() *canvas {
	img := image.NewGray(image.Rect(0, 0, CANVAS_WIDTH, CANVAS_HEIGHT))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &canvas{img: img}
}

func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func ascent(face font.Face) int {
	return face.Metrics().Ascent.Ceil()
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// text draws s with the top-left corner of its line box at (x, y).
func (c *canvas) text(x, y int, s string, face font.Face) image.Rectangle {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + ascent(face))},
	}
	d.DrawString(s)
	return image.Rect(x, y, d.Dot.X.Ceil(), y+lineHeight(face))
}

func (c *canvas) textCentered(cx, y int, s string, face font.Face) image.Rectangle {
	return c.text(cx-textWidth(face, s)/2, y, s, face)
}

func (c *canvas) textRight(right, y int, s string, face font.Face) image.Rectangle {
	return c.text(right-textWidth(face, s), y, s, face)
}

// textOnBaseline draws s so that its baseline is at baseline.
func (c *canvas) textOnBaseline(x, baseline int, s string, face font.Face) image.Rectangle {
	return c.text(x, baseline-ascent(face), s, face)
}

func (c *canvas) fill(r image.Rectangle, v uint8) {
	draw.Draw(c.img, r.Intersect(c.img.Rect), &image.Uniform{C: color.Gray{Y: v}}, image.Point{}, draw.Src)
}

// outline draws the border of r inwards with the given width.
func (c *canvas) outline(r image.Rectangle, width int) {
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), BLACK)
	c.fill(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), BLACK)
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), BLACK)
	c.fill(image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), BLACK)
}

// line draws a Bresenham line stamped with a square pen of the given width.
func (c *canvas) line(x0, y0, x1, y1, width int) {
	half := width / 2
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.fill(image.Rect(x0-half, y0-half, x0-half+width, y0-half+width), BLACK)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) disc(cx, cy, r int, v uint8) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				p := image.Pt(cx+x, cy+y)
				if p.In(c.img.Rect) {
					c.img.SetGray(p.X, p.Y, color.Gray{Y: v})
				}
			}
		}
	}
}

// bitmap returns the canvas reduced to pure black and white.
func (c *canvas) bitmap() *image.Gray {
	out := image.NewGray(c.img.Rect)
	for i, v := range c.img.Pix {
		if v >= 128 {
			out.Pix[i] = WHITE
		} else {
			out.Pix[i] = BLACK
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
