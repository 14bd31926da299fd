package render

import "time"

const DEFAULT_ERROR_MESSAGE = "API nicht erreichbar"

func errorScreen(message string, now time.Time, loc *time.Location) *canvas {
	if message == "" {
		message = DEFAULT_ERROR_MESSAGE
	}
	c := newCanvas()
	hr := c.headline("Fehler")

	mf := regular(56)
	top, bottom := hr.Max.Y, CANVAS_HEIGHT-MARGIN
	c.textCentered(CANVAS_WIDTH/2, top+(bottom-top-lineHeight(mf))/2, message, mf)

	if !now.IsZero() {
		c.staleMarker(now, loc)
	}
	return c
}
