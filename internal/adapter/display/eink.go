package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

const (
	BACKEND_EINK = "eink"

	PANEL_WIDTH  = 250
	PANEL_HEIGHT = 122
)

// EInk drives a Waveshare 2.13" V4 HAT over SPI. Frames arrive in landscape
// and are scaled down and rotated to the portrait memory layout of the panel.
type EInk struct {
	mu       sync.Mutex
	port     spi.PortCloser
	dev      *waveshare2in13v4.Dev
	sleeping bool
	logger   *zap.Logger
}

func NewEInk(logger *zap.Logger) (*EInk, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}
	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open e-ink hat: %w", err)
	}
	if err := dev.Init(); err != nil {
		port.Close()
		return nil, fmt.Errorf("init e-ink panel: %w", err)
	}
	if err := dev.Clear(color.White); err != nil {
		port.Close()
		return nil, fmt.Errorf("clear e-ink panel: %w", err)
	}
	return &EInk{port: port, dev: dev, logger: logger}, nil
}

func (d *EInk) wake() error {
	if !d.sleeping {
		return nil
	}
	if err := d.dev.Init(); err != nil {
		return fmt.Errorf("wake e-ink panel: %w", err)
	}
	d.sleeping = false
	return nil
}

func (d *EInk) Show(img image.Image, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.wake(); err != nil {
		return err
	}
	portrait := Rotate(Downsample(img, PANEL_WIDTH, PANEL_HEIGHT))
	frame := image1bit.NewVerticalLSB(d.dev.Bounds())
	draw.Draw(frame, frame.Bounds(), portrait, image.Point{}, draw.Src)
	if err := d.dev.Draw(d.dev.Bounds(), frame, image.Point{}); err != nil {
		return fmt.Errorf("draw %s: %w", name, err)
	}
	d.logger.Debug("frame drawn", zap.String("screen", name))
	return nil
}

func (d *EInk) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.wake(); err != nil {
		return err
	}
	return d.dev.Clear(color.White)
}

func (d *EInk) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sleeping {
		return nil
	}
	if err := d.dev.Sleep(); err != nil {
		return err
	}
	d.sleeping = true
	return nil
}

func (d *EInk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.dev.Halt(); err != nil {
		d.logger.Warn("halt e-ink panel", zap.Error(err))
	}
	return d.port.Close()
}

func (d *EInk) Backend() string { return BACKEND_EINK }

// Downsample scales img to w x h and thresholds it to pure black and white.
func Downsample(img image.Image, w, h int) *image.Gray {
	scaled := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	for i, v := range scaled.Pix {
		if v < 128 {
			scaled.Pix[i] = 0
		} else {
			scaled.Pix[i] = 255
		}
	}
	return scaled
}

// Rotate turns a landscape frame into the portrait orientation of the panel
// memory, a quarter turn clockwise.
func Rotate(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetGray(x, y, src.GrayAt(b.Min.X+y, b.Min.Y+h-1-x))
		}
	}
	return dst
}
