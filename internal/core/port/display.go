package port

import (
	"image"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
)

type Display interface {
	Show(img image.Image, name string) error
	Clear() error
	Sleep() error
	Backend() string
	Close() error
}

type Renderer interface {
	Render(screen domain.BoundScreen, now time.Time) (*image.Gray, error)
	RenderError(message string, now time.Time) *image.Gray
}

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
