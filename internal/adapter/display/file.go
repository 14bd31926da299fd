package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	BACKEND_FILE     = "file"
	FILE_TIME_LAYOUT = "20060102_150405"
)

// FileDisplay writes every frame as a PNG into a directory.
type FileDisplay struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

func NewFileDisplay(dir string, logger *zap.Logger) (*FileDisplay, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &FileDisplay{dir: dir, now: time.Now, logger: logger}, nil
}

func (d *FileDisplay) Show(img image.Image, name string) error {
	path := filepath.Join(d.dir, fmt.Sprintf("%s_%s.png", name, d.now().Format(FILE_TIME_LAYOUT)))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	d.logger.Debug("frame written", zap.String("path", path))
	return nil
}

func (d *FileDisplay) Clear() error { return nil }

func (d *FileDisplay) Sleep() error { return nil }

func (d *FileDisplay) Close() error { return nil }

func (d *FileDisplay) Backend() string { return BACKEND_FILE }
