package display

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileDisplayWritesPNG(t *testing.T) {

	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "frames")
	d, err := NewFileDisplay(dir, zap.NewNop())
	require.NoError(err)
	d.now = func() time.Time { return time.Date(2024, 6, 14, 9, 30, 5, 0, time.UTC) }

	img := image.NewGray(image.Rect(0, 0, 10, 5))
	require.NoError(d.Show(img, "production_stale"))

	f, err := os.Open(filepath.Join(dir, "production_stale_20240614_093005.png"))
	require.NoError(err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(err)
	require.Equal(img.Bounds(), decoded.Bounds())

	require.NoError(d.Clear())
	require.NoError(d.Sleep())
	require.Equal(BACKEND_FILE, d.Backend())
}

func TestNewDebugUsesFileBackend(t *testing.T) {

	d, err := New(true, t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BACKEND_FILE, d.Backend())
}

func TestDownsampleThresholds(t *testing.T) {

	assert := assert.New(t)

	src := image.NewGray(image.Rect(0, 0, 1000, 488))
	for y := 0; y < 488; y++ {
		for x := 0; x < 1000; x++ {
			v := uint8(255)
			if x < 500 {
				v = 0
			}
			src.SetGray(x, y, color.Gray{Y: v})
		}
	}
	out := Downsample(src, PANEL_WIDTH, PANEL_HEIGHT)
	assert.Equal(image.Rect(0, 0, PANEL_WIDTH, PANEL_HEIGHT), out.Bounds())
	for _, v := range out.Pix {
		assert.True(v == 0 || v == 255)
	}
	assert.Equal(uint8(0), out.GrayAt(10, 60).Y)
	assert.Equal(uint8(255), out.GrayAt(240, 60).Y)
}

func TestRotate(t *testing.T) {

	assert := assert.New(t)

	src := image.NewGray(image.Rect(0, 0, PANEL_WIDTH, PANEL_HEIGHT))
	// top-left landscape pixel lands in the top-right portrait corner
	src.SetGray(0, 0, color.Gray{Y: 200})
	src.SetGray(PANEL_WIDTH-1, PANEL_HEIGHT-1, color.Gray{Y: 100})

	out := Rotate(src)
	assert.Equal(image.Rect(0, 0, PANEL_HEIGHT, PANEL_WIDTH), out.Bounds())
	assert.Equal(uint8(200), out.GrayAt(PANEL_HEIGHT-1, 0).Y)
	assert.Equal(uint8(100), out.GrayAt(0, PANEL_WIDTH-1).Y)
}
