package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	bold bool
	size float64
}

var (
	parseOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font

	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

// face returns a cached face for the given style and pixel size.
func face(bold bool, size float64) font.Face {
	parseOnce.Do(func() {
		regularFont = mustParse(goregular.TTF)
		boldFont = mustParse(gobold.TTF)
	})

	facesMu.Lock()
	defer facesMu.Unlock()

	key := faceKey{bold: bold, size: size}
	if f, ok := faces[key]; ok {
		return f
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(fmt.Sprintf("font face %v: %v", key, err))
	}
	faces[key] = f
	return f
}

func regular(size float64) font.Face {
	return face(false, size)
}

func bold(size float64) font.Face {
	return face(true, size)
}
