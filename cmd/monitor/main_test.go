package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/berfenger/solaredge2eink/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDisplayFailureIsNotAConfigError(t *testing.T) {

	assert := assert.New(t)

	blocker := filepath.Join(t.TempDir(), "frames")
	assert.NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &config.Config{Debug: true, DebugDir: filepath.Join(blocker, "out")}
	screen, code := openDisplay(cfg, zap.NewNop())

	assert.Nil(screen)
	assert.Equal(EXIT_DISPLAY_ERROR, code)
	assert.NotEqual(EXIT_CONFIG_ERROR, code)
}

func TestOpenDisplayFileBackend(t *testing.T) {

	assert := assert.New(t)

	cfg := &config.Config{Debug: true, DebugDir: t.TempDir()}
	screen, code := openDisplay(cfg, zap.NewNop())

	assert.Equal(EXIT_OK, code)
	if assert.NotNil(screen) {
		assert.NoError(screen.Close())
	}
}
