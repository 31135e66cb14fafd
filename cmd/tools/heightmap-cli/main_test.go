package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/annel0/blocky-world/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perlinConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Jitter = "perlin"
	cfg.World.Seed = 7
	return cfg
}

func TestShade(t *testing.T) {
	assert.Equal(t, byte(' '), shade(0, 5), "пробел только для пустой колонки")
	assert.Equal(t, byte('.'), shade(1, 5), "мелкая колонка видна")
	assert.Equal(t, byte('@'), shade(5, 5))
	assert.Equal(t, byte('@'), shade(40, 15))
	assert.Equal(t, byte('@'), shade(3, 0))

	for d := 1; d <= 5; d++ {
		assert.NotEqual(t, byte(' '), shade(d, 5), "глубина %d", d)
		if d > 1 {
			assert.Greater(t, strings.IndexByte(shades, shade(d, 5)), strings.IndexByte(shades, shade(d-1, 5)))
		}
	}
}

func TestBuildWorld_RejectsInvalid(t *testing.T) {
	cfg := perlinConfig()
	cfg.World.MaxDepth = 99
	_, err := buildWorld(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidWorld)
}

func TestPrintMap(t *testing.T) {
	w, err := buildWorld(perlinConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	printMap(&out, w)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1+w.Size().Z)
	assert.Contains(t, lines[0], fmt.Sprintf("depth 0..%d", w.Stats().MaxDepth))

	for z, l := range lines[1:] {
		require.Len(t, l, w.Size().X)
		for x := 0; x < w.Size().X; x++ {
			assert.Equal(t, w.Depth(x, z) == 0, l[x] == ' ', "колонка (%d,%d)", x, z)
		}
	}
}

func TestPrintStats(t *testing.T) {
	w, err := buildWorld(perlinConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	printStats(&out, w.Stats())
	assert.Contains(t, out.String(), "Columns: 1024")
}

func TestPrintBlocks(t *testing.T) {
	w, err := buildWorld(perlinConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	printBlocks(&out, w)
	assert.Equal(t, w.BlockCount(), strings.Count(out.String(), "\n"))
}
