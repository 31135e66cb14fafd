package world

import (
	"testing"

	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/annel0/blocky-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) (*World, *scene.Graph) {
	t.Helper()
	g := scene.NewGraph()
	return New(g, config.Default().World, fixedJitter(0)), g
}

// drawsAt считает отрисовки узлов, стоящих в ячейке (x, y, z)
func drawsAt(w *World, g *scene.Graph, x, y, z int) int {
	want := mgl32.Vec3{float32(x) - 16, float32(y - 1), float32(z) - 16}
	count := 0
	w.RenderAll(func(h scene.Handle) {
		if h == w.Floor() || h == w.Sky() {
			return
		}
		if g.Translation(h).ApproxEqual(want) {
			count++
		}
	})
	return count
}

func TestGenerateHeightMap_Once(t *testing.T) {
	w, _ := newTestWorld(t)

	assert.ErrorIs(t, w.BuildInitialBlocks(), ErrHeightMapMissing)
	require.NoError(t, w.GenerateHeightMap())
	assert.ErrorIs(t, w.GenerateHeightMap(), ErrHeightMapGenerated)
}

func TestBuildInitialBlocks_FillsColumns(t *testing.T) {
	w, g := newTestWorld(t)
	require.NoError(t, w.GenerateHeightMap())
	require.NoError(t, w.BuildInitialBlocks())

	total := 0
	for x := 0; x < 32; x++ {
		for z := 0; z < 32; z++ {
			d := w.Depth(x, z)
			total += d
			assert.True(t, w.HasBlock(x, d-1, z), "верхний блок колонки (%d,%d)", x, z)
			assert.False(t, w.HasBlock(x, d, z), "над колонкой (%d,%d) пусто", x, z)
		}
	}
	assert.Equal(t, total, w.BlockCount())
	assert.Equal(t, total+FixtureSlots, g.Len(), "блоки плюс пол и небо")
}

func TestAddRemoveAdd_SinglePosition(t *testing.T) {
	w, g := newTestWorld(t)

	require.True(t, w.AddBlock(3, 4, 5))
	require.True(t, w.RemoveBlock(3, 4, 5))
	require.True(t, w.AddBlock(3, 4, 5))

	assert.Equal(t, 1, w.BlockCount())
	assert.Equal(t, 1, drawsAt(w, g, 3, 4, 5))

	h, ok := w.Handle(3, 4, 5)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-13, 3, -11}, g.Translation(h))

	d, ok := g.Drawable(h)
	require.True(t, ok)
	assert.Equal(t, scene.Texture1, d.Material.Texture)
}

func TestAddBlock_Idempotent(t *testing.T) {
	w, g := newTestWorld(t)

	assert.True(t, w.AddBlock(0, 0, 0))
	assert.False(t, w.AddBlock(0, 0, 0), "занятая ячейка")
	assert.Equal(t, 1, w.BlockCount())
	assert.Equal(t, 1, drawsAt(w, g, 0, 0, 0))
}

func TestOutOfRange_NoOp(t *testing.T) {
	w, g := newTestWorld(t)
	before := g.Len()

	for _, p := range []vec.Vec3{{X: -1}, {X: 32}, {Y: 15}, {Z: 32}, {Y: -1}} {
		assert.False(t, w.AddBlock(p.X, p.Y, p.Z), "add %v", p)
		assert.False(t, w.RemoveBlock(p.X, p.Y, p.Z), "remove %v", p)
		assert.False(t, w.HasBlock(p.X, p.Y, p.Z))
	}
	assert.False(t, w.RemoveBlock(1, 1, 1), "пустая ячейка")
	assert.Equal(t, before, g.Len())
	assert.Equal(t, 0, w.BlockCount())
}

func TestRemove_NoDrawsForCell(t *testing.T) {
	w, g := newTestWorld(t)
	require.NoError(t, w.GenerateHeightMap())
	require.NoError(t, w.BuildInitialBlocks())
	require.Equal(t, 1, drawsAt(w, g, 0, 0, 0))

	require.True(t, w.RemoveBlock(0, 0, 0))
	assert.Equal(t, 0, drawsAt(w, g, 0, 0, 0))
	assert.False(t, w.HasBlock(0, 0, 0))
	assert.Equal(t, 1, w.Depth(0, 0), "правки не меняют карту высот")
}

func TestRenderAll_OrderAndUniqueness(t *testing.T) {
	w, _ := newTestWorld(t)
	w.AddBlock(1, 0, 0)
	w.AddBlock(2, 0, 0)
	w.AddBlock(3, 0, 0)
	w.RemoveBlock(1, 0, 0)
	w.AddBlock(1, 0, 0)

	var seen []scene.Handle
	w.RenderAll(func(h scene.Handle) { seen = append(seen, h) })

	require.Len(t, seen, 5)
	assert.Equal(t, w.Floor(), seen[0])
	assert.Equal(t, w.Sky(), seen[1])
	assert.Equal(t, []vec.Vec3{{X: 2}, {X: 3}, {X: 1}}, w.Blocks(), "повторно добавленный блок идёт последним")

	unique := make(map[scene.Handle]struct{})
	for _, h := range seen {
		unique[h] = struct{}{}
	}
	assert.Len(t, unique, len(seen))
}

func TestRemove_CompactsOrder(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := 0; i < 200; i++ {
		w.AddBlock(5, 5, 5)
		w.RemoveBlock(5, 5, 5)
	}
	w.AddBlock(6, 6, 6)

	assert.LessOrEqual(t, len(w.order), 2*w.BlockCount()+64+1)
	assert.Equal(t, []vec.Vec3{{X: 6, Y: 6, Z: 6}}, w.Blocks())
}

func TestIndexOf_ReservesFixtures(t *testing.T) {
	w, _ := newTestWorld(t)
	assert.Equal(t, FixtureSlots, w.IndexOf(0, 0, 0))
	assert.Equal(t, 32*15+32+1+FixtureSlots, w.IndexOf(1, 1, 1))
}

func TestFixtures(t *testing.T) {
	w, g := newTestWorld(t)

	assert.Equal(t, mgl32.Vec3{32, 0.001, 32}, g.ScaleOf(w.Floor()))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, g.Translation(w.Floor()))
	floor, _ := g.Drawable(w.Floor())
	assert.Equal(t, scene.TextureColor, floor.Material.Texture)
	assert.Equal(t, scene.ColorGray, floor.Material.Color)

	sky, _ := g.Drawable(w.Sky())
	assert.Equal(t, scene.Texture0, sky.Material.Texture)
	assert.Equal(t, scene.ColorSky, sky.Material.Color, "без текстуры небо рисуется голубым")
	assert.Equal(t, mgl32.Vec3{1000, 1000, 1000}, g.ScaleOf(w.Sky()))
}

func TestTargetCell(t *testing.T) {
	w, _ := newTestWorld(t)

	assert.Equal(t, vec.Vec3{X: 21, Y: 6, Z: 21}, w.TargetCell(mgl32.Vec3{5, 5, 5}))
	assert.Equal(t, vec.Vec3{X: 16, Y: 1, Z: 15}, w.TargetCell(mgl32.Vec3{-0.5, 0.4, -1.2}))
}

func TestTargetCell_InvertsCellPosition(t *testing.T) {
	for _, size := range []int{32, 33} {
		cfg := config.Default().World
		cfg.SizeX, cfg.SizeZ = size, size
		g := scene.NewGraph()
		w := New(g, cfg, fixedJitter(0))

		for _, c := range []vec.Vec3{{}, {X: 16, Y: 3, Z: 16}, {X: size - 1, Y: 14, Z: size - 1}, {X: 7, Y: 0, Z: 21}} {
			require.True(t, w.AddBlock(c.X, c.Y, c.Z))
			h, ok := w.Handle(c.X, c.Y, c.Z)
			require.True(t, ok)

			pos := g.Translation(h)
			assert.Equal(t, w.CellPosition(c.X, c.Y, c.Z), pos)
			assert.Equal(t, c, w.TargetCell(pos), "размер %d, ячейка %v", size, c)
			assert.Equal(t, c, w.TargetCell(pos.Add(mgl32.Vec3{0.49, -0.49, 0.49})), "размер %d, ячейка %v", size, c)
			assert.Equal(t, c, w.TargetCell(pos.Sub(mgl32.Vec3{0.49, -0.49, 0.49})), "размер %d, ячейка %v", size, c)
		}
	}
}

func TestStats(t *testing.T) {
	w, _ := newTestWorld(t)
	assert.Equal(t, 0, w.Stats().Columns)

	require.NoError(t, w.GenerateHeightMap())
	require.NoError(t, w.BuildInitialBlocks())
	s := w.Stats()

	assert.Equal(t, 32*32, s.Columns)
	assert.Equal(t, 1, s.MinDepth)
	assert.Equal(t, 5, s.MaxDepth)
	assert.Equal(t, w.BlockCount(), s.Blocks)
	assert.InDelta(t, float64(s.Blocks)/float64(s.Columns), s.MeanDepth, 1e-9)

	sum := 0
	for _, n := range s.Histogram {
		sum += n
	}
	assert.Equal(t, s.Columns, sum)
}
