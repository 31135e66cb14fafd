// Package world хранит воксельный мир: карту высот, разреженный индекс
// блоков и неподвижные объекты сцены (пол и небо).
//
// World не потокобезопасен: все вызовы идут из цикла тиков.
package world

import (
	"errors"
	"math"

	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/logging"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/annel0/blocky-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// FixtureSlots число индексов, зарезервированных под пол и небо
const FixtureSlots = 2

var (
	// ErrHeightMapGenerated повторный вызов GenerateHeightMap
	ErrHeightMapGenerated = errors.New("height map already generated")
	// ErrHeightMapMissing BuildInitialBlocks до GenerateHeightMap
	ErrHeightMapMissing = errors.New("height map not generated")
)

type blockEntry struct {
	handle scene.Handle
	seq    uint64
	pos    vec.Vec3
}

type orderEntry struct {
	index int
	seq   uint64
}

// World воксельная сетка sizeX×sizeY×sizeZ поверх графа сцены
type World struct {
	cfg   config.WorldConfig
	graph *scene.Graph
	gen   *WorldGenerator
	log   *logging.Logger

	depth [][]int

	floor scene.Handle
	sky   scene.Handle

	blocks map[int]blockEntry
	// order хранит порядок вставки; записи с устаревшим seq пропускаются
	order []orderEntry
	seq   uint64
}

// New создаёт мир с полом и небом. Карта высот ещё не построена.
func New(graph *scene.Graph, cfg config.WorldConfig, jitter Jitter) *World {
	w := &World{
		cfg:    cfg,
		graph:  graph,
		gen:    NewWorldGenerator(cfg, jitter),
		log:    logging.GetWorldLogger(),
		blocks: make(map[int]blockEntry),
	}
	w.buildFixtures()
	return w
}

func (w *World) buildFixtures() {
	w.floor = w.graph.New(scene.Nil, scene.ShapeCube,
		scene.Material{Texture: scene.TextureColor, Color: scene.ColorGray}, scene.WithName("floor"))
	w.graph.SetScale(w.floor, float32(w.cfg.SizeX), 0.001, float32(w.cfg.SizeZ))
	w.graph.SetTranslate(w.floor, 0, float32(w.cfg.MinY), 0)

	w.sky = w.graph.New(scene.Nil, scene.ShapeCube,
		scene.Material{Texture: scene.Texture0, Color: scene.ColorSky}, scene.WithName("sky"))
	w.graph.SetScale(w.sky, 1000, 1000, 1000)
}

// Size возвращает размеры сетки
func (w *World) Size() vec.Vec3 {
	return vec.Vec3{X: w.cfg.SizeX, Y: w.cfg.SizeY, Z: w.cfg.SizeZ}
}

// Floor возвращает узел пола
func (w *World) Floor() scene.Handle { return w.floor }

// Sky возвращает узел неба
func (w *World) Sky() scene.Handle { return w.sky }

// GenerateHeightMap строит карту высот. Вызывается ровно один раз.
func (w *World) GenerateHeightMap() error {
	if w.depth != nil {
		return ErrHeightMapGenerated
	}
	w.depth = w.gen.Generate()
	w.log.Info("🗺️ Карта высот %dx%d построена", w.cfg.SizeX, w.cfg.SizeZ)
	return nil
}

// BuildInitialBlocks заполняет каждую колонку (x, z) блоками y = 0..depth-1
func (w *World) BuildInitialBlocks() error {
	if w.depth == nil {
		return ErrHeightMapMissing
	}
	for x := 0; x < w.cfg.SizeX; x++ {
		for z := 0; z < w.cfg.SizeZ; z++ {
			for y := 0; y < w.depth[x][z]; y++ {
				w.AddBlock(x, y, z)
			}
		}
	}
	w.log.Info("🧱 Начальных блоков: %d", len(w.blocks))
	return nil
}

// Depth возвращает глубину колонки; вне сетки или до генерации 0
func (w *World) Depth(x, z int) int {
	if w.depth == nil || x < 0 || x >= w.cfg.SizeX || z < 0 || z >= w.cfg.SizeZ {
		return 0
	}
	return w.depth[x][z]
}

// IndexOf возвращает линейный индекс ячейки со сдвигом на FixtureSlots
func (w *World) IndexOf(x, y, z int) int {
	return z*w.cfg.SizeX*w.cfg.SizeY + y*w.cfg.SizeX + x + FixtureSlots
}

func (w *World) inRange(x, y, z int) bool {
	return vec.Vec3{X: x, Y: y, Z: z}.InBox(w.Size())
}

// AddBlock ставит блок в ячейку. Занятая ячейка или координаты вне сетки: no-op.
func (w *World) AddBlock(x, y, z int) bool {
	if !w.inRange(x, y, z) {
		return false
	}
	idx := w.IndexOf(x, y, z)
	if _, ok := w.blocks[idx]; ok {
		return false
	}

	h := w.graph.New(scene.Nil, scene.ShapeCube,
		scene.Material{Texture: scene.Texture1, Color: scene.ColorWhite})
	pos := w.CellPosition(x, y, z)
	w.graph.SetTranslate(h, pos[0], pos[1], pos[2])

	w.seq++
	w.blocks[idx] = blockEntry{handle: h, seq: w.seq, pos: vec.Vec3{X: x, Y: y, Z: z}}
	w.order = append(w.order, orderEntry{index: idx, seq: w.seq})
	w.log.Trace("➕ Блок (%d,%d,%d)", x, y, z)
	return true
}

// RemoveBlock убирает блок и его узел. Пустая ячейка или координаты вне сетки: no-op.
func (w *World) RemoveBlock(x, y, z int) bool {
	if !w.inRange(x, y, z) {
		return false
	}
	idx := w.IndexOf(x, y, z)
	e, ok := w.blocks[idx]
	if !ok {
		return false
	}
	w.graph.Remove(e.handle)
	delete(w.blocks, idx)
	w.log.Trace("➖ Блок (%d,%d,%d)", x, y, z)

	if len(w.order) > 2*len(w.blocks)+64 {
		w.compact()
	}
	return true
}

// compact выбрасывает устаревшие записи порядка
func (w *World) compact() {
	live := w.order[:0]
	for _, o := range w.order {
		if e, ok := w.blocks[o.index]; ok && e.seq == o.seq {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(w.order); i++ {
		w.order[i] = orderEntry{}
	}
	w.order = live
}

// HasBlock сообщает, занята ли ячейка
func (w *World) HasBlock(x, y, z int) bool {
	if !w.inRange(x, y, z) {
		return false
	}
	_, ok := w.blocks[w.IndexOf(x, y, z)]
	return ok
}

// Handle возвращает узел блока в ячейке
func (w *World) Handle(x, y, z int) (scene.Handle, bool) {
	if !w.inRange(x, y, z) {
		return scene.Nil, false
	}
	e, ok := w.blocks[w.IndexOf(x, y, z)]
	return e.handle, ok
}

// BlockCount возвращает число блоков
func (w *World) BlockCount() int {
	return len(w.blocks)
}

// Blocks возвращает координаты блоков в порядке вставки
func (w *World) Blocks() []vec.Vec3 {
	out := make([]vec.Vec3, 0, len(w.blocks))
	w.eachBlock(func(e blockEntry) { out = append(out, e.pos) })
	return out
}

func (w *World) eachBlock(fn func(e blockEntry)) {
	for _, o := range w.order {
		e, ok := w.blocks[o.index]
		if !ok || e.seq != o.seq {
			continue
		}
		fn(e)
	}
}

// RenderAll отдаёт в sink пол, небо и затем каждый блок ровно один раз
func (w *World) RenderAll(sink func(h scene.Handle)) {
	sink(w.floor)
	sink(w.sky)
	w.eachBlock(func(e blockEntry) { sink(e.handle) })
}

// TargetCell переводит точку взгляда камеры в ячейку сетки для правки кликом.
// Обратна CellPosition: центр ячейки и всё в пределах полуячейки дают ту же ячейку.
func (w *World) TargetCell(at mgl32.Vec3) vec.Vec3 {
	rel := at.Sub(w.gridOrigin())
	return vec.Vec3{X: roundHalfUp(rel[0]), Y: roundHalfUp(rel[1]), Z: roundHalfUp(rel[2])}
}

// CellPosition возвращает мировую позицию центра блока в ячейке (x, y, z)
func (w *World) CellPosition(x, y, z int) mgl32.Vec3 {
	return w.gridOrigin().Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
}

// gridOrigin мировая позиция ячейки (0, 0, 0)
func (w *World) gridOrigin() mgl32.Vec3 {
	return mgl32.Vec3{-float32(w.cfg.SizeX) / 2, float32(w.cfg.MinY), -float32(w.cfg.SizeZ) / 2}
}

// roundHalfUp округляет .5 вверх: -0.5 → 0
func roundHalfUp(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}

// Stats сводка по карте высот
type Stats struct {
	Columns   int
	Blocks    int
	MinDepth  int
	MaxDepth  int
	MeanDepth float64
	Histogram map[int]int // глубина → число колонок
}

// Stats считает сводку; до генерации возвращает нулевую
func (w *World) Stats() Stats {
	s := Stats{Blocks: len(w.blocks), Histogram: make(map[int]int)}
	if w.depth == nil {
		return s
	}
	s.MinDepth = math.MaxInt
	total := 0
	for x := range w.depth {
		for _, d := range w.depth[x] {
			s.Columns++
			total += d
			s.Histogram[d]++
			if d < s.MinDepth {
				s.MinDepth = d
			}
			if d > s.MaxDepth {
				s.MaxDepth = d
			}
		}
	}
	if s.Columns == 0 {
		s.MinDepth = 0
		return s
	}
	s.MeanDepth = float64(total) / float64(s.Columns)
	return s
}
