package world

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/util"
)

// Jitter источник случайной добавки к глубине колонки
type Jitter interface {
	// Offset возвращает целое из [0, factor)
	Offset(x, z, factor int) int
}

// RandomJitter равномерная добавка из math/rand.
// Без сида (0) карта получается разной при каждом запуске.
type RandomJitter struct {
	rng *rand.Rand
}

// NewRandomJitter создаёт источник; seed == 0 берёт сид от времени
func NewRandomJitter(seed int64) *RandomJitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomJitter{rng: rand.New(rand.NewSource(seed))}
}

// Offset реализует Jitter
func (j *RandomJitter) Offset(_, _ int, factor int) int {
	if factor <= 0 {
		return 0
	}
	return j.rng.Intn(factor)
}

// PerlinJitter добавка из шума Перлина: одинаковый сид даёт одинаковый рельеф
type PerlinJitter struct {
	noise *util.Noise2D
	Scale float64 // шаг выборки шума на одну клетку
}

// NewPerlinJitter создаёт источник шума
func NewPerlinJitter(seed int64) *PerlinJitter {
	return &PerlinJitter{
		noise: util.NewNoise2D(seed),
		Scale: 0.15,
	}
}

// Offset реализует Jitter
func (j *PerlinJitter) Offset(x, z, factor int) int {
	if factor <= 0 {
		return 0
	}
	v := j.noise.At(float64(x)*j.Scale, float64(z)*j.Scale)
	o := int(math.Floor(v * float64(factor)))
	if o >= factor {
		o = factor - 1
	}
	if o < 0 {
		o = 0
	}
	return o
}

// NewJitter выбирает источник по конфигурации
func NewJitter(cfg config.WorldConfig) (Jitter, error) {
	switch cfg.Jitter {
	case "", "random":
		return NewRandomJitter(cfg.Seed), nil
	case "perlin":
		return NewPerlinJitter(cfg.Seed), nil
	default:
		return nil, fmt.Errorf("unknown jitter %q", cfg.Jitter)
	}
}

// WorldGenerator строит карту высот: мелкая кромка по краю и
// «долина», углубляющаяся от центра к краям.
type WorldGenerator struct {
	SizeX, SizeY, SizeZ int
	Base                int // базовая глубина в центре
	Max                 int // максимальная глубина
	Shallow             int // глубина кромки
	RandomFactor        int // добавка из [0, RandomFactor)

	jitter Jitter
}

// NewWorldGenerator создаёт генератор по параметрам мира
func NewWorldGenerator(cfg config.WorldConfig, jitter Jitter) *WorldGenerator {
	return &WorldGenerator{
		SizeX:        cfg.SizeX,
		SizeY:        cfg.SizeY,
		SizeZ:        cfg.SizeZ,
		Base:         cfg.BaseDepth,
		Max:          cfg.MaxDepth,
		Shallow:      cfg.ShallowDepth,
		RandomFactor: cfg.RandomFactor,
		jitter:       jitter,
	}
}

// Generate возвращает глубины depth[x][z].
// Каждое значение лежит в [Shallow, min(Max, SizeY)].
func (wg *WorldGenerator) Generate() [][]int {
	centerX := float64(wg.SizeX) / 2
	centerZ := float64(wg.SizeZ) / 2
	upper := wg.Max
	if wg.SizeY < upper {
		upper = wg.SizeY
	}

	depth := make([][]int, wg.SizeX)
	for x := 0; x < wg.SizeX; x++ {
		depth[x] = make([]int, wg.SizeZ)
		for z := 0; z < wg.SizeZ; z++ {
			jitter := wg.jitter.Offset(x, z, wg.RandomFactor)

			var d int
			if x == 0 || x == wg.SizeX-1 || z == 0 || z == wg.SizeZ-1 {
				d = wg.Shallow + jitter
			} else {
				dist := math.Hypot(float64(x)-centerX, float64(z)-centerZ)
				d = wg.Base + int(math.Floor(float64(wg.Max-wg.Base)*(dist/centerX))) + jitter
			}

			depth[x][z] = clamp(d, wg.Shallow, upper)
		}
	}
	return depth
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
