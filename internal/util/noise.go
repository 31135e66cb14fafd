package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise2D генератор двумерного шума Перлина со своим сидом
type Noise2D struct {
	seed  int64
	noise *perlin.Perlin
}

// NewNoise2D создаёт генератор шума Перлина с указанным сидом
func NewNoise2D(seed int64) *Noise2D {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise2D{
		seed:  seed,
		noise: perlin.NewPerlin(alpha, beta, n, seed),
	}
}

// Seed возвращает сид генератора
func (n *Noise2D) Seed() int64 {
	return n.seed
}

// At возвращает значение шума Перлина для указанных координат в диапазоне [0, 1]
func (n *Noise2D) At(x, y float64) float64 {
	// Получаем значение шума (примерно от -1 до 1)
	v := n.noise.Noise2D(x, y)

	// Преобразуем в диапазон от 0 до 1
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
