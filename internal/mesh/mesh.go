// Package mesh строит геометрию единичного куба и UV-сферы.
package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh набор вершин, UV и нормалей. Indices пуст для неиндексированной геометрии.
type Mesh struct {
	Name      string
	Positions []float32 // x, y, z
	UVs       []float32 // u, v
	Normals   []float32 // x, y, z
	Indices   []uint16
}

// VertexCount возвращает число вершин
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount возвращает число треугольников
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// Vertex возвращает позицию вершины i
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}

// UV возвращает текстурную координату вершины i
func (m *Mesh) UV(i int) mgl32.Vec2 {
	return mgl32.Vec2{m.UVs[2*i], m.UVs[2*i+1]}
}

// Normal возвращает нормаль вершины i
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// Triangle возвращает индексы вершин треугольника t
func (m *Mesh) Triangle(t int) (a, b, c int) {
	if len(m.Indices) > 0 {
		return int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])
	}
	return 3 * t, 3*t + 1, 3*t + 2
}

// Validate проверяет согласованность массивов
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %s: positions length %d is not a multiple of 3", m.Name, len(m.Positions))
	}
	n := m.VertexCount()
	if len(m.UVs) != 0 && len(m.UVs) != 2*n {
		return fmt.Errorf("mesh %s: %d uvs for %d vertices", m.Name, len(m.UVs)/2, n)
	}
	if len(m.Normals) != 0 && len(m.Normals) != 3*n {
		return fmt.Errorf("mesh %s: %d normals for %d vertices", m.Name, len(m.Normals)/3, n)
	}
	if len(m.Indices) == 0 && n%3 != 0 {
		return fmt.Errorf("mesh %s: %d vertices do not form triangles", m.Name, n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %s: indices length %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh %s: index %d out of range (%d vertices)", m.Name, idx, n)
		}
	}
	return nil
}

// Грани куба: нормаль, шесть вершин (два треугольника) и их UV.
var cubeFaces = [6]struct {
	normal [3]float32
	verts  [18]float32
	uvs    [12]float32
}{
	{ // back
		normal: [3]float32{0, 0, -1},
		verts:  [18]float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1, 1, 0},
		uvs:    [12]float32{0, 0, 1, 0, 1, 1, 0, 0, 0, 1, 1, 1},
	},
	{ // front
		normal: [3]float32{0, 0, 1},
		verts:  [18]float32{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1},
		uvs:    [12]float32{0, 0, 1, 0, 1, 1, 0, 0, 0, 1, 1, 1},
	},
	{ // top
		normal: [3]float32{0, 1, 0},
		verts:  [18]float32{0, 1, 0, 0, 1, 1, 1, 1, 1, 0, 1, 0, 1, 1, 0, 1, 1, 1},
		uvs:    [12]float32{0, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1},
	},
	{ // bottom
		normal: [3]float32{0, -1, 0},
		verts:  [18]float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0},
		uvs:    [12]float32{0, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1},
	},
	{ // right
		normal: [3]float32{1, 0, 0},
		verts:  [18]float32{1, 0, 0, 1, 0, 1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 1},
		uvs:    [12]float32{0, 0, 1, 0, 1, 1, 0, 0, 0, 1, 1, 1},
	},
	{ // left
		normal: [3]float32{-1, 0, 0},
		verts:  [18]float32{0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0, 1, 0},
		uvs:    [12]float32{0, 0, 1, 0, 1, 1, 0, 0, 0, 1, 1, 1},
	},
}

// Cube строит единичный куб из 36 вершин, смещённый на -origin,
// так что origin оказывается в начале координат модели.
func Cube(origin mgl32.Vec3) *Mesh {
	m := &Mesh{
		Name:      fmt.Sprintf("cube(%.2f,%.2f,%.2f)", origin[0], origin[1], origin[2]),
		Positions: make([]float32, 0, 36*3),
		UVs:       make([]float32, 0, 36*2),
		Normals:   make([]float32, 0, 36*3),
	}
	for _, f := range cubeFaces {
		for v := 0; v < 6; v++ {
			m.Positions = append(m.Positions,
				f.verts[3*v]-origin[0],
				f.verts[3*v+1]-origin[1],
				f.verts[3*v+2]-origin[2],
			)
			m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
		}
		m.UVs = append(m.UVs, f.uvs[:]...)
	}
	return m
}

// Sphere строит индексированную UV-сферу
func Sphere(radius float32, latitudeBands, longitudeBands int) *Mesh {
	m := &Mesh{Name: fmt.Sprintf("sphere(%g,%d,%d)", radius, latitudeBands, longitudeBands)}

	for lat := 0; lat <= latitudeBands; lat++ {
		theta := float32(lat) * math32.Pi / float32(latitudeBands)
		sinTheta, cosTheta := math32.Sincos(theta)

		for long := 0; long <= longitudeBands; long++ {
			phi := float32(long) * 2 * math32.Pi / float32(longitudeBands)
			sinPhi, cosPhi := math32.Sincos(phi)

			x := cosPhi * sinTheta
			y := cosTheta
			z := sinPhi * sinTheta
			u := 1 - float32(long)/float32(longitudeBands)
			v := 1 - float32(lat)/float32(latitudeBands)

			m.Normals = append(m.Normals, x, y, z)
			m.UVs = append(m.UVs, u, v)
			m.Positions = append(m.Positions, radius*x, radius*y, radius*z)
		}
	}

	for lat := 0; lat < latitudeBands; lat++ {
		for long := 0; long < longitudeBands; long++ {
			first := uint16(lat*(longitudeBands+1) + long)
			second := first + uint16(longitudeBands) + 1
			m.Indices = append(m.Indices, first, second, first+1, second, second+1, first+1)
		}
	}
	return m
}

// DefaultSphere сфера сцены: радиус 1, 30×30 полос
func DefaultSphere() *Mesh {
	return Sphere(1, 30, 30)
}
