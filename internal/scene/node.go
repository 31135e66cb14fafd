// Package scene реализует иерархию трансформаций: узлы с накопителями
// перемещения/поворота/масштаба, адресуемые целочисленными дескрипторами.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle идентифицирует узел в Graph. Дескрипторы не переиспользуются.
type Handle int

// Nil представляет отсутствующий узел.
const Nil Handle = 0

// Shape тип геометрии узла
type Shape uint8

const (
	ShapeCube Shape = iota
	ShapeSphere
)

// String возвращает имя геометрии
func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Texture селектор текстуры или цвета
type Texture int

const (
	TextureDebug Texture = -1
	TextureColor Texture = 0
	Texture0     Texture = 1
	Texture1     Texture = 2
	Texture2     Texture = 3
)

// Unit возвращает номер текстурного блока для текстурных селекторов
func (t Texture) Unit() (int, bool) {
	if t >= Texture0 {
		return int(t - Texture0), true
	}
	return 0, false
}

// Material описывает внешний вид узла
type Material struct {
	Texture Texture
	Color   mgl32.Vec4
}

// Цвета сцены
var (
	ColorWhite    = mgl32.Vec4{1, 1, 1, 1}
	ColorGray     = mgl32.Vec4{0.5, 0.5, 0.5, 1}
	ColorPink     = mgl32.Vec4{0.97, 0.56, 0.65, 1}
	ColorDarkPink = mgl32.Vec4{0.91, 0.45, 0.56, 1}
	ColorBlack    = mgl32.Vec4{0, 0, 0, 1}
	ColorSky      = mgl32.Vec4{0.53, 0.81, 0.92, 1}
)

// DefaultOrigin центр единичного куба
var DefaultOrigin = mgl32.Vec3{0.5, 0.5, 0.5}

// Drawable снимок узла для отправки в рендер
type Drawable struct {
	Handle   Handle
	Model    mgl32.Mat4
	Shape    Shape
	Origin   mgl32.Vec3
	Material Material
}

// Option настраивает создаваемый узел
type Option func(n *node)

// WithOrigin задаёт точку опоры внутри единичного куба
func WithOrigin(origin mgl32.Vec3) Option {
	return func(n *node) { n.origin = origin }
}

// WithName задаёт имя узла (для логов и отладки)
func WithName(name string) Option {
	return func(n *node) { n.name = name }
}

type node struct {
	handle Handle
	parent Handle
	deps   []Handle
	name   string

	origin mgl32.Vec3
	// base матрица, относительно которой построен узел
	base  mgl32.Mat4
	local mgl32.Mat4

	translation mgl32.Vec3
	rotation    mgl32.Vec3 // градусы, порядок X→Y→Z
	scale       mgl32.Vec3

	shape    Shape
	material Material
}

func newNode(h, parent Handle, base mgl32.Mat4, shape Shape, mat Material, opts []Option) node {
	n := node{
		handle:   h,
		parent:   parent,
		origin:   DefaultOrigin,
		base:     base,
		local:    base,
		scale:    mgl32.Vec3{1, 1, 1},
		shape:    shape,
		material: mat,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// rebuild переигрывает накопители поверх base без их изменения:
// local = base × T × Rx × Ry × Rz.
func (n *node) rebuild() {
	m := n.base.Mul4(mgl32.Translate3D(n.translation[0], n.translation[1], n.translation[2]))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(n.rotation[0])))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(n.rotation[1])))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(n.rotation[2])))
	n.local = m
}

// rebuildFrom заменяет базу и пересчитывает local
func (n *node) rebuildFrom(base mgl32.Mat4) {
	n.base = base
	n.rebuild()
}

// final возвращает свежую копию local × S; local не меняется
func (n *node) final() mgl32.Mat4 {
	return n.local.Mul4(mgl32.Scale3D(n.scale[0], n.scale[1], n.scale[2]))
}
