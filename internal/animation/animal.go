// Package animation строит блочное животное и анимирует его узлы.
package animation

import (
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CellSize масштаб одной клетки эскиза
const CellSize = 0.2

// DefaultPosition место животного в сцене
var DefaultPosition = mgl32.Vec3{7, 1.5, -10}

// Animal иерархия: тело → голова → глаза и уши, тело → хвост
type Animal struct {
	graph *scene.Graph
	rest  mgl32.Vec3

	Body, Head scene.Handle
	EyeL, EyeR scene.Handle
	EarL, EarR scene.Handle
	Tail       scene.Handle

	// MouthOpening включает покачивание головы
	MouthOpening bool
}

func pink() scene.Material {
	return scene.Material{Texture: scene.TextureColor, Color: scene.ColorPink}
}

func darkPink() scene.Material {
	return scene.Material{Texture: scene.TextureColor, Color: scene.ColorDarkPink}
}

func black() scene.Material {
	return scene.Material{Texture: scene.TextureColor, Color: scene.ColorBlack}
}

// part создаёт узел, масштабированный в клетках эскиза
func part(g *scene.Graph, base scene.Handle, mat scene.Material, name string, origin mgl32.Vec3, sx, sy, sz float32) scene.Handle {
	h := g.New(base, scene.ShapeCube, mat, scene.WithOrigin(origin), scene.WithName(name))
	g.Scale(h, sx, sy, sz)
	g.Scale(h, CellSize, CellSize, CellSize)
	return h
}

// BuildAnimal добавляет животное в граф в точке pos
func BuildAnimal(g *scene.Graph, pos mgl32.Vec3) *Animal {
	a := &Animal{graph: g, rest: pos}
	side := mgl32.Vec3{1, 1, 0.5}

	a.Body = part(g, scene.Nil, pink(), "body", scene.DefaultOrigin, 6, 4, 5)
	g.Translate(a.Body, pos[0], pos[1], pos[2])

	a.Head = part(g, a.Body, pink(), "head", mgl32.Vec3{1, -0.01, 0.5}, 3, 3, 4)
	g.Translate(a.Head, -3*CellSize, 0, 0)

	a.EyeL = part(g, a.Head, black(), "eyeL", side, 0.5, 0.5, 0.5)
	g.Translate(a.EyeL, -3.6*CellSize, 1.2*CellSize, -1.5*CellSize)

	a.EyeR = part(g, a.Head, black(), "eyeR", side, 0.5, 0.5, 0.5)
	g.Translate(a.EyeR, -3.6*CellSize, 1.2*CellSize, 1.5*CellSize)

	a.EarL = part(g, a.Head, darkPink(), "earL", side, 1, 1.5, 1)
	g.Translate(a.EarL, -2.6*CellSize, 2.5*CellSize, -2*CellSize)

	a.EarR = part(g, a.Head, darkPink(), "earR", side, 1, 1.5, 1)
	g.Translate(a.EarR, -2.6*CellSize, 2.5*CellSize, 2*CellSize)

	a.Tail = part(g, a.Body, darkPink(), "tail", side, 0.5, 0.5, 3)
	g.Translate(a.Tail, 3.5*CellSize, 0, 0)
	g.RotateX(a.Tail, 90)
	g.RotateY(a.Tail, 45)

	return a
}

// Parts возвращает узлы в порядке построения
func (a *Animal) Parts() []scene.Handle {
	return []scene.Handle{a.Body, a.Head, a.EyeL, a.EyeR, a.EarL, a.EarR, a.Tail}
}

// Rest возвращает исходную позицию тела
func (a *Animal) Rest() mgl32.Vec3 {
	return a.rest
}

// Update выставляет углы частей для момента t (секунды)
func (a *Animal) Update(t float64) {
	tt := float32(t)
	g := a.graph

	g.SetRotateY(a.Body, 10*math32.Sin(tt))

	g.SetRotateZ(a.EarL, 20*math32.Sin(2*tt))
	g.SetRotateZ(a.EarR, -20*math32.Sin(2*tt))

	g.SetRotateZ(a.Tail, 30*math32.Sin(4*tt))

	if a.MouthOpening {
		g.SetRotateX(a.Head, 20*math32.Abs(math32.Sin(tt)))
	}
}

// SetLift поднимает тело над исходной позицией на dy
func (a *Animal) SetLift(dy float32) {
	a.graph.SetTranslate(a.Body, a.rest[0], a.rest[1]+dy, a.rest[2])
}

// Remove удаляет животное из графа
func (a *Animal) Remove() int {
	return a.graph.Remove(a.Body)
}
