package host

import (
	"sort"

	"github.com/annel0/blocky-world/internal/camera"
	"github.com/annel0/blocky-world/internal/mesh"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// flatUnit источник «без текстуры»: белый пиксель, окрашенный цветом вершины
const flatUnit = -1

// triangle треугольник в экранных координатах
type triangle struct {
	// depth расстояние до дальней вершины: пол и небо уходят под блоки
	depth float32
	unit  int
	v     [3]ebiten.Vertex
	uv    [3]mgl32.Vec2
}

// projected вершина после model·view·projection
type projected struct {
	x, y float32
	w    float32
}

// project переводит точку модели в пиксели экрана width×height.
// ok == false для точек ближе плоскости отсечения.
func project(mvp mgl32.Mat4, p mgl32.Vec3, width, height float32) (projected, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip[3] < camera.DefaultNear {
		return projected{}, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return projected{
		x: (ndcX + 1) / 2 * width,
		y: (1 - ndcY) / 2 * height,
		w: clip[3],
	}, true
}

// offscreen сообщает, лежит ли треугольник целиком за одной из границ экрана
func offscreen(p [3]projected, width, height float32) bool {
	allLeft, allRight, allTop, allBottom := true, true, true, true
	for _, v := range p {
		allLeft = allLeft && v.x < 0
		allRight = allRight && v.x > width
		allTop = allTop && v.y < 0
		allBottom = allBottom && v.y > height
	}
	return allLeft || allRight || allTop || allBottom
}

// shade затемняет боковые и нижние грани, чтобы блоки различались
func shade(model mgl32.Mat4, n mgl32.Vec3) float32 {
	wn := model.Mat3().Mul3x1(n)
	l := wn.Len()
	if l == 0 {
		return 1
	}
	return 0.7 + 0.3*wn[1]/l
}

// materialColor цвет вершины для материала; для DEBUG цвет берётся из UV
func materialColor(mat scene.Material, uv mgl32.Vec2) mgl32.Vec4 {
	switch {
	case mat.Texture == scene.TextureDebug:
		return mgl32.Vec4{uv[0], uv[1], 1, 1}
	case mat.Texture == scene.TextureColor:
		return mat.Color
	default:
		return mgl32.Vec4{1, 1, 1, 1}
	}
}

// rasterize добавляет в out треугольники меша, прошедшие отсечение
func rasterize(out []triangle, m *mesh.Mesh, mvp, model mgl32.Mat4, mat scene.Material, width, height float32) []triangle {
	unit := flatUnit
	if u, ok := mat.Texture.Unit(); ok {
		unit = u
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		idx := [3]int{a, b, c}

		var p [3]projected
		visible := true
		for i, vi := range idx {
			var ok bool
			if p[i], ok = project(mvp, m.Vertex(vi), width, height); !ok {
				visible = false
				break
			}
		}
		if !visible || offscreen(p, width, height) {
			continue
		}

		tint := float32(1)
		if len(m.Normals) > 0 {
			tint = shade(model, m.Normal(a))
		}

		tr := triangle{unit: unit}
		for i, vi := range idx {
			var uv mgl32.Vec2
			if len(m.UVs) > 0 {
				uv = m.UV(vi)
			}
			col := materialColor(mat, uv)
			tr.uv[i] = uv
			tr.v[i] = ebiten.Vertex{
				DstX:   p[i].x,
				DstY:   p[i].y,
				ColorR: col[0] * tint,
				ColorG: col[1] * tint,
				ColorB: col[2] * tint,
				ColorA: col[3],
			}
			tr.depth = max(tr.depth, p[i].w)
		}
		out = append(out, tr)
	}
	return out
}

// sortBackToFront упорядочивает треугольники для алгоритма художника
func sortBackToFront(tris []triangle) {
	sort.SliceStable(tris, func(i, j int) bool {
		return tris[i].depth > tris[j].depth
	})
}

// srcCoords переводит UV в пиксели текстуры; v отсчитывается снизу
func srcCoords(uv mgl32.Vec2, w, h int) (float32, float32) {
	u := math32.Min(math32.Max(uv[0], 0), 1)
	v := math32.Min(math32.Max(uv[1], 0), 1)
	return u * float32(w), (1 - v) * float32(h)
}
