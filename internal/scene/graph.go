package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Graph владеет всеми узлами сцены.
// Узлы хранятся плотно; slots отображает дескриптор в индекс nodes.
// Удаление переносит последний узел на место удалённого.
type Graph struct {
	next  Handle
	slots map[Handle]int
	nodes []node
	stack []Handle
}

// NewGraph создаёт пустой граф
func NewGraph() *Graph {
	return &Graph{slots: make(map[Handle]int)}
}

func (g *Graph) get(h Handle) *node {
	i, ok := g.slots[h]
	if !ok {
		return nil
	}
	return &g.nodes[i]
}

func (g *Graph) insert(parent Handle, base mgl32.Mat4, shape Shape, mat Material, opts []Option) Handle {
	g.next++
	h := g.next
	g.slots[h] = len(g.nodes)
	g.nodes = append(g.nodes, newNode(h, parent, base, shape, mat, opts))
	return h
}

// New создаёт узел. Если parent существует, узел получает копию его
// матрицы и становится зависимым: изменения parent будут распространяться
// на него. Иначе матрица единичная и связи нет.
func (g *Graph) New(parent Handle, shape Shape, mat Material, opts ...Option) Handle {
	p := g.get(parent)
	if p == nil {
		return g.insert(Nil, mgl32.Ident4(), shape, mat, opts)
	}
	base := p.local
	h := g.insert(parent, base, shape, mat, opts)
	// insert мог переразместить nodes
	p = g.get(parent)
	p.deps = append(p.deps, h)
	return h
}

// NewFromMatrix создаёт узел из значения матрицы: одноразовая копия, без связи.
func (g *Graph) NewFromMatrix(base mgl32.Mat4, shape Shape, mat Material, opts ...Option) Handle {
	return g.insert(Nil, base, shape, mat, opts)
}

// Contains сообщает, существует ли узел
func (g *Graph) Contains(h Handle) bool {
	_, ok := g.slots[h]
	return ok
}

// Len возвращает число живых узлов
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Translate добавляет смещение к накопителю и распространяет изменение
func (g *Graph) Translate(h Handle, dx, dy, dz float32) {
	n := g.get(h)
	if n == nil {
		return
	}
	n.translation = n.translation.Add(mgl32.Vec3{dx, dy, dz})
	n.rebuild()
	g.propagate(h)
}

// RotateX добавляет поворот вокруг X (градусы)
func (g *Graph) RotateX(h Handle, deg float32) { g.rotate(h, 0, deg, false) }

// RotateY добавляет поворот вокруг Y (градусы)
func (g *Graph) RotateY(h Handle, deg float32) { g.rotate(h, 1, deg, false) }

// RotateZ добавляет поворот вокруг Z (градусы)
func (g *Graph) RotateZ(h Handle, deg float32) { g.rotate(h, 2, deg, false) }

// SetTranslate устанавливает абсолютное смещение, не затрагивая повороты
func (g *Graph) SetTranslate(h Handle, x, y, z float32) {
	n := g.get(h)
	if n == nil {
		return
	}
	n.translation = mgl32.Vec3{x, y, z}
	n.rebuild()
	g.propagate(h)
}

// SetRotateX устанавливает абсолютный поворот вокруг X, остальные оси не меняются
func (g *Graph) SetRotateX(h Handle, deg float32) { g.rotate(h, 0, deg, true) }

// SetRotateY устанавливает абсолютный поворот вокруг Y
func (g *Graph) SetRotateY(h Handle, deg float32) { g.rotate(h, 1, deg, true) }

// SetRotateZ устанавливает абсолютный поворот вокруг Z
func (g *Graph) SetRotateZ(h Handle, deg float32) { g.rotate(h, 2, deg, true) }

func (g *Graph) rotate(h Handle, axis int, deg float32, absolute bool) {
	n := g.get(h)
	if n == nil {
		return
	}
	if absolute {
		n.rotation[axis] = deg
	} else {
		n.rotation[axis] += deg
	}
	n.rebuild()
	g.propagate(h)
}

// Scale умножает накопитель масштаба. Масштаб не входит в local и не
// наследуется зависимыми узлами, поэтому распространение не нужно.
func (g *Graph) Scale(h Handle, sx, sy, sz float32) {
	n := g.get(h)
	if n == nil {
		return
	}
	n.scale = mgl32.Vec3{n.scale[0] * sx, n.scale[1] * sy, n.scale[2] * sz}
}

// SetScale заменяет накопитель масштаба
func (g *Graph) SetScale(h Handle, sx, sy, sz float32) {
	n := g.get(h)
	if n == nil {
		return
	}
	n.scale = mgl32.Vec3{sx, sy, sz}
}

// SetMaterial меняет внешний вид узла
func (g *Graph) SetMaterial(h Handle, mat Material) {
	if n := g.get(h); n != nil {
		n.material = mat
	}
}

// propagate обходит зависимых в глубину явным стеком: каждый потомок
// перестраивается от уже обновлённой матрицы родителя ровно один раз.
func (g *Graph) propagate(h Handle) {
	root := g.get(h)
	if root == nil || len(root.deps) == 0 {
		return
	}

	stack := g.stack[:0]
	for i := len(root.deps) - 1; i >= 0; i-- {
		stack = append(stack, root.deps[i])
	}

	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dn := g.get(d)
		if dn == nil {
			continue
		}
		dn.rebuildFrom(g.get(dn.parent).local)
		for i := len(dn.deps) - 1; i >= 0; i-- {
			stack = append(stack, dn.deps[i])
		}
	}
	g.stack = stack
}

// Remove удаляет узел вместе со всеми зависимыми и отвязывает его от родителя.
// Возвращает число удалённых узлов; для неизвестного дескриптора 0.
func (g *Graph) Remove(h Handle) int {
	n := g.get(h)
	if n == nil {
		return 0
	}

	if p := g.get(n.parent); p != nil {
		for i, d := range p.deps {
			if d == h {
				p.deps = append(p.deps[:i], p.deps[i+1:]...)
				break
			}
		}
	}

	doomed := []Handle{h}
	for i := 0; i < len(doomed); i++ {
		doomed = append(doomed, g.get(doomed[i]).deps...)
	}
	for _, d := range doomed {
		g.removeSlot(d)
	}
	return len(doomed)
}

func (g *Graph) removeSlot(h Handle) {
	i := g.slots[h]
	last := len(g.nodes) - 1
	if i < last {
		g.nodes[i] = g.nodes[last]
		g.slots[g.nodes[i].handle] = i
	}
	g.nodes[last] = node{}
	g.nodes = g.nodes[:last]
	delete(g.slots, h)
}

// Local возвращает матрицу узла без масштаба
func (g *Graph) Local(h Handle) (mgl32.Mat4, bool) {
	n := g.get(h)
	if n == nil {
		return mgl32.Ident4(), false
	}
	return n.local, true
}

// Final возвращает local × S(scale), вычисленную заново
func (g *Graph) Final(h Handle) (mgl32.Mat4, bool) {
	n := g.get(h)
	if n == nil {
		return mgl32.Ident4(), false
	}
	return n.final(), true
}

// Translation возвращает накопленное смещение
func (g *Graph) Translation(h Handle) mgl32.Vec3 {
	if n := g.get(h); n != nil {
		return n.translation
	}
	return mgl32.Vec3{}
}

// Rotation возвращает накопленные углы (градусы) по X, Y, Z
func (g *Graph) Rotation(h Handle) mgl32.Vec3 {
	if n := g.get(h); n != nil {
		return n.rotation
	}
	return mgl32.Vec3{}
}

// ScaleOf возвращает накопленный масштаб
func (g *Graph) ScaleOf(h Handle) mgl32.Vec3 {
	if n := g.get(h); n != nil {
		return n.scale
	}
	return mgl32.Vec3{1, 1, 1}
}

// Origin возвращает точку опоры узла
func (g *Graph) Origin(h Handle) mgl32.Vec3 {
	if n := g.get(h); n != nil {
		return n.origin
	}
	return DefaultOrigin
}

// Name возвращает имя узла
func (g *Graph) Name(h Handle) string {
	if n := g.get(h); n != nil {
		return n.name
	}
	return ""
}

// Parent возвращает базовый узел или Nil
func (g *Graph) Parent(h Handle) Handle {
	if n := g.get(h); n != nil {
		return n.parent
	}
	return Nil
}

// Dependents возвращает копию списка зависимых узлов
func (g *Graph) Dependents(h Handle) []Handle {
	n := g.get(h)
	if n == nil {
		return nil
	}
	return append([]Handle(nil), n.deps...)
}

// Drawable возвращает снимок узла для рендера
func (g *Graph) Drawable(h Handle) (Drawable, bool) {
	n := g.get(h)
	if n == nil {
		return Drawable{}, false
	}
	return Drawable{
		Handle:   h,
		Model:    n.final(),
		Shape:    n.shape,
		Origin:   n.origin,
		Material: n.material,
	}, true
}

// Each вызывает fn для каждого живого узла, пока fn возвращает true.
// Порядок обхода не определён; граф нельзя менять внутри fn.
func (g *Graph) Each(fn func(h Handle) bool) {
	for i := range g.nodes {
		if !fn(g.nodes[i].handle) {
			return
		}
	}
}
