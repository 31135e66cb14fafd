package scene

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

// trs собирает T × Rx × Ry × Rz без масштаба
func trs(t, r mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(r[0]))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(r[1]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(r[2])))
}

func assertMat(t *testing.T, want, have mgl32.Mat4, msg ...string) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(have, eps), "%v\nwant %v\nhave %v", msg, want, have)
}

func TestNew_WithoutBaseIsIdentity(t *testing.T) {
	g := NewGraph()
	h := g.New(Nil, ShapeCube, Material{})

	local, ok := g.Local(h)
	require.True(t, ok)
	assertMat(t, mgl32.Ident4(), local)
	assert.Equal(t, Nil, g.Parent(h))
	assert.Equal(t, DefaultOrigin, g.Origin(h))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, g.ScaleOf(h))
}

func TestChainPropagation_EqualsFlatComposition(t *testing.T) {
	for depth := 0; depth <= 6; depth++ {
		g := NewGraph()
		handles := []Handle{g.New(Nil, ShapeCube, Material{})}
		for i := 1; i <= depth; i++ {
			h := g.New(handles[i-1], ShapeCube, Material{})
			g.Translate(h, float32(i), 0.5, -float32(i))
			g.RotateY(h, float32(10*i))
			g.Scale(h, 2, 2, 2)
			handles = append(handles, h)
		}

		// Меняем корень после построения цепочки
		root := handles[0]
		g.Translate(root, 3, -1, 2)
		g.RotateX(root, 25)
		g.RotateZ(root, -40)

		want := mgl32.Ident4()
		for i, h := range handles {
			want = want.Mul4(trs(g.Translation(h), g.Rotation(h)))
			local, ok := g.Local(h)
			require.True(t, ok)
			assertMat(t, want, local, fmt.Sprintf("depth %d node %d", depth, i))

			final, _ := g.Final(h)
			s := g.ScaleOf(h)
			assertMat(t, want.Mul4(mgl32.Scale3D(s[0], s[1], s[2])), final)
		}
	}
}

func TestSetRotate_IsAbsolute(t *testing.T) {
	g := NewGraph()
	a := g.New(Nil, ShapeCube, Material{})
	b := g.New(Nil, ShapeCube, Material{})

	g.SetRotateX(a, 30)
	g.SetRotateX(a, 30)
	assert.InDelta(t, 30, g.Rotation(a)[0], eps, "setRotateX не накапливается")

	g.RotateX(b, 30)
	g.RotateX(b, 30)
	assert.InDelta(t, 60, g.Rotation(b)[0], eps, "rotateX накапливается")

	la, _ := g.Local(a)
	assertMat(t, mgl32.HomogRotate3DX(mgl32.DegToRad(30)), la)
}

func TestSetOperations_KeepOtherAxes(t *testing.T) {
	g := NewGraph()
	h := g.New(Nil, ShapeCube, Material{})

	g.RotateY(h, 20)
	g.Translate(h, 1, 2, 3)
	g.SetRotateX(h, 30)
	g.SetTranslate(h, 5, 0, 0)
	g.SetTranslate(h, 5, 0, 0)

	assert.Equal(t, mgl32.Vec3{5, 0, 0}, g.Translation(h))
	assert.InDelta(t, 30, g.Rotation(h)[0], eps)
	assert.InDelta(t, 20, g.Rotation(h)[1], eps)

	local, _ := g.Local(h)
	assertMat(t, trs(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{30, 20, 0}), local)
}

func TestTranslateAfterRotate_UsesCanonicalOrder(t *testing.T) {
	g := NewGraph()
	h := g.New(Nil, ShapeCube, Material{})

	g.RotateY(h, 90)
	g.Translate(h, 1, 0, 0)

	local, _ := g.Local(h)
	assertMat(t, trs(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 90, 0}), local)
	pos := local.Col(3).Vec3()
	assert.True(t, pos.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps), "смещение не поворачивается накопленным поворотом: %v", pos)
}

func TestScale_IsolatedFromDependents(t *testing.T) {
	g := NewGraph()
	parent := g.New(Nil, ShapeCube, Material{})
	g.Translate(parent, 1, 1, 1)
	child := g.New(parent, ShapeCube, Material{})
	g.Translate(child, 0, 2, 0)

	before, _ := g.Final(child)
	g.Scale(parent, 3, 4, 5)
	g.SetScale(parent, 7, 7, 7)
	after, _ := g.Final(child)

	assertMat(t, before, after, "масштаб родителя не должен влиять на потомка")

	plocal, _ := g.Local(parent)
	assertMat(t, mgl32.Translate3D(1, 1, 1), plocal, "масштаб не запекается в local")
}

func TestScale_Multiplies(t *testing.T) {
	g := NewGraph()
	h := g.New(Nil, ShapeCube, Material{})
	g.Scale(h, 2, 3, 4)
	g.Scale(h, 0.5, 2, 1)
	assert.Equal(t, mgl32.Vec3{1, 6, 4}, g.ScaleOf(h))
}

func TestNewFromMatrix_HasNoLiveLink(t *testing.T) {
	g := NewGraph()
	src := g.New(Nil, ShapeCube, Material{})
	g.Translate(src, 1, 0, 0)

	m, _ := g.Local(src)
	cp := g.NewFromMatrix(m, ShapeCube, Material{})
	g.Translate(src, 10, 0, 0)

	local, _ := g.Local(cp)
	assertMat(t, mgl32.Translate3D(1, 0, 0), local)
	assert.Empty(t, g.Dependents(src))
	assert.Equal(t, Nil, g.Parent(cp))
}

func TestDependentBuiltFromParentMatrix(t *testing.T) {
	g := NewGraph()
	body := g.New(Nil, ShapeCube, Material{}, WithName("body"))
	g.Translate(body, 7, 1.5, -10)
	head := g.New(body, ShapeCube, Material{}, WithOrigin(mgl32.Vec3{1, -0.01, 0.5}), WithName("head"))
	g.Translate(head, -0.6, 0, 0)

	g.SetRotateY(body, 10)

	local, _ := g.Local(head)
	want := trs(mgl32.Vec3{7, 1.5, -10}, mgl32.Vec3{0, 10, 0}).Mul4(mgl32.Translate3D(-0.6, 0, 0))
	assertMat(t, want, local)
	assert.Equal(t, []Handle{head}, g.Dependents(body))
	assert.Equal(t, "head", g.Name(head))
	assert.Equal(t, mgl32.Vec3{1, -0.01, 0.5}, g.Origin(head))
}

func TestRemove_Subtree(t *testing.T) {
	g := NewGraph()
	root := g.New(Nil, ShapeCube, Material{})
	a := g.New(root, ShapeCube, Material{})
	b := g.New(a, ShapeCube, Material{})
	c := g.New(root, ShapeCube, Material{})
	other := g.New(Nil, ShapeSphere, Material{})

	assert.Equal(t, 5, g.Len())
	assert.Equal(t, 2, g.Remove(a), "удаляется узел и его потомок")
	assert.False(t, g.Contains(a))
	assert.False(t, g.Contains(b))
	assert.True(t, g.Contains(c))
	assert.True(t, g.Contains(other))
	assert.Equal(t, []Handle{c}, g.Dependents(root))

	// После swap-remove оставшиеся узлы должны оставаться доступными
	g.Translate(root, 1, 0, 0)
	local, ok := g.Local(c)
	require.True(t, ok)
	assertMat(t, mgl32.Translate3D(1, 0, 0), local)

	d, ok := g.Drawable(other)
	require.True(t, ok)
	assert.Equal(t, ShapeSphere, d.Shape)

	assert.Equal(t, 0, g.Remove(a), "повторное удаление — no-op")
}

func TestHandles_NotReused(t *testing.T) {
	g := NewGraph()
	a := g.New(Nil, ShapeCube, Material{})
	g.Remove(a)
	b := g.New(Nil, ShapeCube, Material{})
	assert.NotEqual(t, a, b)
	assert.False(t, g.Contains(a))
}

func TestUnknownHandle_NoOp(t *testing.T) {
	g := NewGraph()
	assert.NotPanics(t, func() {
		g.Translate(42, 1, 1, 1)
		g.SetRotateZ(42, 10)
		g.Scale(42, 2, 2, 2)
		g.SetMaterial(42, Material{})
	})
	_, ok := g.Final(42)
	assert.False(t, ok)
	assert.Nil(t, g.Dependents(42))
}

func TestDrawable_CarriesMaterial(t *testing.T) {
	g := NewGraph()
	h := g.New(Nil, ShapeCube, Material{Texture: Texture1, Color: ColorWhite})
	g.Scale(h, 2, 1, 1)
	g.SetMaterial(h, Material{Texture: TextureColor, Color: ColorPink})

	d, ok := g.Drawable(h)
	require.True(t, ok)
	assert.Equal(t, TextureColor, d.Material.Texture)
	assert.Equal(t, ColorPink, d.Material.Color)
	assertMat(t, mgl32.Scale3D(2, 1, 1), d.Model)

	count := 0
	g.Each(func(Handle) bool { count++; return true })
	assert.Equal(t, 1, count)
}

func TestTexture_Unit(t *testing.T) {
	u, ok := Texture1.Unit()
	assert.True(t, ok)
	assert.Equal(t, 1, u)

	_, ok = TextureColor.Unit()
	assert.False(t, ok)
	_, ok = TextureDebug.Unit()
	assert.False(t, ok)
	assert.Equal(t, "sphere", ShapeSphere.String())
}
