// Package camera реализует свободно летающую камеру от первого лица.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// вырожденные оси (взгляд вдоль up) не поворачиваем
const epsilon = 1e-6

// Options начальное состояние камеры
type Options struct {
	Eye    mgl32.Vec3
	LookAt mgl32.Vec3
	Up     mgl32.Vec3
	FOV    float32 // градусы
	Aspect float32 // ширина / высота; 0 означает 1
	Near   float32 // 0: DefaultNear
	Far    float32 // 0: DefaultFar
}

// DefaultOptions возвращает стартовую позицию сцены
func DefaultOptions() Options {
	return Options{
		Eye:    mgl32.Vec3{8, 5, 8},
		LookAt: mgl32.Vec3{5, 5, 5},
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    60,
		Aspect: 1,
	}
}

// FlyCamera хранит eye/lookAt/up и производные матрицы вида и проекции.
// Каждый мутатор пересчитывает затронутую матрицу до возврата.
type FlyCamera struct {
	eye, at, up mgl32.Vec3
	fov         float32
	aspect      float32
	near, far   float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New создаёт камеру. Диапазоны не проверяются.
func New(opts Options) *FlyCamera {
	c := &FlyCamera{
		eye:    opts.Eye,
		at:     opts.LookAt,
		up:     opts.Up,
		fov:    opts.FOV,
		aspect: opts.Aspect,
		near:   opts.Near,
		far:    opts.Far,
	}
	if c.aspect == 0 {
		c.aspect = 1
	}
	if c.near == 0 {
		c.near = DefaultNear
	}
	if c.far == 0 {
		c.far = DefaultFar
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *FlyCamera) updateView() {
	c.view = mgl32.LookAtV(c.eye, c.at, c.up)
}

func (c *FlyCamera) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

func (c *FlyCamera) Eye() mgl32.Vec3 { return c.eye }
func (c *FlyCamera) LookAt() mgl32.Vec3 { return c.at }
func (c *FlyCamera) Up() mgl32.Vec3 { return c.up }
func (c *FlyCamera) FOV() float32 { return c.fov }
func (c *FlyCamera) Aspect() float32 { return c.aspect }
func (c *FlyCamera) View() mgl32.Mat4 { return c.view }
func (c *FlyCamera) Projection() mgl32.Mat4 { return c.projection }
func (c *FlyCamera) Forward() mgl32.Vec3 { return c.at.Sub(c.eye) }
func (c *FlyCamera) ViewProjection() mgl32.Mat4 { return c.projection.Mul4(c.view) }

// Heading возвращает рыскание и тангаж взгляда в градусах
func (c *FlyCamera) Heading() (yaw, pitch float32) {
	f := c.Forward()
	l := f.Len()
	if l < epsilon {
		return 0, 0
	}
	yaw = mgl32.RadToDeg(math32.Atan2(f[0], -f[2]))
	pitch = mgl32.RadToDeg(math32.Asin(f[1] / l))
	return yaw, pitch
}

// SetFOV меняет угол обзора и пересчитывает проекцию
func (c *FlyCamera) SetFOV(fov float32) {
	c.fov = fov
	c.updateProjection()
}

// SetAspect меняет соотношение сторон по размеру холста
func (c *FlyCamera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.updateProjection()
}

// shift сдвигает eye и lookAt на d
func (c *FlyCamera) shift(d mgl32.Vec3) {
	c.eye = c.eye.Add(d)
	c.at = c.at.Add(d)
	c.updateView()
}

// step возвращает dir единичной длины, умноженный на speed
func step(dir mgl32.Vec3, speed float32) (mgl32.Vec3, bool) {
	if dir.Len() < epsilon {
		return mgl32.Vec3{}, false
	}
	return dir.Normalize().Mul(speed), true
}

// MoveForward сдвигает камеру вдоль взгляда
func (c *FlyCamera) MoveForward(speed float32) {
	if d, ok := step(c.Forward(), speed); ok {
		c.shift(d)
	}
}

// MoveBackward сдвигает камеру против взгляда
func (c *FlyCamera) MoveBackward(speed float32) {
	if d, ok := step(c.eye.Sub(c.at), speed); ok {
		c.shift(d)
	}
}

// MoveLeft сдвигает вдоль up × forward
func (c *FlyCamera) MoveLeft(speed float32) {
	if d, ok := step(c.up.Cross(c.Forward()), speed); ok {
		c.shift(d)
	}
}

// MoveRight сдвигает вдоль forward × up
func (c *FlyCamera) MoveRight(speed float32) {
	if d, ok := step(c.Forward().Cross(c.up), speed); ok {
		c.shift(d)
	}
}

// MoveUp сдвигает вдоль up
func (c *FlyCamera) MoveUp(speed float32) {
	if d, ok := step(c.up, speed); ok {
		c.shift(d)
	}
}

// MoveDown сдвигает против up
func (c *FlyCamera) MoveDown(speed float32) {
	if d, ok := step(c.up, -speed); ok {
		c.shift(d)
	}
}

// rotate поворачивает v вокруг оси axis на deg градусов
func rotate(v, axis mgl32.Vec3, deg float32) mgl32.Vec3 {
	m := mgl32.HomogRotate3D(mgl32.DegToRad(deg), axis.Normalize())
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// PanLeft поворачивает взгляд вокруг up; длина forward сохраняется
func (c *FlyCamera) PanLeft(deg float32) {
	c.panAroundUp(deg)
}

// PanRight поворачивает взгляд вокруг up в обратную сторону
func (c *FlyCamera) PanRight(deg float32) {
	c.panAroundUp(-deg)
}

func (c *FlyCamera) panAroundUp(deg float32) {
	if c.up.Len() < epsilon {
		return
	}
	f := rotate(c.Forward(), c.up, deg)
	c.at = c.eye.Add(f)
	c.updateView()
}

// PanUp наклоняет взгляд вверх вокруг forward × up.
// forward нормализуется, поэтому lookAt оказывается на расстоянии 1 от eye.
func (c *FlyCamera) PanUp(deg float32) {
	f := c.Forward()
	if f.Len() < epsilon {
		return
	}
	f = f.Normalize()
	right := f.Cross(c.up)
	if right.Len() < epsilon {
		return
	}
	c.at = c.eye.Add(rotate(f, right, deg))
	c.updateView()
}

// PanDown наклоняет взгляд вниз
func (c *FlyCamera) PanDown(deg float32) {
	c.PanUp(-deg)
}
