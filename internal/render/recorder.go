package render

import (
	"github.com/annel0/blocky-world/internal/mesh"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall одна записанная отрисовка
type DrawCall struct {
	Mesh     MeshHandle
	Model    mgl32.Mat4
	Material scene.Material
}

// Recorder бэкенд в памяти: запоминает геометрию и вызовы.
// Используется в тестах и для запуска без окна.
type Recorder struct {
	InitErr   error
	UploadErr error
	// AutoResolve сразу разрешает загрузки текстур успешным результатом
	AutoResolve bool

	Meshes     []*mesh.Mesh
	Draws      []DrawCall
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Futures    map[int]*TextureFuture
	Frames     int
}

var _ Backend = (*Recorder)(nil)

// NewRecorder создаёт пустой бэкенд
func NewRecorder() *Recorder {
	return &Recorder{Futures: make(map[int]*TextureFuture)}
}

func (r *Recorder) Init() error {
	return r.InitErr
}

func (r *Recorder) UploadMesh(m *mesh.Mesh) (MeshHandle, error) {
	if r.UploadErr != nil {
		return 0, r.UploadErr
	}
	r.Meshes = append(r.Meshes, m)
	return MeshHandle(len(r.Meshes) - 1), nil
}

// SetViewProjection начинает новый кадр: прошлые вызовы сбрасываются
func (r *Recorder) SetViewProjection(view, projection mgl32.Mat4) {
	r.View = view
	r.Projection = projection
	r.Draws = r.Draws[:0]
	r.Frames++
}

func (r *Recorder) SubmitDraw(h MeshHandle, model mgl32.Mat4, mat scene.Material) {
	r.Draws = append(r.Draws, DrawCall{Mesh: h, Model: model, Material: mat})
}

func (r *Recorder) LoadTexture(url string, unit int) *TextureFuture {
	f := NewTextureFuture(url, unit)
	if r.AutoResolve {
		f.Resolve(url, nil)
	}
	r.Futures[unit] = f
	return f
}

// Mesh возвращает загруженную геометрию по дескриптору
func (r *Recorder) Mesh(h MeshHandle) *mesh.Mesh {
	if int(h) < 0 || int(h) >= len(r.Meshes) {
		return nil
	}
	return r.Meshes[h]
}
