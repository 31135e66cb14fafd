package host

import (
	"image"
	"image/color"
	"sync"

	"github.com/annel0/blocky-world/internal/logging"
	"github.com/annel0/blocky-world/internal/mesh"
	"github.com/annel0/blocky-world/internal/render"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// maxBatchVertices предел вершин одного DrawTriangles (индексы uint16)
const maxBatchVertices = 65535 / 3 * 3

// Backend программный растеризатор поверх ebiten.DrawTriangles.
// Треугольники собираются за кадр и рисуются в Flush от дальних к ближним.
type Backend struct {
	log    *logging.Logger
	loader *TextureLoader

	meshes []*mesh.Mesh
	vp     mgl32.Mat4
	width  float32
	height float32
	tris   []triangle

	white    *ebiten.Image
	mu       sync.Mutex
	futures  map[int]*render.TextureFuture
	textures map[int]*ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

var _ render.Backend = (*Backend)(nil)

// NewBackend создаёт бэкенд с размером кадра width×height
func NewBackend(width, height int, loader *TextureLoader) *Backend {
	if loader == nil {
		loader = NewTextureLoader(nil)
	}
	return &Backend{
		log:      logging.GetRenderLogger(),
		loader:   loader,
		vp:       mgl32.Ident4(),
		width:    float32(width),
		height:   float32(height),
		futures:  make(map[int]*render.TextureFuture),
		textures: make(map[int]*ebiten.Image),
	}
}

// Init готовит белую подложку для заливки цветом
func (b *Backend) Init() error {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	b.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	return nil
}

// UploadMesh сохраняет геометрию; индекс в срезе служит дескриптором
func (b *Backend) UploadMesh(m *mesh.Mesh) (render.MeshHandle, error) {
	if m == nil {
		return 0, errors.Wrap(render.ErrBufferCreate, "nil mesh")
	}
	b.meshes = append(b.meshes, m)
	return render.MeshHandle(len(b.meshes) - 1), nil
}

// SetViewProjection начинает новый кадр
func (b *Backend) SetViewProjection(view, projection mgl32.Mat4) {
	b.vp = projection.Mul4(view)
	b.tris = b.tris[:0]
}

// SubmitDraw проецирует меш и откладывает треугольники до Flush
func (b *Backend) SubmitDraw(h render.MeshHandle, model mgl32.Mat4, mat scene.Material) {
	if int(h) < 0 || int(h) >= len(b.meshes) {
		b.log.Warn("Неизвестный меш %d", h)
		return
	}
	b.tris = rasterize(b.tris, b.meshes[h], b.vp.Mul4(model), model, mat, b.width, b.height)
}

// LoadTexture ставит загрузку в очередь загрузчика
func (b *Backend) LoadTexture(url string, unit int) *render.TextureFuture {
	f := b.loader.Load(url, unit)
	b.mu.Lock()
	b.futures[unit] = f
	b.mu.Unlock()
	return f
}

// Resize меняет размер кадра
func (b *Backend) Resize(width, height int) {
	b.width = float32(width)
	b.height = float32(height)
}

// Triangles число треугольников, накопленных в текущем кадре
func (b *Backend) Triangles() int {
	return len(b.tris)
}

// texture возвращает изображение блока, создавая его из декодированной
// картинки при первом обращении. nil, пока загрузка не завершена.
func (b *Backend) texture(unit int) *ebiten.Image {
	if unit == flatUnit {
		return b.white
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if img, ok := b.textures[unit]; ok {
		return img
	}
	f, ok := b.futures[unit]
	if !ok {
		return nil
	}
	tex, done, err := f.Result()
	if !done || err != nil {
		return nil
	}
	src, ok := tex.(image.Image)
	if !ok {
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	b.textures[unit] = img
	return img
}

// Flush рисует накопленные треугольники на screen
func (b *Backend) Flush(screen *ebiten.Image) {
	sortBackToFront(b.tris)

	var current *ebiten.Image
	for i := range b.tris {
		tr := &b.tris[i]
		src := b.texture(tr.unit)
		if src == nil {
			src = b.white
		}
		if src != current || len(b.vertices)+3 > maxBatchVertices {
			b.drawBatch(screen, current)
			current = src
		}

		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		base := uint16(len(b.vertices))
		for k := 0; k < 3; k++ {
			v := tr.v[k]
			if src == b.white {
				v.SrcX, v.SrcY = 1, 1
			} else {
				minPt := src.Bounds().Min
				sx, sy := srcCoords(tr.uv[k], w, h)
				v.SrcX = float32(minPt.X) + sx
				v.SrcY = float32(minPt.Y) + sy
			}
			b.vertices = append(b.vertices, v)
		}
		b.indices = append(b.indices, base, base+1, base+2)
	}
	b.drawBatch(screen, current)
}

func (b *Backend) drawBatch(screen, src *ebiten.Image) {
	if src == nil || len(b.indices) == 0 {
		b.vertices = b.vertices[:0]
		b.indices = b.indices[:0]
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillAll
	screen.DrawTriangles(b.vertices, b.indices, src, op)
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}
