package render

import (
	"github.com/annel0/blocky-world/internal/logging"
	"github.com/annel0/blocky-world/internal/mesh"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// FrameStats счётчики последнего кадра
type FrameStats struct {
	DrawCalls    int
	Placeholders int // отрисовок с цветом вместо незагруженной текстуры
	Skipped      int // узлы, которых нет в графе или без геометрии
}

// Renderer переводит узлы сцены в вызовы бэкенда
type Renderer struct {
	backend Backend
	log     *logging.Logger

	cubes    map[mgl32.Vec3]MeshHandle
	sphere   MeshHandle
	textures map[int]*TextureFuture
	reported map[int]bool

	stats FrameStats
}

// NewRenderer создаёт рендерер поверх бэкенда
func NewRenderer(b Backend) *Renderer {
	return &Renderer{
		backend:  b,
		log:      logging.GetRenderLogger(),
		cubes:    make(map[mgl32.Vec3]MeshHandle),
		textures: make(map[int]*TextureFuture),
		reported: make(map[int]bool),
	}
}

// Init поднимает бэкенд, загружает общую геометрию и запускает загрузку
// текстур; текстура i попадает в блок i. Любая ошибка фатальна.
func (r *Renderer) Init(textureURLs []string) error {
	if err := r.backend.Init(); err != nil {
		return errors.Wrap(err, "init backend")
	}

	if _, err := r.cubeMesh(scene.DefaultOrigin); err != nil {
		return err
	}
	sphere, err := r.upload(mesh.DefaultSphere())
	if err != nil {
		return err
	}
	r.sphere = sphere

	for unit, url := range textureURLs {
		r.textures[unit] = r.backend.LoadTexture(url, unit)
		r.log.Debug("🖼️ Загрузка текстуры %s в блок %d", url, unit)
	}

	r.log.Info("✅ Рендерер готов: %d текстур в очереди", len(textureURLs))
	return nil
}

func (r *Renderer) upload(m *mesh.Mesh) (MeshHandle, error) {
	if err := m.Validate(); err != nil {
		return 0, errors.Wrap(ErrBufferCreate, err.Error())
	}
	h, err := r.backend.UploadMesh(m)
	if err != nil {
		return 0, errors.Wrapf(err, "upload mesh %s", m.Name)
	}
	return h, nil
}

// cubeMesh возвращает куб для точки опоры, загружая его при первом обращении
func (r *Renderer) cubeMesh(origin mgl32.Vec3) (MeshHandle, error) {
	if h, ok := r.cubes[origin]; ok {
		return h, nil
	}
	h, err := r.upload(mesh.Cube(origin))
	if err != nil {
		return 0, err
	}
	r.cubes[origin] = h
	return h, nil
}

// Texture возвращает загрузку для текстурного блока
func (r *Renderer) Texture(unit int) (*TextureFuture, bool) {
	f, ok := r.textures[unit]
	return f, ok
}

// BeginFrame передаёт матрицы камеры и обнуляет статистику
func (r *Renderer) BeginFrame(cam ViewSource) {
	r.stats = FrameStats{}
	r.backend.SetViewProjection(cam.View(), cam.Projection())
}

// Submit отправляет узел на отрисовку с его итоговой матрицей.
// Пока текстура не загружена, узел рисуется цветом материала.
func (r *Renderer) Submit(g *scene.Graph, h scene.Handle) {
	d, ok := g.Drawable(h)
	if !ok {
		r.stats.Skipped++
		return
	}

	var mh MeshHandle
	switch d.Shape {
	case scene.ShapeSphere:
		mh = r.sphere
	default:
		var err error
		if mh, err = r.cubeMesh(d.Origin); err != nil {
			r.log.Error("❌ Куб для точки опоры %v: %v", d.Origin, err)
			r.stats.Skipped++
			return
		}
	}

	mat := d.Material
	if unit, textured := mat.Texture.Unit(); textured && !r.textureReady(unit) {
		mat.Texture = scene.TextureColor
		r.stats.Placeholders++
	}

	r.backend.SubmitDraw(mh, d.Model, mat)
	r.stats.DrawCalls++
}

func (r *Renderer) textureReady(unit int) bool {
	f, ok := r.textures[unit]
	if !ok {
		return false
	}
	if f.Failed() && !r.reported[unit] {
		_, _, err := f.Result()
		r.log.Warn("⚠️ Текстура %s не загружена, остаётся цвет: %v", f.URL, err)
		r.reported[unit] = true
	}
	return f.Ready()
}

// Stats возвращает счётчики текущего кадра
func (r *Renderer) Stats() FrameStats {
	return r.stats
}
