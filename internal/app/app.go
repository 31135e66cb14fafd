// Package app собирает сцену: мир, камеру, животное и рендерер, и
// продвигает её по тикам. Глобального состояния нет: всё живёт в App.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/blocky-world/internal/animation"
	"github.com/annel0/blocky-world/internal/camera"
	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/input"
	"github.com/annel0/blocky-world/internal/logging"
	"github.com/annel0/blocky-world/internal/metrics"
	"github.com/annel0/blocky-world/internal/render"
	"github.com/annel0/blocky-world/internal/scene"
	"github.com/annel0/blocky-world/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SpherePosition место сферы в сцене
var SpherePosition = mgl32.Vec3{0, 3, 0}

// Options дополнительные параметры Setup
type Options struct {
	// Session идентификатор запуска; если пусто, новый UUID
	Session string
	// Start момент отсчёта анимаций; по умолчанию time.Now()
	Start time.Time
	// Controller источник ввода; при nil контроллер с раскладкой по умолчанию
	Controller *input.Controller
}

// Settings значения для панели настроек
type Settings struct {
	FOV         float32
	Sensitivity float64
	InvertX     bool
	InvertY     bool
}

// App состояние приложения
type App struct {
	cfg     *config.Config
	session string
	log     *logging.Logger

	graph     *scene.Graph
	world     *world.World
	camera    *camera.FlyCamera
	renderer  *render.Renderer
	input     *input.Controller
	settings  input.Settings
	animal    *animation.Animal
	scheduler *animation.Scheduler
	sphere    scene.Handle
	exporter  *metrics.Exporter

	start    time.Time
	lastTick time.Time
	fps      float64

	frames  uint64
	added   uint64
	removed uint64

	mu       sync.Mutex
	snapshot metrics.Stats
}

// Setup строит сцену. Любая ошибка фатальна: приложение не запускается.
func Setup(cfg *config.Config, backend render.Backend, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	a := &App{
		cfg:     cfg,
		session: opts.Session,
		log:     logging.GetAppLogger(),
		graph:   scene.NewGraph(),
		input:   opts.Controller,
		start:   opts.Start,
		settings: input.Settings{
			Sensitivity: cfg.Input.MouseSensitivity,
			InvertX:     cfg.Input.InvertX,
			InvertY:     cfg.Input.InvertY,
		},
	}
	if a.session == "" {
		a.session = uuid.NewString()
	}
	if a.start.IsZero() {
		a.start = time.Now()
	}
	if a.input == nil {
		a.input = input.NewController(nil)
	}

	a.renderer = render.NewRenderer(backend)
	if err := a.renderer.Init(cfg.Textures); err != nil {
		return nil, errors.Wrap(err, "renderer")
	}

	jitter, err := world.NewJitter(cfg.World)
	if err != nil {
		return nil, errors.Wrap(err, "world jitter")
	}
	a.world = world.New(a.graph, cfg.World, jitter)
	if err := a.world.GenerateHeightMap(); err != nil {
		return nil, errors.Wrap(err, "height map")
	}
	if err := a.world.BuildInitialBlocks(); err != nil {
		return nil, errors.Wrap(err, "initial blocks")
	}

	a.sphere = a.graph.New(scene.Nil, scene.ShapeSphere,
		scene.Material{Texture: scene.TextureColor, Color: scene.ColorWhite}, scene.WithName("sphere"))
	a.graph.Translate(a.sphere, SpherePosition[0], SpherePosition[1], SpherePosition[2])

	a.animal = animation.BuildAnimal(a.graph, mgl32.Vec3(cfg.Animation.AnimalPos))
	a.scheduler = animation.NewScheduler()

	a.camera = camera.New(camera.Options{
		Eye:    mgl32.Vec3(cfg.Camera.Eye),
		LookAt: mgl32.Vec3(cfg.Camera.LookAt),
		Up:     mgl32.Vec3(cfg.Camera.Up),
		FOV:    cfg.Camera.FOV,
	})
	a.camera.SetAspect(cfg.Window.Width, cfg.Window.Height)

	if addr := cfg.Metrics.GetMetricsAddr(); addr != "" {
		a.exporter = metrics.NewExporter(a, a.session)
		a.exporter.StartHTTP(addr)
	}

	a.publish(0)
	a.log.Info("🚀 Сцена готова: сессия %s, блоков %d, узлов %d", a.session, a.world.BlockCount(), a.graph.Len())
	return a, nil
}

// Close останавливает экспорт метрик
func (a *App) Close(ctx context.Context) error {
	if a.exporter == nil {
		return nil
	}
	return a.exporter.Stop(ctx)
}

func (a *App) Session() string { return a.session }
func (a *App) Graph() *scene.Graph { return a.graph }
func (a *App) World() *world.World { return a.world }
func (a *App) Camera() *camera.FlyCamera { return a.camera }
func (a *App) Animal() *animation.Animal { return a.animal }
func (a *App) Scheduler() *animation.Scheduler { return a.scheduler }
func (a *App) Input() *input.Controller { return a.input }
func (a *App) Renderer() *render.Renderer { return a.renderer }
func (a *App) Sphere() scene.Handle { return a.sphere }

// Tick применяет накопленный ввод и продвигает анимации к моменту now
func (a *App) Tick(now time.Time) {
	frame := a.input.Drain()

	if frame.Resized {
		a.camera.SetAspect(frame.Width, frame.Height)
	}

	a.applyMovement(&frame)
	a.applyLook(frame.LookDX, frame.LookDY)
	a.applyEdits(frame.Edits)

	t := now.Sub(a.start).Seconds()
	for i := 0; i < frame.Pokes; i++ {
		a.scheduler.Schedule(a.animal, animation.NewJump(a.cfg.Animation.JumpHeight, a.cfg.Animation.JumpDuration), t)
	}
	if a.cfg.Animation.Enabled {
		a.animal.Update(t)
	}
	a.scheduler.Update(a.animal, t)

	if !a.lastTick.IsZero() {
		if dt := now.Sub(a.lastTick).Seconds(); dt > 0 {
			cur := 1 / dt
			if a.fps == 0 {
				a.fps = cur
			} else {
				a.fps = 0.9*a.fps + 0.1*cur
			}
		}
	}
	a.lastTick = now
	a.frames++
	a.publish(a.renderer.Stats().DrawCalls)
}

func (a *App) applyMovement(f *input.Frame) {
	move := a.cfg.Camera.MoveSpeed
	pan := a.cfg.Camera.PanSpeed
	c := a.camera

	for _, act := range input.Actions() {
		if !f.Holding(act) {
			continue
		}
		switch act {
		case input.Forward:
			c.MoveForward(move)
		case input.Backward:
			c.MoveBackward(move)
		case input.Left:
			c.MoveLeft(move)
		case input.Right:
			c.MoveRight(move)
		case input.Up:
			c.MoveUp(move)
		case input.Down:
			c.MoveDown(move)
		case input.PanLeft:
			c.PanLeft(pan)
		case input.PanRight:
			c.PanRight(pan)
		case input.PanUp:
			c.PanUp(pan)
		case input.PanDown:
			c.PanDown(pan)
		}
	}
}

func (a *App) applyLook(dx, dy float64) {
	yaw, pitch := a.settings.Look(dx, dy)
	switch {
	case yaw > 0:
		a.camera.PanRight(float32(yaw))
	case yaw < 0:
		a.camera.PanLeft(float32(-yaw))
	}
	switch {
	case pitch > 0:
		a.camera.PanDown(float32(pitch))
	case pitch < 0:
		a.camera.PanUp(float32(-pitch))
	}
}

// applyEdits применяет клики по порядку: последняя правка ячейки побеждает
func (a *App) applyEdits(edits []input.Edit) {
	for _, e := range edits {
		cell := a.world.TargetCell(a.camera.LookAt())
		switch e.Kind {
		case input.EditAdd:
			if a.world.AddBlock(cell.X, cell.Y, cell.Z) {
				a.added++
			}
		case input.EditRemove:
			if a.world.RemoveBlock(cell.X, cell.Y, cell.Z) {
				a.removed++
			}
		}
	}
}

// Render отправляет кадр: мир, сфера, затем части животного
func (a *App) Render() render.FrameStats {
	a.renderer.BeginFrame(a.camera)
	a.world.RenderAll(func(h scene.Handle) {
		a.renderer.Submit(a.graph, h)
	})
	a.renderer.Submit(a.graph, a.sphere)
	for _, h := range a.animal.Parts() {
		a.renderer.Submit(a.graph, h)
	}
	stats := a.renderer.Stats()
	a.publish(stats.DrawCalls)
	return stats
}

// Settings возвращает текущие настройки для обновления интерфейса
func (a *App) Settings() Settings {
	return Settings{
		FOV:         a.camera.FOV(),
		Sensitivity: a.settings.Sensitivity,
		InvertX:     a.settings.InvertX,
		InvertY:     a.settings.InvertY,
	}
}

// SetFOV меняет угол обзора
func (a *App) SetFOV(fov float32) {
	a.camera.SetFOV(fov)
}

// SetSensitivity меняет чувствительность мыши
func (a *App) SetSensitivity(s float64) {
	a.settings.Sensitivity = s
}

// SetInvert включает инверсию осей мыши
func (a *App) SetInvert(x, y bool) {
	a.settings.InvertX = x
	a.settings.InvertY = y
}

// FPS возвращает сглаженную частоту тиков
func (a *App) FPS() float64 {
	return a.fps
}

func (a *App) publish(drawCalls int) {
	s := metrics.Stats{
		Frames:    a.frames,
		Added:     a.added,
		Removed:   a.removed,
		Blocks:    a.world.BlockCount(),
		Nodes:     a.graph.Len(),
		DrawCalls: drawCalls,
		FPS:       a.fps,
	}
	a.mu.Lock()
	a.snapshot = s
	a.mu.Unlock()
}

// MetricsStats реализует metrics.StatsProvider; безопасен из любой горутины
func (a *App) MetricsStats() metrics.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}
