// Package host запускает приложение в окне ebiten: опрашивает клавиатуру
// и мышь, продвигает сцену и растеризует кадр.
package host

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/annel0/blocky-world/internal/app"
	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/input"
	"github.com/annel0/blocky-world/internal/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
)

var skyColor = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}

// Game реализует ebiten.Game
type Game struct {
	app     *app.App
	backend *Backend
	ctrl    *input.Controller
	log     *logging.Logger
	now     func() time.Time

	captured  bool
	cursorX   int
	cursorY   int
	width     int
	height    int
	showStats bool
}

// NewGame собирает сцену поверх бэкенда ebiten
func NewGame(cfg *config.Config, opts app.Options) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Controller == nil {
		opts.Controller = input.NewController(nil)
	}

	backend := NewBackend(cfg.Window.Width, cfg.Window.Height, NewTextureLoader(nil))
	a, err := app.Setup(cfg, backend, opts)
	if err != nil {
		return nil, errors.Wrap(err, "setup")
	}

	return &Game{
		app:       a,
		backend:   backend,
		ctrl:      opts.Controller,
		log:       logging.GetHostLogger(),
		now:       time.Now,
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
		showStats: true,
	}, nil
}

// App возвращает приложение
func (g *Game) App() *app.App {
	return g.app
}

// Update опрашивает ввод и продвигает сцену на один тик
func (g *Game) Update() error {
	g.pollKeys()
	g.pollMouse()
	g.pollSettings()
	g.app.Tick(g.now())
	return nil
}

func (g *Game) pollKeys() {
	for k, name := range keyNames {
		if inpututil.IsKeyJustPressed(k) {
			g.ctrl.KeyDown(name)
		}
		if inpututil.IsKeyJustReleased(k) {
			g.ctrl.KeyUp(name)
		}
	}
	if inpututil.IsKeyJustPressed(keyPoke) {
		g.ctrl.Poke()
	}
}

func (g *Game) pollMouse() {
	x, y := ebiten.CursorPosition()
	defer func() { g.cursorX, g.cursorY = x, y }()

	if inpututil.IsKeyJustPressed(keyRelease) && g.captured {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		g.captured = false
		return
	}

	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	if !g.captured {
		// первый клик только захватывает курсор
		if left || right {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			g.captured = true
		}
		return
	}

	if dx, dy := x-g.cursorX, y-g.cursorY; dx != 0 || dy != 0 {
		g.ctrl.PointerMove(float64(dx), float64(dy))
	}
	if right {
		g.ctrl.Click(input.EditAdd)
	}
	if left {
		g.ctrl.Click(input.EditRemove)
	}
}

func (g *Game) pollSettings() {
	s := g.app.Settings()
	switch {
	case inpututil.IsKeyJustPressed(keyFOVDown):
		g.app.SetFOV(clampFOV(s.FOV - fovStep))
	case inpututil.IsKeyJustPressed(keyFOVUp):
		g.app.SetFOV(clampFOV(s.FOV + fovStep))
	case inpututil.IsKeyJustPressed(keySensDown):
		g.app.SetSensitivity(clampSensitivity(s.Sensitivity - sensStep))
	case inpututil.IsKeyJustPressed(keySensUp):
		g.app.SetSensitivity(clampSensitivity(s.Sensitivity + sensStep))
	case inpututil.IsKeyJustPressed(keyInvertX):
		g.app.SetInvert(!s.InvertX, s.InvertY)
	case inpututil.IsKeyJustPressed(keyInvertY):
		g.app.SetInvert(s.InvertX, !s.InvertY)
	case inpututil.IsKeyJustPressed(keyToggleStats):
		g.showStats = !g.showStats
	}
}

// Draw растеризует кадр и выводит панель настроек
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	stats := g.app.Render()
	g.backend.Flush(screen)

	if !g.showStats {
		return
	}
	status := statusLine(g.app.Settings(), ebiten.ActualFPS(), stats.DrawCalls, g.backend.Triangles(), g.app.World().BlockCount())
	if !g.captured {
		status += "\nclick to capture the mouse, Esc to release"
	}
	ebitenutil.DebugPrint(screen, status)
}

// Layout сообщает о смене размера окна камере и растеризатору
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.backend.Resize(outsideWidth, outsideHeight)
		g.ctrl.Resize(outsideWidth, outsideHeight)
		g.log.Debug("Окно %dx%d", outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close освобождает ресурсы приложения
func (g *Game) Close(ctx context.Context) error {
	return g.app.Close(ctx)
}

func statusLine(s app.Settings, fps float64, draws, tris, blocks int) string {
	return fmt.Sprintf("FOV %.0f [-/=]  sensitivity %.2f [[/]]  invert x:%t y:%t [F1/F2]\nfps %.1f  draws %d  triangles %d  blocks %d",
		s.FOV, s.Sensitivity, s.InvertX, s.InvertY, fps, draws, tris, blocks)
}

// Run открывает окно и блокирует до его закрытия
func Run(cfg *config.Config, opts app.Options) error {
	if cfg == nil {
		cfg = config.Default()
	}
	g, err := NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.Close(ctx); err != nil {
			logging.Warn("Остановка метрик: %v", err)
		}
	}()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	return ebiten.RunGame(g)
}
