// Package input собирает события клавиатуры и мыши между тиками и отдаёт
// их снимком в начале следующего тика.
package input

import (
	"sync"
)

// Action действие камеры
type Action uint8

const (
	Forward Action = iota
	Backward
	Left
	Right
	Up
	Down
	PanLeft
	PanRight
	PanUp
	PanDown

	actionCount
)

var actionNames = [actionCount]string{
	"forward", "backward", "left", "right", "up", "down",
	"panLeft", "panRight", "panUp", "panDown",
}

// String возвращает имя действия
func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// Actions возвращает все действия в порядке применения
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// Key платформенно-независимое имя клавиши
type Key string

// DefaultKeyMap раскладка WASD/стрелки
func DefaultKeyMap() map[Key]Action {
	return map[Key]Action{
		"W": Forward, "ArrowUp": Forward,
		"S": Backward, "ArrowDown": Backward,
		"A": Left, "ArrowLeft": Left,
		"D": Right, "ArrowRight": Right,
		"Space":     Up,
		"ShiftLeft": Down, "ShiftRight": Down,
		"Q": PanLeft,
		"E": PanRight,
		"Z": PanUp,
		"X": PanDown,
	}
}

// EditKind тип правки мира
type EditKind uint8

const (
	EditAdd EditKind = iota
	EditRemove
)

// Edit правка мира по клику; ячейка вычисляется в тике от текущей камеры
type Edit struct {
	Kind EditKind
}

// Frame снимок ввода для одного тика
type Frame struct {
	Held    [actionCount]bool
	LookDX  float64
	LookDY  float64
	Edits   []Edit
	Pokes   int
	Resized bool
	Width   int
	Height  int
}

// Holding сообщает, удерживается ли действие
func (f *Frame) Holding(a Action) bool {
	return a < actionCount && f.Held[a]
}

// Controller накапливает события. Методы безопасны для вызова из
// обработчиков событий хоста параллельно с Drain.
type Controller struct {
	mu     sync.Mutex
	keyMap map[Key]Action

	// pressed нажатые клавиши; held число нажатых клавиш каждого действия
	pressed map[Key]bool
	held    [actionCount]int

	dx, dy float64
	edits  []Edit
	pokes  int

	resized       bool
	width, height int
}

// NewController создаёт контроллер; при nil keyMap берётся DefaultKeyMap
func NewController(keyMap map[Key]Action) *Controller {
	if keyMap == nil {
		keyMap = DefaultKeyMap()
	}
	return &Controller{keyMap: keyMap, pressed: make(map[Key]bool)}
}

// KeyDown отмечает клавишу нажатой. Возвращает false для неизвестных клавиш.
func (c *Controller) KeyDown(k Key) bool {
	return c.setKey(k, true)
}

// KeyUp отпускает клавишу
func (c *Controller) KeyUp(k Key) bool {
	return c.setKey(k, false)
}

func (c *Controller) setKey(k Key, down bool) bool {
	a, ok := c.keyMap[k]
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// повтор нажатия или отпускание ненажатой клавиши ничего не меняют
	if c.pressed[k] == down {
		return true
	}
	if down {
		c.pressed[k] = true
		c.held[a]++
	} else {
		delete(c.pressed, k)
		c.held[a]--
	}
	return true
}

// PointerMove добавляет смещение мыши
func (c *Controller) PointerMove(dx, dy float64) {
	c.mu.Lock()
	c.dx += dx
	c.dy += dy
	c.mu.Unlock()
}

// Click ставит правку мира в очередь
func (c *Controller) Click(kind EditKind) {
	c.mu.Lock()
	c.edits = append(c.edits, Edit{Kind: kind})
	c.mu.Unlock()
}

// Poke запрашивает прыжок животного
func (c *Controller) Poke() {
	c.mu.Lock()
	c.pokes++
	c.mu.Unlock()
}

// Resize сообщает новый размер холста; в кадр попадает последний
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	c.resized = true
	c.width, c.height = width, height
	c.mu.Unlock()
}

func (c *Controller) heldActions() [actionCount]bool {
	var out [actionCount]bool
	for a, n := range c.held {
		out[a] = n > 0
	}
	return out
}

// Drain возвращает накопленный ввод и сбрасывает одноразовые события.
// Удержание клавиш сохраняется до KeyUp.
func (c *Controller) Drain() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := Frame{
		Held:    c.heldActions(),
		LookDX:  c.dx,
		LookDY:  c.dy,
		Edits:   c.edits,
		Pokes:   c.pokes,
		Resized: c.resized,
		Width:   c.width,
		Height:  c.height,
	}
	c.dx, c.dy = 0, 0
	c.edits = nil
	c.pokes = 0
	c.resized = false
	return f
}
