package animation

import (
	"github.com/annel0/blocky-world/internal/logging"
	"github.com/chewxy/math32"
)

// Clip ограниченная по времени анимация.
// Update возвращает false, когда клип закончился.
type Clip interface {
	Name() string
	Enter(a *Animal, now float64)
	Update(a *Animal, now float64) bool
	Exit(a *Animal)
}

// Scheduler прогоняет активные клипы каждый тик и снимает закончившиеся
type Scheduler struct {
	active []Clip
	log    *logging.Logger
}

// NewScheduler создаёт пустой планировщик
func NewScheduler() *Scheduler {
	return &Scheduler{log: logging.GetComponentLogger("animation")}
}

// Schedule запускает клип. Клип с тем же именем перезапускается.
func (s *Scheduler) Schedule(a *Animal, c Clip, now float64) {
	for i, cur := range s.active {
		if cur.Name() == c.Name() {
			cur.Exit(a)
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	c.Enter(a, now)
	s.active = append(s.active, c)
	s.log.Debug("▶️ Анимация %s запущена", c.Name())
}

// Update продвигает клипы к моменту now
func (s *Scheduler) Update(a *Animal, now float64) {
	live := s.active[:0]
	for _, c := range s.active {
		if c.Update(a, now) {
			live = append(live, c)
			continue
		}
		c.Exit(a)
		s.log.Debug("⏹️ Анимация %s завершена", c.Name())
	}
	for i := len(live); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = live
}

// Len возвращает число активных клипов
func (s *Scheduler) Len() int {
	return len(s.active)
}

// Active сообщает, выполняется ли клип с именем name
func (s *Scheduler) Active(name string) bool {
	for _, c := range s.active {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// Jump подбрасывает тело по полуволне синуса
type Jump struct {
	Height   float32
	Duration float64 // секунды

	start float64
}

// NewJump создаёт прыжок
func NewJump(height float32, duration float64) *Jump {
	return &Jump{Height: height, Duration: duration}
}

func (j *Jump) Name() string { return "jump" }

func (j *Jump) Enter(a *Animal, now float64) {
	j.start = now
	a.SetLift(0)
}

func (j *Jump) Update(a *Animal, now float64) bool {
	if j.Duration <= 0 {
		return false
	}
	p := (now - j.start) / j.Duration
	if p > 1 {
		return false
	}
	if p < 0 {
		p = 0
	}
	a.SetLift(j.Height * math32.Sin(math32.Pi*float32(p)))
	return true
}

// Exit возвращает тело в исходную позицию
func (j *Jump) Exit(a *Animal) {
	a.SetLift(0)
}
