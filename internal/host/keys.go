package host

import (
	"github.com/annel0/blocky-world/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyNames переводит клавиши ebiten в имена раскладки input
var keyNames = map[ebiten.Key]input.Key{
	ebiten.KeyW:          "W",
	ebiten.KeyA:          "A",
	ebiten.KeyS:          "S",
	ebiten.KeyD:          "D",
	ebiten.KeyQ:          "Q",
	ebiten.KeyE:          "E",
	ebiten.KeyZ:          "Z",
	ebiten.KeyX:          "X",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",
	ebiten.KeySpace:      "Space",
	ebiten.KeyShiftLeft:  "ShiftLeft",
	ebiten.KeyShiftRight: "ShiftRight",
}

// Клавиши панели настроек
const (
	keyPoke        = ebiten.KeyP
	keyRelease     = ebiten.KeyEscape
	keyFOVDown     = ebiten.KeyMinus
	keyFOVUp       = ebiten.KeyEqual
	keySensDown    = ebiten.KeyBracketLeft
	keySensUp      = ebiten.KeyBracketRight
	keyInvertX     = ebiten.KeyF1
	keyInvertY     = ebiten.KeyF2
	keyToggleStats = ebiten.KeyF3
)

const (
	fovStep  = 5
	minFOV   = 10
	maxFOV   = 150
	sensStep = 0.05
	minSens  = 0.05
	maxSens  = 2
)

// KeyName имя клавиши для раскладки; ok == false для неотслеживаемых
func KeyName(k ebiten.Key) (input.Key, bool) {
	name, ok := keyNames[k]
	return name, ok
}

func clampFOV(fov float32) float32 {
	return min(max(fov, minFOV), maxFOV)
}

func clampSensitivity(s float64) float64 {
	return min(max(s, minSens), maxSens)
}
