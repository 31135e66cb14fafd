package input

// DefaultSensitivity градусов поворота на пиксель смещения мыши
const DefaultSensitivity = 0.25

// Settings настройки мыши
type Settings struct {
	Sensitivity float64
	InvertX     bool
	InvertY     bool
}

// DefaultSettings возвращает чувствительность по умолчанию без инверсии
func DefaultSettings() Settings {
	return Settings{Sensitivity: DefaultSensitivity}
}

// Look переводит смещение мыши в углы поворота: yaw > 0 — вправо,
// pitch > 0 — вниз. Инверсия меняет знак по оси.
func (s Settings) Look(dx, dy float64) (yaw, pitch float64) {
	yaw = dx * s.Sensitivity
	pitch = dy * s.Sensitivity
	if s.InvertX {
		yaw = -yaw
	}
	if s.InvertY {
		pitch = -pitch
	}
	return yaw, pitch
}
