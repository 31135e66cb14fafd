package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сцены.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Camera    CameraConfig    `yaml:"camera"`
	Input     InputConfig     `yaml:"input"`
	Window    WindowConfig    `yaml:"window"`
	// Textures пути или http(s) адреса картинок; i-я попадает в текстурный
	// блок i (0: небо, 1: блоки). Пусто: всё рисуется цветом материала.
	Textures  []string        `yaml:"textures"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Animation AnimationConfig `yaml:"animation"`
	LogLevel  string          `yaml:"log_level"`
}

// WorldConfig параметры сетки и генератора карты высот
type WorldConfig struct {
	SizeX        int    `yaml:"size_x"`
	SizeY        int    `yaml:"size_y"`
	SizeZ        int    `yaml:"size_z"`
	MinY         int    `yaml:"min_y"`
	BaseDepth    int    `yaml:"base_depth"`
	MaxDepth     int    `yaml:"max_depth"`
	ShallowDepth int    `yaml:"shallow_depth"`
	RandomFactor int    `yaml:"random_factor"`
	Jitter       string `yaml:"jitter"` // "random" или "perlin"
	Seed         int64  `yaml:"seed"`   // 0: случайный сид
}

// CameraConfig начальное состояние камеры и скорости движения
type CameraConfig struct {
	FOV       float32    `yaml:"fov"`
	Eye       [3]float32 `yaml:"eye"`
	LookAt    [3]float32 `yaml:"look_at"`
	Up        [3]float32 `yaml:"up"`
	MoveSpeed float32    `yaml:"move_speed"`
	PanSpeed  float32    `yaml:"pan_speed"`
}

// InputConfig настройки мыши
type InputConfig struct {
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	InvertX          bool    `yaml:"invert_x"`
	InvertY          bool    `yaml:"invert_y"`
}

// WindowConfig параметры окна хоста
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// MetricsConfig адрес Prometheus эндпоинта (пусто: выключено)
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// AnimationConfig управляет анимацией животного
type AnimationConfig struct {
	Enabled      bool       `yaml:"enabled"`
	AnimalPos    [3]float32 `yaml:"animal_pos"`
	JumpHeight   float32    `yaml:"jump_height"`
	JumpDuration float64    `yaml:"jump_duration_seconds"`
}

// Default возвращает конфигурацию, повторяющую исходную сцену
func Default() *Config {
	return &Config{
		World: WorldConfig{
			SizeX:        32,
			SizeY:        15,
			SizeZ:        32,
			MinY:         -1,
			BaseDepth:    2,
			MaxDepth:     5,
			ShallowDepth: 1,
			RandomFactor: 2,
			Jitter:       "random",
		},
		Camera: CameraConfig{
			FOV:       60,
			Eye:       [3]float32{8, 5, 8},
			LookAt:    [3]float32{5, 5, 5},
			Up:        [3]float32{0, 1, 0},
			MoveSpeed: 0.15,
			PanSpeed:  2.5,
		},
		Input: InputConfig{
			MouseSensitivity: 0.25,
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "Blocky World",
			TPS:    60,
		},
		Animation: AnimationConfig{
			Enabled:      true,
			AnimalPos:    [3]float32{7, 1.5, -10},
			JumpHeight:   1,
			JumpDuration: 1.5,
		},
		LogLevel: "info",
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV BLOCKY_CONFIG; если и его нет — возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BLOCKY_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ErrInvalidWorld возвращается для невозможных параметров генератора
var ErrInvalidWorld = errors.New("invalid world config")

// Validate проверяет параметры мира. Камера и ввод не валидируются.
func (c *Config) Validate() error {
	w := c.World
	switch {
	case w.SizeX <= 0 || w.SizeY <= 0 || w.SizeZ <= 0:
		return fmt.Errorf("%w: size must be positive, got %dx%dx%d", ErrInvalidWorld, w.SizeX, w.SizeY, w.SizeZ)
	case w.ShallowDepth < 0:
		return fmt.Errorf("%w: shallow_depth %d < 0", ErrInvalidWorld, w.ShallowDepth)
	case w.ShallowDepth > w.MaxDepth:
		return fmt.Errorf("%w: shallow_depth %d > max_depth %d", ErrInvalidWorld, w.ShallowDepth, w.MaxDepth)
	case w.MaxDepth > w.SizeY:
		return fmt.Errorf("%w: max_depth %d > size_y %d", ErrInvalidWorld, w.MaxDepth, w.SizeY)
	case w.RandomFactor < 1:
		return fmt.Errorf("%w: random_factor %d < 1", ErrInvalidWorld, w.RandomFactor)
	case w.Jitter != "" && w.Jitter != "random" && w.Jitter != "perlin":
		return fmt.Errorf("%w: unknown jitter %q", ErrInvalidWorld, w.Jitter)
	}
	return nil
}

// GetMetricsAddr возвращает адрес метрик с приоритетом: config -> env -> выключено
func (m *MetricsConfig) GetMetricsAddr() string {
	if m.Addr != "" {
		return m.Addr
	}
	return os.Getenv("BLOCKY_METRICS_ADDR")
}
