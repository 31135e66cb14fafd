package main

import (
	"flag"
	"log"

	"github.com/annel0/blocky-world/internal/app"
	"github.com/annel0/blocky-world/internal/config"
	"github.com/annel0/blocky-world/internal/host"
	"github.com/annel0/blocky-world/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default: $BLOCKY_CONFIG or built-in defaults)")
	session := flag.String("session", "", "session id for logs and metrics (default: random UUID)")
	flag.Parse()

	if err := logging.InitDefaultLogger("blockyworld"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		return
	}
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	logging.Info("🎮 Запуск Blocky World: мир %dx%dx%d, генератор %s",
		cfg.World.SizeX, cfg.World.SizeY, cfg.World.SizeZ, cfg.World.Jitter)

	if err := host.Run(cfg, app.Options{Session: *session}); err != nil {
		logging.Error("❌ Приложение остановлено с ошибкой: %v", err)
		return
	}
	logging.Info("👋 Окно закрыто")
}
