// Package metrics экспортирует счётчики сцены в Prometheus.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/blocky-world/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stats накопленные показатели приложения
type Stats struct {
	Frames    uint64
	Added     uint64
	Removed   uint64
	Blocks    int
	Nodes     int
	DrawCalls int
	FPS       float64
}

// StatsProvider источник показателей
type StatsProvider interface {
	MetricsStats() Stats
}

// Exporter периодически переносит Stats в метрики и отдаёт их по HTTP.
// Метрики регистрируются в собственном реестре, а не в глобальном.
type Exporter struct {
	src      StatsProvider
	registry *prometheus.Registry
	interval time.Duration

	mu   sync.Mutex
	prev Stats

	frames    prometheus.Counter
	edits     *prometheus.CounterVec
	blocks    prometheus.Gauge
	nodes     prometheus.Gauge
	drawCalls prometheus.Gauge
	fps       prometheus.Gauge

	server *http.Server
	quit   chan struct{}
	done   chan struct{}
}

// NewExporter создаёт экспортер, но не запускает HTTP-сервер.
// session попадает в постоянную метку всех метрик.
func NewExporter(src StatsProvider, session string) *Exporter {
	labels := prometheus.Labels{"session": session}
	e := &Exporter{
		src:      src,
		registry: prometheus.NewRegistry(),
		interval: time.Second,
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "blockyworld",
			Name:        "frames_total",
			Help:        "Общее число обработанных тиков.",
			ConstLabels: labels,
		}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "blockyworld",
			Name:        "block_edits_total",
			Help:        "Применённые правки мира по типу.",
			ConstLabels: labels,
		}, []string{"kind"}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "blockyworld",
			Name:        "blocks",
			Help:        "Количество блоков в мире.",
			ConstLabels: labels,
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "blockyworld",
			Name:        "scene_nodes",
			Help:        "Количество узлов графа сцены.",
			ConstLabels: labels,
		}),
		drawCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "blockyworld",
			Name:        "draw_calls",
			Help:        "Отрисовок в последнем кадре.",
			ConstLabels: labels,
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "blockyworld",
			Name:        "fps",
			Help:        "Кадров в секунду.",
			ConstLabels: labels,
		}),
	}
	e.registry.MustRegister(e.frames, e.edits, e.blocks, e.nodes, e.drawCalls, e.fps)
	return e
}

// Registry возвращает реестр экспортера
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Collect снимает показатели и обновляет метрики.
// Для Counter прибавляется дельта относительно прошлого снимка.
func (e *Exporter) Collect() {
	stats := e.src.MetricsStats()

	e.mu.Lock()
	defer e.mu.Unlock()

	if d := stats.Frames - e.prev.Frames; stats.Frames > e.prev.Frames {
		e.frames.Add(float64(d))
	}
	if d := stats.Added - e.prev.Added; stats.Added > e.prev.Added {
		e.edits.WithLabelValues("add").Add(float64(d))
	}
	if d := stats.Removed - e.prev.Removed; stats.Removed > e.prev.Removed {
		e.edits.WithLabelValues("remove").Add(float64(d))
	}

	e.blocks.Set(float64(stats.Blocks))
	e.nodes.Set(float64(stats.Nodes))
	e.drawCalls.Set(float64(stats.DrawCalls))
	e.fps.Set(stats.FPS)

	e.prev = stats
}

// StartHTTP запускает HTTP-эндпоинт /metrics на addr (например, ":2112").
// Метод неблокирующий: сервер и обновление работают в отдельных горутинах.
func (e *Exporter) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	e.server = srv
	e.quit = make(chan struct{})
	e.done = make(chan struct{})

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	go e.loop()
}

// Stop останавливает обновление и HTTP-сервер
func (e *Exporter) Stop(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	close(e.quit)
	<-e.done
	err := e.server.Shutdown(ctx)
	e.server = nil
	return err
}

func (e *Exporter) loop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	defer close(e.done)

	for {
		select {
		case <-ticker.C:
			e.Collect()
		case <-e.quit:
			return
		}
	}
}
