package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	stats Stats
}

func (s *stubSource) MetricsStats() Stats { return s.stats }

func TestCollect_AddsDeltas(t *testing.T) {
	src := &stubSource{}
	e := NewExporter(src, "test-session")

	src.stats = Stats{Frames: 10, Added: 3, Blocks: 100, DrawCalls: 102, FPS: 60}
	e.Collect()
	src.stats = Stats{Frames: 25, Added: 3, Removed: 2, Blocks: 98, DrawCalls: 100, FPS: 59.5}
	e.Collect()

	assert.Equal(t, 25.0, testutil.ToFloat64(e.frames))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.edits.WithLabelValues("add")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.edits.WithLabelValues("remove")))
	assert.Equal(t, 98.0, testutil.ToFloat64(e.blocks))
	assert.Equal(t, 59.5, testutil.ToFloat64(e.fps))
}

func TestRegistry_SessionLabel(t *testing.T) {
	e := NewExporter(&stubSource{stats: Stats{Frames: 1}}, "abc")
	e.Collect()

	expected := `
# HELP blockyworld_frames_total Общее число обработанных тиков.
# TYPE blockyworld_frames_total counter
blockyworld_frames_total{session="abc"} 1
`
	require.NoError(t, testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected), "blockyworld_frames_total"))
}

func TestStartStop(t *testing.T) {
	e := NewExporter(&stubSource{}, "s")
	e.interval = 10 * time.Millisecond
	e.StartHTTP("127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(ctx))
	assert.NoError(t, e.Stop(ctx), "повторная остановка")
}
