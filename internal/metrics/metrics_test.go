package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveTick("held")
	m.ObserveTick("held")
	m.ObserveTick("advanced")
	m.FrameAdvanced()
	m.SetState(2)

	if v := testutil.ToFloat64(m.ticks.WithLabelValues("held")); v != 2 {
		t.Errorf("held ticks = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.frames); v != 1 {
		t.Errorf("frames = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.state); v != 2 {
		t.Errorf("state = %v, want 2", v)
	}
}

func TestStageHistogram(t *testing.T) {
	m := New()
	m.ObserveStage(StageEncode, 3*time.Millisecond)
	m.ObserveStage(StageEncode, 5*time.Millisecond)
	if n := testutil.CollectAndCount(m.stages); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveTick("held")
	m.ObserveStage(StageDecode, time.Millisecond)
	m.FrameAdvanced()
	m.SetState(1)
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile on nil: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.FrameAdvanced()
	path := filepath.Join(t.TempDir(), "framepace.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "framepace_pipeline_frames_advanced_total 1") {
		t.Errorf("textfile missing frame counter:\n%s", data)
	}
}
