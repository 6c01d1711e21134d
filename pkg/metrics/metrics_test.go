package metrics

import (
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	c := NewCounter("ops_total", "Operations by kind")
	c.Inc(Labels{"op": "pick"})
	c.Inc(Labels{"op": "pick"})
	c.Add(Labels{"op": "place"}, 3)

	if got := c.Value(Labels{"op": "pick"}); got != 2 {
		t.Errorf("pick count = %d, want 2", got)
	}
	if got := c.Value(Labels{"op": "place"}); got != 3 {
		t.Errorf("place count = %d, want 3", got)
	}
	if got := c.Value(Labels{"op": "dispense"}); got != 0 {
		t.Errorf("untouched series = %d, want 0", got)
	}
}

func TestCounterWrite(t *testing.T) {
	c := NewCounter("ops_total", "Operations by kind")
	c.Inc(Labels{"op": "pick"})

	var sb strings.Builder
	c.Write(&sb)
	out := sb.String()

	if !strings.Contains(out, "# TYPE ops_total counter") {
		t.Errorf("missing TYPE line in %q", out)
	}
	if !strings.Contains(out, `ops_total{op="pick"} 1`) {
		t.Errorf("missing series line in %q", out)
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge("clearance_mm", "Clearance height")
	g.Set(16.5)
	if g.Value() != 16.5 {
		t.Errorf("gauge = %v, want 16.5", g.Value())
	}

	var sb strings.Builder
	g.Write(&sb)
	if !strings.Contains(sb.String(), "clearance_mm 16.5") {
		t.Errorf("missing gauge line in %q", sb.String())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	c := NewCounter("a_total", "a")
	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(NewCounter("a_total", "dup")); err == nil {
		t.Error("expected duplicate registration error")
	}

	c.Inc(nil)
	out := r.Gather()
	if !strings.Contains(out, "a_total 1") {
		t.Errorf("Gather missing series: %q", out)
	}
}
