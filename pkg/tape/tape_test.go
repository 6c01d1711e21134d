package tape

import (
	"testing"

	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
)

func TestNextPosAdvances(t *testing.T) {
	tp := New(Options{
		Origin:  geom.Point{X: 100, Y: 50},
		Advance: geom.Point{X: 4, Y: 0},
		Height:  5,
		Angle:   90,
		Count:   3,
	})

	want := []geom.Point{{X: 100, Y: 50}, {X: 104, Y: 50}, {X: 108, Y: 50}}
	for i, w := range want {
		got, err := tp.NextPos()
		if err != nil {
			t.Fatalf("NextPos #%d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("NextPos #%d = %v, want %v", i, got, w)
		}
	}
}

func TestNextPosExhausted(t *testing.T) {
	tp := New(Options{Count: 1})

	if _, err := tp.NextPos(); err != nil {
		t.Fatalf("first NextPos failed: %v", err)
	}
	if tp.PartsAvailable() {
		t.Error("PartsAvailable = true after last component")
	}

	_, err := tp.NextPos()
	if err == nil {
		t.Fatal("expected error on exhausted tape")
	}
	if !errors.Is(err, errors.ErrTapeExhausted) {
		t.Errorf("expected TAPE_EXHAUSTED, got %v", err)
	}

	// Repeated queries keep failing, the cursor never rewinds.
	if _, err := tp.NextPos(); err == nil {
		t.Error("expected error on repeated exhausted query")
	}
}

func TestAccessors(t *testing.T) {
	tp := New(Options{Height: 5.5, Angle: 350, Count: 10})
	if tp.Height() != 5.5 {
		t.Errorf("Height = %v, want 5.5", tp.Height())
	}
	if tp.Angle() != 350 {
		t.Errorf("Angle = %v, want 350", tp.Angle())
	}
	if tp.Count() != 10 {
		t.Errorf("Count = %v, want 10", tp.Count())
	}
	if !tp.PartsAvailable() {
		t.Error("PartsAvailable = false on fresh tape")
	}
}
