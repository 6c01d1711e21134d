// Package tape models a component-supply reel. A tape sits at a fixed
// height above the machine bed, holds its components at a fixed reel
// rotation angle, and hands out component positions one at a time
// through a forward-only cursor.
package tape

import (
	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
)

// Tape is a supply reel. The cursor is the only mutable state of the
// whole encoding run; it only ever advances, never rewinds.
type Tape struct {
	origin  geom.Point // first component position, global frame
	advance geom.Point // offset between consecutive components
	height  float64    // top of components above machine bed, mm
	angle   float64    // reel rotation angle, degrees
	count   int        // components loaded on the reel
	cursor  int
}

// Options describes a reel for New.
type Options struct {
	Origin  geom.Point
	Advance geom.Point
	Height  float64
	Angle   float64
	Count   int
}

// New creates a tape with its cursor at the first component.
func New(opt Options) *Tape {
	return &Tape{
		origin:  opt.Origin,
		advance: opt.Advance,
		height:  opt.Height,
		angle:   opt.Angle,
		count:   opt.Count,
	}
}

// NextPos returns the global-frame position of the next component and
// advances the cursor. It fails with a TAPE_EXHAUSTED error once all
// components have been handed out; the cursor is not moved past the end.
func (t *Tape) NextPos() (geom.Point, error) {
	if t.cursor >= t.count {
		return geom.Point{}, errors.TapeExhaustedError()
	}
	pos := geom.Point{
		X: t.origin.X + float64(t.cursor)*t.advance.X,
		Y: t.origin.Y + float64(t.cursor)*t.advance.Y,
	}
	t.cursor++
	return pos, nil
}

// PartsAvailable reports whether the reel still holds components.
func (t *Tape) PartsAvailable() bool {
	return t.cursor < t.count
}

// Height returns the component top height above the machine bed in mm.
func (t *Tape) Height() float64 {
	return t.height
}

// Angle returns the reel rotation angle in degrees.
func (t *Tape) Angle() float64 {
	return t.angle
}

// Count returns the number of components the reel was loaded with.
func (t *Tape) Count() int {
	return t.count
}
