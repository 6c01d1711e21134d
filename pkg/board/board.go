// Package board holds the component records the encoders consume: parts
// with their board-local target position and rotation, and the solder
// pads attached to them.
package board

import "github.com/ultrasonic59/rpt2pnp/pkg/geom"

// Pad is a solder pad in the part-local frame.
type Pad struct {
	Name string
	Pos  geom.Point // offset from the part center
	Size geom.Dim
}

// Part is a component to be placed. Pos and the bounding box are in the
// board-local frame; Angle is the target rotation in degrees (any range,
// semantically mod 360).
type Part struct {
	Name      string
	Footprint string
	Value     string
	Pos       geom.Point
	Angle     float64
	BBox      geom.Box
	Pads      []Pad
}

// Key returns the tape-registry key for the part. Parts sharing a
// footprint and value are supplied from the same reel.
func (p *Part) Key() string {
	return p.Footprint + "@" + p.Value
}

// PrintName returns the identity used in command-stream annotations.
func (p *Part) PrintName() string {
	return p.Name + " (" + p.Footprint + "@" + p.Value + ")"
}
