// Package machine contains the toolpath encoders. A Machine turns
// per-operation inputs (part, tape, pad) into an ordered output stream:
// the GCode machine emits the controller command dialect, the
// PostScript machine renders a visual preview of the same run.
package machine

import (
	"github.com/ultrasonic59/rpt2pnp/pkg/board"
	"github.com/ultrasonic59/rpt2pnp/pkg/config"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/metrics"
	"github.com/ultrasonic59/rpt2pnp/pkg/tape"
)

// Machine encodes pick-and-place operations into an output stream.
// Calls are strictly sequential; output order is execution order.
type Machine interface {
	// Init stores the machine configuration and emits the one-time
	// setup block. Must be called exactly once, before any operation.
	// dim is the board dimension, currently only used by preview
	// renderers.
	Init(cfg *config.MachineConfig, comment string, dim geom.Dim) error

	// PickPart encodes picking the part from its tape. A nil tape means
	// no reel is assigned to this footprint/value; the operation is
	// silently skipped. An exhausted tape is diagnosed and skipped.
	PickPart(part *board.Part, t *tape.Tape) error

	// PlacePart encodes placing the held part at its board target.
	// A nil tape is a no-op, symmetric with PickPart.
	PlacePart(part *board.Part, t *tape.Tape) error

	// Dispense encodes depositing paste on one pad of the part.
	Dispense(part *board.Part, pad *board.Pad) error

	// Finish emits the one-time shutdown block. No further calls are
	// meaningful afterwards.
	Finish() error
}

// State tracks the encoder lifecycle.
type State int

const (
	// Uninitialized is the state before a successful Init.
	Uninitialized State = iota

	// Initialized allows any count and order of pick/place/dispense.
	Initialized

	// Finished is terminal.
	Finished
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

var (
	opsEncoded = metrics.NewCounter("rpt2pnp_operations_total",
		"Command blocks encoded, by operation")
	picksSkipped = metrics.NewCounter("rpt2pnp_picks_skipped_total",
		"Pick operations skipped because the tape was exhausted")
)

func init() {
	metrics.Default.MustRegister(opsEncoded, picksSkipped)
}
