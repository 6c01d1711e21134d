package machine

import (
	"fmt"
	"math"

	"github.com/ultrasonic59/rpt2pnp/pkg/board"
	"github.com/ultrasonic59/rpt2pnp/pkg/config"
	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
	"github.com/ultrasonic59/rpt2pnp/pkg/gcode"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/log"
	"github.com/ultrasonic59/rpt2pnp/pkg/metrics"
	"github.com/ultrasonic59/rpt2pnp/pkg/tape"
)

// GCode encodes operations as controller commands into an injected
// sink. It holds no output state itself; the sink owns ordering.
type GCode struct {
	sink  gcode.Sink
	cfg   *config.MachineConfig
	state State
	log   *log.Logger
}

// NewGCode creates a G-code encoder writing to the given sink.
func NewGCode(sink gcode.Sink) *GCode {
	return &GCode{
		sink: sink,
		log:  log.GetLogger("gcode"),
	}
}

// State returns the current lifecycle state.
func (m *GCode) State() State {
	return m.state
}

// emit sends commands to the sink in order, stopping at the first
// write failure.
func (m *GCode) emit(cmds ...gcode.Command) error {
	for _, c := range cmds {
		if err := m.sink.Emit(c); err != nil {
			return errors.EmitError(err)
		}
	}
	return nil
}

// Init implements Machine. It computes the motion-envelope clearance
// from the board top and the highest tape and emits the setup block.
// A nil configuration is fatal: the run must abort, nothing is emitted.
func (m *GCode) Init(cfg *config.MachineConfig, comment string, dim geom.Dim) error {
	if m.state != Uninitialized {
		return errors.MachineStateError("Init", m.state.String())
	}
	if cfg == nil {
		return errors.ConfigMissingError("gcode")
	}
	m.cfg = cfg
	_ = dim // only preview renderers need the board dimension

	m.log.Info("Board-thickness = %.1fmm", cfg.Board.Thickness())

	clearance := cfg.Board.Top
	for _, t := range cfg.Tapes {
		clearance = math.Max(clearance, t.Height())
	}
	clearance += cfg.Cal.ClearanceMargin

	err := m.emit(
		gcode.Command{Kind: gcode.KindComment, Text: comment},
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{Kind: gcode.KindHomeXY},
		gcode.Command{Kind: gcode.KindHomeZ},
		gcode.Command{Kind: gcode.KindUnitsMM},
		gcode.Command{Kind: gcode.KindSelectRotaryTool},
		gcode.Command{Kind: gcode.KindColdExtrudeOverride},
		gcode.Command{Kind: gcode.KindAbsoluteMode},
		gcode.Command{Kind: gcode.KindZeroRotation},
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{Kind: gcode.KindClearanceMove, Z: clearance},
	)
	if err != nil {
		return err
	}
	m.state = Initialized
	return nil
}

// travelHeight is the Z clearance used while carrying a component
// between tape and board. Always at or above every descend height of
// the pick and place blocks.
func (m *GCode) travelHeight(t *tape.Tape) float64 {
	return t.Height() + m.cfg.Board.Thickness() + m.cfg.Cal.ZHover
}

// PickPart implements Machine. Exactly one tape cursor advance happens
// per successful call; an exhausted tape skips the operation without
// affecting the rest of the stream.
func (m *GCode) PickPart(part *board.Part, t *tape.Tape) error {
	if m.state != Initialized {
		return errors.MachineStateError("PickPart", m.state.String())
	}
	if t == nil {
		return nil
	}
	pos, err := t.NextPos()
	if err != nil {
		m.log.Warn("We are out of components for %s %s", part.Footprint, part.Value)
		picksSkipped.Inc(metrics.Labels{"key": part.Key()})
		return nil
	}

	cal := m.cfg.Cal
	pickupAngle := geom.NormalizeDeg(t.Angle()) * cal.AngleFactor

	err = m.emit(
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{Kind: gcode.KindBlockHeader, Text: "Pick " + part.PrintName()},
		gcode.Command{
			Kind: gcode.KindPickMove,
			Feed: int(60 * cal.TapeSpeed),
			X:    pos.X,
			Y:    pos.Y,
			Z:    t.Height() + cal.ZHover,
			A:    pickupAngle,
		},
		gcode.Command{Kind: gcode.KindPickDescend, Z: t.Height()},
		gcode.Command{Kind: gcode.KindPickFlush},
		gcode.Command{Kind: gcode.KindVacuumOn},
		gcode.Command{Kind: gcode.KindPickAscend, Z: m.travelHeight(t)},
	)
	if err != nil {
		return err
	}
	opsEncoded.Inc(metrics.Labels{"op": "pick"})
	return nil
}

// PlacePart implements Machine. The emitted rotation is the delta
// between the part's target angle and the reel angle the component was
// picked up with, normalized into [0,360) before scaling.
func (m *GCode) PlacePart(part *board.Part, t *tape.Tape) error {
	if m.state != Initialized {
		return errors.MachineStateError("PlacePart", m.state.String())
	}
	if t == nil {
		return nil
	}

	cal := m.cfg.Cal
	target := part.Pos.Add(m.cfg.Board.Origin)
	placeAngle := geom.NormalizeDeg(part.Angle-t.Angle()) * cal.AngleFactor
	travel := m.travelHeight(t)

	err := m.emit(
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{Kind: gcode.KindBlockHeader, Text: "Place " + part.PrintName()},
		gcode.Command{
			Kind: gcode.KindPlaceMove,
			Feed: int(60 * cal.BoardSpeed),
			X:    target.X,
			Y:    target.Y,
			Z:    travel,
			A:    placeAngle,
		},
		gcode.Command{
			Kind: gcode.KindPlaceDescend,
			Z:    t.Height() + m.cfg.Board.Thickness() - cal.TapeThick,
		},
		gcode.Command{Kind: gcode.KindPlaceFlush},
		gcode.Command{Kind: gcode.KindVacuumOff},
		gcode.Command{Kind: gcode.KindPlaceFlush},
		gcode.Command{Kind: gcode.KindBlowOn},
		gcode.Command{Kind: gcode.KindReleaseDwell, Ms: cal.ReleaseMs},
		gcode.Command{Kind: gcode.KindBlowOff},
		gcode.Command{Kind: gcode.KindPlaceAscend, Z: travel},
	)
	if err != nil {
		return err
	}
	opsEncoded.Inc(metrics.Labels{"op": "place"})
	return nil
}

// Dispense implements Machine. The pad offset is rotated from the
// part-local frame by the part angle, then translated into the global
// frame; the dwell is linear in pad area.
func (m *GCode) Dispense(part *board.Part, pad *board.Pad) error {
	if m.state != Initialized {
		return errors.MachineStateError("Dispense", m.state.String())
	}

	cal := m.cfg.Cal
	target := m.cfg.Board.Origin.Add(part.Pos).Add(geom.RotateDeg(pad.Pos, part.Angle))
	area := pad.Size.Area()
	dwell := m.cfg.Dispense.InitMs + area*m.cfg.Dispense.AreaMs

	err := m.emit(
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{
			Kind: gcode.KindBlockHeader,
			Text: fmt.Sprintf("component %s, pad %s", part.Name, pad.Name),
		},
		gcode.Command{
			Kind: gcode.KindDispenseMove,
			X:    target.X,
			Y:    target.Y,
			Z:    m.cfg.Board.Top + cal.ZHoverAbove,
		},
		gcode.Command{Kind: gcode.KindDispenseDescend, Z: m.cfg.Board.Top + cal.ZDispenseAbove},
		gcode.Command{Kind: gcode.KindDispenserOn},
		gcode.Command{Kind: gcode.KindDispenseDwell, Ms: dwell, Area: area},
		gcode.Command{Kind: gcode.KindDispenserOff},
		gcode.Command{Kind: gcode.KindDispenseAscend, Z: m.cfg.Board.Top + cal.ZSeparateAbove},
	)
	if err != nil {
		return err
	}
	opsEncoded.Inc(metrics.Labels{"op": "dispense"})
	return nil
}

// Finish implements Machine. Homes X/Y only (Z stays clear of the
// board) and disables the motors.
func (m *GCode) Finish() error {
	if m.state != Initialized {
		return errors.MachineStateError("Finish", m.state.String())
	}
	err := m.emit(
		gcode.Command{Kind: gcode.KindBlank},
		gcode.Command{Kind: gcode.KindFinishHomeXY},
		gcode.Command{Kind: gcode.KindMotorsOff},
	)
	if err != nil {
		return err
	}
	m.state = Finished
	return nil
}
