// Package gcode provides the structured command model for the
// pick-and-place controller dialect. Encoders build Command values with
// named parameters; text rendering happens only at the output boundary
// (see Format and StreamSink), so tests can assert on structured values
// instead of matching strings.
package gcode

// Kind enumerates the command kinds the encoders emit. The downstream
// controller executes commands strictly in emission order.
type Kind int

const (
	// KindComment is a free-text annotation line.
	KindComment Kind = iota

	// KindBlockHeader starts a pick/place/dispense block annotation.
	KindBlockHeader

	// KindBlank is an empty separator line.
	KindBlank

	// Setup block.
	KindHomeXY
	KindHomeZ
	KindUnitsMM
	KindSelectRotaryTool
	KindColdExtrudeOverride
	KindAbsoluteMode
	KindZeroRotation
	KindClearanceMove

	// Pick block.
	KindPickMove
	KindPickDescend
	KindPickFlush
	KindVacuumOn
	KindPickAscend

	// Place block.
	KindPlaceMove
	KindPlaceDescend
	KindPlaceFlush
	KindVacuumOff
	KindBlowOn
	KindReleaseDwell
	KindBlowOff
	KindPlaceAscend

	// Dispense blocks.
	KindDispenseMove
	KindDispenseDescend
	KindDispenserOn
	KindDispenseDwell
	KindDispenserOff
	KindDispenseAscend

	// Shutdown block.
	KindFinishHomeXY
	KindMotorsOff
)

// String returns the kind name for diagnostics and test output.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindBlockHeader:
		return "block-header"
	case KindBlank:
		return "blank"
	case KindHomeXY:
		return "home-xy"
	case KindHomeZ:
		return "home-z"
	case KindUnitsMM:
		return "units-mm"
	case KindSelectRotaryTool:
		return "select-rotary-tool"
	case KindColdExtrudeOverride:
		return "cold-extrude-override"
	case KindAbsoluteMode:
		return "absolute-mode"
	case KindZeroRotation:
		return "zero-rotation"
	case KindClearanceMove:
		return "clearance-move"
	case KindPickMove:
		return "pick-move"
	case KindPickDescend:
		return "pick-descend"
	case KindPickFlush:
		return "pick-flush"
	case KindVacuumOn:
		return "vacuum-on"
	case KindPickAscend:
		return "pick-ascend"
	case KindPlaceMove:
		return "place-move"
	case KindPlaceDescend:
		return "place-descend"
	case KindPlaceFlush:
		return "place-flush"
	case KindVacuumOff:
		return "vacuum-off"
	case KindBlowOn:
		return "blow-on"
	case KindReleaseDwell:
		return "release-dwell"
	case KindBlowOff:
		return "blow-off"
	case KindPlaceAscend:
		return "place-ascend"
	case KindDispenseMove:
		return "dispense-move"
	case KindDispenseDescend:
		return "dispense-descend"
	case KindDispenserOn:
		return "dispenser-on"
	case KindDispenseDwell:
		return "dispense-dwell"
	case KindDispenserOff:
		return "dispenser-off"
	case KindDispenseAscend:
		return "dispense-ascend"
	case KindFinishHomeXY:
		return "finish-home-xy"
	case KindMotorsOff:
		return "motors-off"
	default:
		return "unknown"
	}
}

// Command is one controller command with named parameters. Only the
// fields a kind needs are set; everything else stays zero.
type Command struct {
	Kind Kind

	// Text is the annotation for comment and block-header kinds.
	Text string

	// Feed is the feed rate in mm/min for combined rapid moves.
	Feed int

	// X, Y are target positions in mm (global frame).
	X, Y float64

	// Z is the target height in mm above the machine bed.
	Z float64

	// A is the rotation-axis target in actuator units. On the wire it
	// rides on the repurposed E axis.
	A float64

	// Ms is a dwell duration in milliseconds.
	Ms float64

	// Area is the pad area in mm^2 annotated on dispense dwells.
	Area float64
}
