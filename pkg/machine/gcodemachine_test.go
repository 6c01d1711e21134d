package machine

import (
	"strings"
	"testing"

	"github.com/ultrasonic59/rpt2pnp/pkg/board"
	"github.com/ultrasonic59/rpt2pnp/pkg/config"
	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
	"github.com/ultrasonic59/rpt2pnp/pkg/gcode"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/tape"
)

func testTape(height, angle float64, count int) *tape.Tape {
	return tape.New(tape.Options{
		Origin:  geom.Point{X: 10, Y: 20},
		Advance: geom.Point{X: 4},
		Height:  height,
		Angle:   angle,
		Count:   count,
	})
}

func testConfig(tapes map[string]*tape.Tape) *config.MachineConfig {
	return &config.MachineConfig{
		Board: config.BoardConfig{
			Top:      6,
			BedLevel: 5,
			Origin:   geom.Point{X: 100, Y: 50},
		},
		Tapes:    tapes,
		Dispense: config.DispenseTiming{InitMs: 100, AreaMs: 25},
		Cal:      config.DefaultCalibration(),
	}
}

func testPart() *board.Part {
	return &board.Part{
		Name:      "C12",
		Footprint: "0805",
		Value:     "100n",
		Pos:       geom.Point{X: 3, Y: 7},
		Angle:     30,
	}
}

func initialized(t *testing.T, cfg *config.MachineConfig) (*GCode, *gcode.Capture) {
	t.Helper()
	sink := &gcode.Capture{}
	m := NewGCode(sink)
	if err := m.Init(cfg, "test run", geom.Dim{W: 50, H: 40}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sink.Commands = nil // drop the setup block, tests assert per-operation
	return m, sink
}

func kindsEqual(got, want []gcode.Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func findKind(t *testing.T, sink *gcode.Capture, k gcode.Kind) gcode.Command {
	t.Helper()
	for _, c := range sink.Commands {
		if c.Kind == k {
			return c
		}
	}
	t.Fatalf("no %v command in %v", k, sink.Kinds())
	return gcode.Command{}
}

func TestInitCommandSequence(t *testing.T) {
	sink := &gcode.Capture{}
	m := NewGCode(sink)
	cfg := testConfig(map[string]*tape.Tape{"0805@100n": testTape(5, 0, 10)})

	if err := m.Init(cfg, "test run", geom.Dim{W: 50, H: 40}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	want := []gcode.Kind{
		gcode.KindComment, gcode.KindBlank,
		gcode.KindHomeXY, gcode.KindHomeZ, gcode.KindUnitsMM,
		gcode.KindSelectRotaryTool, gcode.KindColdExtrudeOverride,
		gcode.KindAbsoluteMode, gcode.KindZeroRotation,
		gcode.KindBlank, gcode.KindClearanceMove,
	}
	if !kindsEqual(sink.Kinds(), want) {
		t.Errorf("setup kinds = %v, want %v", sink.Kinds(), want)
	}

	// Clearance clears the highest obstacle (board top 6 vs tape 5)
	// plus the margin.
	if c := findKind(t, sink, gcode.KindClearanceMove); c.Z != 16 {
		t.Errorf("clearance Z = %v, want 16", c.Z)
	}
	if m.State() != Initialized {
		t.Errorf("state = %v, want %v", m.State(), Initialized)
	}
}

func TestInitClearanceFromTallestTape(t *testing.T) {
	sink := &gcode.Capture{}
	m := NewGCode(sink)
	cfg := testConfig(map[string]*tape.Tape{
		"a@1": testTape(5, 0, 10),
		"b@2": testTape(12, 0, 10),
	})
	if err := m.Init(cfg, "", geom.Dim{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if c := findKind(t, sink, gcode.KindClearanceMove); c.Z != 22 {
		t.Errorf("clearance Z = %v, want 22", c.Z)
	}
}

func TestInitNilConfig(t *testing.T) {
	sink := &gcode.Capture{}
	m := NewGCode(sink)
	err := m.Init(nil, "", geom.Dim{})
	if !errors.Is(err, errors.ErrConfigMissing) {
		t.Fatalf("Init(nil) error = %v, want %v", err, errors.ErrConfigMissing)
	}
	if len(sink.Commands) != 0 {
		t.Errorf("Init(nil) emitted %d commands, want 0", len(sink.Commands))
	}
	if m.State() != Uninitialized {
		t.Errorf("state = %v, want %v", m.State(), Uninitialized)
	}
}

func TestLifecycleEnforcement(t *testing.T) {
	cfg := testConfig(nil)
	part := testPart()

	m := NewGCode(&gcode.Capture{})
	if err := m.PickPart(part, nil); !errors.Is(err, errors.ErrMachineState) {
		t.Errorf("PickPart before Init = %v, want %v", err, errors.ErrMachineState)
	}
	if err := m.Finish(); !errors.Is(err, errors.ErrMachineState) {
		t.Errorf("Finish before Init = %v, want %v", err, errors.ErrMachineState)
	}

	if err := m.Init(cfg, "", geom.Dim{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := m.Init(cfg, "", geom.Dim{}); !errors.Is(err, errors.ErrMachineState) {
		t.Errorf("second Init = %v, want %v", err, errors.ErrMachineState)
	}

	if err := m.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if err := m.PlacePart(part, nil); !errors.Is(err, errors.ErrMachineState) {
		t.Errorf("PlacePart after Finish = %v, want %v", err, errors.ErrMachineState)
	}
}

func TestPickPart(t *testing.T) {
	tp := testTape(5, 0, 10)
	m, sink := initialized(t, testConfig(map[string]*tape.Tape{"0805@100n": tp}))

	if err := m.PickPart(testPart(), tp); err != nil {
		t.Fatalf("PickPart failed: %v", err)
	}

	want := []gcode.Kind{
		gcode.KindBlank, gcode.KindBlockHeader,
		gcode.KindPickMove, gcode.KindPickDescend, gcode.KindPickFlush,
		gcode.KindVacuumOn, gcode.KindPickAscend,
	}
	if !kindsEqual(sink.Kinds(), want) {
		t.Fatalf("pick kinds = %v, want %v", sink.Kinds(), want)
	}

	move := findKind(t, sink, gcode.KindPickMove)
	if move.Feed != 60000 {
		t.Errorf("pick feed = %d, want 60000", move.Feed)
	}
	if move.X != 10 || move.Y != 20 {
		t.Errorf("pick position = (%v,%v), want (10,20)", move.X, move.Y)
	}
	if move.Z != 15 { // tape height + hover
		t.Errorf("pick approach Z = %v, want 15", move.Z)
	}
	if c := findKind(t, sink, gcode.KindPickDescend); c.Z != 5 {
		t.Errorf("pick descend Z = %v, want tape height 5", c.Z)
	}
	// Travel: tape height + board thickness + hover.
	if c := findKind(t, sink, gcode.KindPickAscend); c.Z != 16 {
		t.Errorf("pick ascend Z = %v, want 16", c.Z)
	}
	if hdr := findKind(t, sink, gcode.KindBlockHeader); hdr.Text != "Pick C12 (0805@100n)" {
		t.Errorf("block header = %q", hdr.Text)
	}
}

func TestPickAdvancesTapeCursor(t *testing.T) {
	tp := testTape(5, 0, 10)
	m, sink := initialized(t, testConfig(map[string]*tape.Tape{"0805@100n": tp}))

	for i := 0; i < 2; i++ {
		if err := m.PickPart(testPart(), tp); err != nil {
			t.Fatalf("PickPart %d failed: %v", i, err)
		}
	}
	var moves []gcode.Command
	for _, c := range sink.Commands {
		if c.Kind == gcode.KindPickMove {
			moves = append(moves, c)
		}
	}
	if len(moves) != 2 {
		t.Fatalf("got %d pick moves, want 2", len(moves))
	}
	if moves[0].X != 10 || moves[1].X != 14 {
		t.Errorf("pick X positions = %v, %v; want 10, 14", moves[0].X, moves[1].X)
	}
}

func TestPickRotationFromTapeAngle(t *testing.T) {
	tp := testTape(5, 350, 10)
	m, sink := initialized(t, testConfig(map[string]*tape.Tape{"0805@100n": tp}))

	if err := m.PickPart(testPart(), tp); err != nil {
		t.Fatalf("PickPart failed: %v", err)
	}
	move := findKind(t, sink, gcode.KindPickMove)
	if want := 350 * config.DefaultAngleFactor; move.A != want {
		t.Errorf("pick rotation = %v, want %v", move.A, want)
	}
}

func TestPickNilTape(t *testing.T) {
	m, sink := initialized(t, testConfig(nil))
	if err := m.PickPart(testPart(), nil); err != nil {
		t.Fatalf("PickPart(nil tape) = %v, want nil", err)
	}
	if len(sink.Commands) != 0 {
		t.Errorf("nil tape emitted %d commands, want 0", len(sink.Commands))
	}
}

func TestPickExhaustedTapeSkips(t *testing.T) {
	tp := testTape(5, 0, 1)
	m, sink := initialized(t, testConfig(map[string]*tape.Tape{"0805@100n": tp}))

	if err := m.PickPart(testPart(), tp); err != nil {
		t.Fatalf("first PickPart failed: %v", err)
	}
	first := len(sink.Commands)

	// Second pick finds the reel empty. Not an error, nothing emitted.
	if err := m.PickPart(testPart(), tp); err != nil {
		t.Fatalf("exhausted PickPart = %v, want nil", err)
	}
	if len(sink.Commands) != first {
		t.Errorf("exhausted pick emitted %d commands", len(sink.Commands)-first)
	}

	// Later operations are unaffected.
	if err := m.PlacePart(testPart(), tp); err != nil {
		t.Fatalf("PlacePart after exhausted pick failed: %v", err)
	}
	if len(sink.Commands) == first {
		t.Error("place after exhausted pick emitted nothing")
	}
}

func TestPlacePart(t *testing.T) {
	tp := testTape(5, 350, 10)
	m, sink := initialized(t, testConfig(map[string]*tape.Tape{"0805@100n": tp}))

	part := testPart() // angle 30, pos (3,7)
	if err := m.PlacePart(part, tp); err != nil {
		t.Fatalf("PlacePart failed: %v", err)
	}

	want := []gcode.Kind{
		gcode.KindBlank, gcode.KindBlockHeader,
		gcode.KindPlaceMove, gcode.KindPlaceDescend,
		gcode.KindPlaceFlush, gcode.KindVacuumOff, gcode.KindPlaceFlush,
		gcode.KindBlowOn, gcode.KindReleaseDwell, gcode.KindBlowOff,
		gcode.KindPlaceAscend,
	}
	if !kindsEqual(sink.Kinds(), want) {
		t.Fatalf("place kinds = %v, want %v", sink.Kinds(), want)
	}

	move := findKind(t, sink, gcode.KindPlaceMove)
	if move.Feed != 6000 {
		t.Errorf("place feed = %d, want 6000", move.Feed)
	}
	// Board origin (100,50) + part position (3,7).
	if move.X != 103 || move.Y != 57 {
		t.Errorf("place position = (%v,%v), want (103,57)", move.X, move.Y)
	}
	// Rotation delta 30 - 350 normalizes to 40 degrees.
	if want := 40 * config.DefaultAngleFactor; move.A != want {
		t.Errorf("place rotation = %v, want %v", move.A, want)
	}
	// Descend to tape height + board thickness.
	if c := findKind(t, sink, gcode.KindPlaceDescend); c.Z != 6 {
		t.Errorf("place descend Z = %v, want 6", c.Z)
	}
	if c := findKind(t, sink, gcode.KindReleaseDwell); c.Ms != 40 {
		t.Errorf("release dwell = %vms, want 40", c.Ms)
	}
}

func TestPlaceNilTape(t *testing.T) {
	m, sink := initialized(t, testConfig(nil))
	if err := m.PlacePart(testPart(), nil); err != nil {
		t.Fatalf("PlacePart(nil tape) = %v, want nil", err)
	}
	if len(sink.Commands) != 0 {
		t.Errorf("nil tape emitted %d commands, want 0", len(sink.Commands))
	}
}

func TestDispense(t *testing.T) {
	m, sink := initialized(t, testConfig(nil))

	part := &board.Part{Name: "R1", Pos: geom.Point{X: 3, Y: 7}, Angle: 90}
	pad := &board.Pad{
		Name: "1",
		Pos:  geom.Point{X: 1, Y: 0},
		Size: geom.Dim{W: 2, H: 1},
	}
	if err := m.Dispense(part, pad); err != nil {
		t.Fatalf("Dispense failed: %v", err)
	}

	want := []gcode.Kind{
		gcode.KindBlank, gcode.KindBlockHeader,
		gcode.KindDispenseMove, gcode.KindDispenseDescend,
		gcode.KindDispenserOn, gcode.KindDispenseDwell,
		gcode.KindDispenserOff, gcode.KindDispenseAscend,
	}
	if !kindsEqual(sink.Kinds(), want) {
		t.Fatalf("dispense kinds = %v, want %v", sink.Kinds(), want)
	}

	// Pad offset (1,0) rotated 90 degrees lands at (0,1); target is
	// board origin + part position + rotated offset.
	move := findKind(t, sink, gcode.KindDispenseMove)
	const eps = 1e-9
	if move.X < 103-eps || move.X > 103+eps || move.Y < 58-eps || move.Y > 58+eps {
		t.Errorf("dispense position = (%v,%v), want (103,58)", move.X, move.Y)
	}
	if move.Z != 8 { // board top + hover-above
		t.Errorf("dispense approach Z = %v, want 8", move.Z)
	}
	if c := findKind(t, sink, gcode.KindDispenseDescend); c.Z != 6.3 {
		t.Errorf("dispense Z = %v, want 6.3", c.Z)
	}
	if c := findKind(t, sink, gcode.KindDispenseAscend); c.Z != 11 {
		t.Errorf("separate Z = %v, want 11", c.Z)
	}

	// Dwell is linear in the 2mm^2 pad area.
	dwell := findKind(t, sink, gcode.KindDispenseDwell)
	if dwell.Ms != 150 || dwell.Area != 2 {
		t.Errorf("dwell = %vms area %v, want 150ms area 2", dwell.Ms, dwell.Area)
	}
	if hdr := findKind(t, sink, gcode.KindBlockHeader); hdr.Text != "component R1, pad 1" {
		t.Errorf("block header = %q", hdr.Text)
	}
}

func TestFinish(t *testing.T) {
	m, sink := initialized(t, testConfig(nil))
	if err := m.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	want := []gcode.Kind{gcode.KindBlank, gcode.KindFinishHomeXY, gcode.KindMotorsOff}
	if !kindsEqual(sink.Kinds(), want) {
		t.Errorf("finish kinds = %v, want %v", sink.Kinds(), want)
	}
	if m.State() != Finished {
		t.Errorf("state = %v, want %v", m.State(), Finished)
	}
}

func TestStreamedRunText(t *testing.T) {
	var out strings.Builder
	m := NewGCode(gcode.NewStreamSink(&out))
	tp := testTape(5, 0, 10)
	cfg := testConfig(map[string]*tape.Tape{"0805@100n": tp})

	if err := m.Init(cfg, "rpt2pnp test", geom.Dim{W: 50, H: 40}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	part := testPart()
	if err := m.PickPart(part, tp); err != nil {
		t.Fatalf("PickPart failed: %v", err)
	}
	if err := m.PlacePart(part, tp); err != nil {
		t.Fatalf("PlacePart failed: %v", err)
	}
	if err := m.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	text := out.String()
	for _, line := range []string{
		"; rpt2pnp test\n",
		"G28 X0 Y0  ; Home (x/y) - needle over free space\n",
		"G1 Z16.0 E0 ; Move needle out of way\n",
		";; -- Pick C12 (0805@100n)\n",
		"G0 F60000 X10.000 Y20.000 Z15.000 E0.000 ; Move over component to pick.\n",
		"G1 Z5.00     F4000 ; move down on tape.\n",
		"M42 P6 S255  ; turn on suckage\n",
		";; -- Place C12 (0805@100n)\n",
		"G4 P40        ; .. for 40ms\n",
		"M84        ; stop motors\n",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("output missing %q\nfull output:\n%s", line, text)
		}
	}
}
