package machine

import (
	"fmt"
	"io"
	"math"

	"github.com/ultrasonic59/rpt2pnp/pkg/board"
	"github.com/ultrasonic59/rpt2pnp/pkg/config"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/tape"
)

// Component colors for the preview rendering.
const (
	dispensePartColor = "0.8 0.8 0.8"
	pickColor         = "0 0 0"
	placeColor        = "0 0 0"
	placeMissingColor = "1 0.3 0"
)

const psPreamble = `
%% <dx> <dy> <x0> <y0>
/rect {
  moveto
  1 index 0 rlineto
  0 exch rlineto
  neg 0 rlineto
  closepath
  stroke
} def

%% print component
%% <dy> <dx>  <x0> <y0> <r> <g> <b> <name> <angle> <x> <y> pp
/pc {
    gsave
    translate              %% takes <x> <y>
    rotate                 %% takes <angle>
    0 0 moveto
    0 0 0.1 0 360 arc      %% mark center with tiny dot.
    0 0 1 setrgbcolor show %% takes <name>
    setrgbcolor            %% takes <r><g><b>
    rect                   %% take <dy> <dx> <x0> <y0>
    grestore
} def

%% PastePad.
%% Stack: <diameter>
/pp { 0.2 setlinewidth 0 360 arc stroke } def

%% Move, show path.
%% Stack: <x> <y>
/m {
  0 0.5 0 setrgbcolor
  0 setlinewidth lineto
  currentpoint        %% leave the new point on the stack
  stroke
  0 0 0 setrgbcolor
} def

72.0 25.4 div dup scale                  %% Switch to mm
0.1 setlinewidth
/Helvetica findfont 1.5 scalefont setfont  %% Small font
`

// PostScript renders a visual preview of a run: the board outline,
// components on their tapes and at their placement targets, and paste
// droplets. It implements the same Machine interface as the G-code
// encoder so a run can be previewed without touching the controller
// dialect.
//
// Unlike the G-code encoder it is deliberately permissive: a nil
// configuration falls back to an empty one and lifecycle boundaries are
// not enforced, so partial previews stay possible.
type PostScript struct {
	w         io.Writer
	cfg       *config.MachineConfig
	dispensed map[*board.Part]struct{}
	picked    map[*board.Part]bool
	err       error // sticky write error
}

// NewPostScript creates a preview renderer writing to w.
func NewPostScript(w io.Writer) *PostScript {
	return &PostScript{w: w}
}

// printf writes formatted output, remembering the first failure.
func (m *PostScript) printf(format string, args ...interface{}) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

// Init implements Machine. Emits the document header with a bounding
// box derived from the board placement (or a fixed generous one when
// tapes are configured, since reels sit outside the board), the
// procedure definitions, and the board outline.
func (m *PostScript) Init(cfg *config.MachineConfig, comment string, dim geom.Dim) error {
	if cfg == nil {
		cfg = &config.MachineConfig{}
	}
	m.cfg = cfg
	m.dispensed = make(map[*board.Part]struct{})
	m.picked = make(map[*board.Part]bool)

	const mmToPoint = 1 / 25.4 * 72.0
	if len(cfg.Tapes) == 0 {
		m.printf("%%!PS-Adobe-3.0\n%%%%BoundingBox: %.0f %.0f %.0f %.0f\n\n",
			cfg.Board.Origin.X*mmToPoint,
			cfg.Board.Origin.Y*mmToPoint,
			dim.W*mmToPoint, dim.H*mmToPoint)
	} else {
		m.printf("%%!PS-Adobe-3.0\n%%%%BoundingBox: %.0f %.0f %.0f %.0f\n\n",
			-2*mmToPoint, -2*mmToPoint,
			300*mmToPoint, 300*mmToPoint)
	}
	m.printf("%% %s\n", comment)
	m.printf("%s", psPreamble)

	// Draw board
	m.printf("%.1f %.1f %.1f %.1f rect\n", dim.W, dim.H,
		m.cfg.Board.Origin.X, m.cfg.Board.Origin.Y)

	// Push a currentpoint on stack (dispense draws a line from here)
	m.printf("0 0 moveto\n")
	return m.err
}

// component draws one part bounding box with name and angle at a
// position.
func (m *PostScript) component(part *board.Part, color string, angle float64, pos geom.Point) {
	d := part.BBox.Dim()
	m.printf("%.3f %.3f   %.3f %.3f %s (%s) %.3f %.3f %.3f pc\n",
		d.W, d.H,
		part.BBox.Min.X, part.BBox.Min.Y,
		color,
		part.Name,
		angle,
		pos.X, pos.Y)
}

// PickPart implements Machine. Draws the component at its tape
// position; exhausted or missing tapes draw nothing, the later place
// rendering flags them.
func (m *PostScript) PickPart(part *board.Part, t *tape.Tape) error {
	if t == nil {
		return m.err
	}
	pos, err := t.NextPos()
	if err != nil {
		m.picked[part] = false
		return m.err
	}
	m.picked[part] = true
	m.component(part, pickColor, t.Angle(), pos)
	return m.err
}

// PlacePart implements Machine. Parts without a supplying component are
// still visualized, but in a warning color.
func (m *PostScript) PlacePart(part *board.Part, t *tape.Tape) error {
	supplied := false
	if t != nil {
		if picked, seen := m.picked[part]; seen {
			supplied = picked
		} else {
			supplied = t.PartsAvailable()
		}
	}
	color := placeMissingColor
	if supplied {
		color = placeColor
	}
	m.component(part, color, part.Angle, part.Pos.Add(m.cfg.Board.Origin))
	return m.err
}

// Dispense implements Machine. The first pad of a part also draws the
// part outline; every pad draws the travel path and a droplet circle of
// area-equivalent diameter.
func (m *PostScript) Dispense(part *board.Part, pad *board.Pad) error {
	if _, ok := m.dispensed[part]; !ok {
		m.component(part, dispensePartColor, part.Angle, part.Pos.Add(m.cfg.Board.Origin))
		m.dispensed[part] = struct{}{}
	}

	target := m.cfg.Board.Origin.Add(part.Pos).Add(geom.RotateDeg(pad.Pos, part.Angle))
	area := pad.Size.Area()
	m.printf("%.3f %.3f m %.3f pp \n%.3f %.3f moveto ",
		target.X, target.Y, math.Sqrt(area/math.Pi), target.X, target.Y)
	return m.err
}

// Finish implements Machine.
func (m *PostScript) Finish() error {
	m.printf("showpage\n")
	return m.err
}
