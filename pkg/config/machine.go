package config

import (
	"strings"

	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/tape"
)

// DefaultAngleFactor maps a full 360 degree rotation to one turn of the
// rotary actuator. Specific to the stepper driving the needle.
const DefaultAngleFactor = 50.34965 / 360.0

// BoardConfig is the board geometry: Z heights above the machine bed
// and the global-frame origin offset of the board-local coordinates.
type BoardConfig struct {
	Top      float64 // board top surface height, mm
	BedLevel float64 // machine bed reference height, mm
	Origin   geom.Point
}

// Thickness returns the board thickness in mm.
func (b BoardConfig) Thickness() float64 {
	return b.Top - b.BedLevel
}

// Calibration holds the per-machine motion constants. These used to be
// compiled in; they are configuration so a machine can be recalibrated
// without rebuilding.
type Calibration struct {
	// AngleFactor is the rotary actuator units per degree.
	AngleFactor float64

	// TapeSpeed and BoardSpeed are travel speeds in mm/s: moving the
	// empty needle to a tape, and carrying a component to the board.
	TapeSpeed  float64
	BoardSpeed float64

	// ZHover is the clearance above tape or board while transporting a
	// component, mm.
	ZHover float64

	// ClearanceMargin is added above the highest obstacle for the
	// initial move-out-of-the-way height, mm.
	ClearanceMargin float64

	// TapeThick compensates components resting higher on the tape
	// backing during placement, mm.
	TapeThick float64

	// Dispense heights above the board top surface, mm.
	ZDispenseAbove float64
	ZHoverAbove    float64
	ZSeparateAbove float64

	// ReleaseMs is the release-actuator pulse duration in ms.
	ReleaseMs float64
}

// DispenseTiming is the linear area-dependent dispense-time model:
// dwell = InitMs + area * AreaMs.
type DispenseTiming struct {
	InitMs float64 // base dispense time, ms
	AreaMs float64 // additional time per mm^2 of pad area, ms
}

// DefaultCalibration returns the calibration the encoder was originally
// tuned with.
func DefaultCalibration() Calibration {
	return Calibration{
		AngleFactor:     DefaultAngleFactor,
		TapeSpeed:       1000,
		BoardSpeed:      100,
		ZHover:          10,
		ClearanceMargin: 10,
		TapeThick:       0,
		ZDispenseAbove:  0.3,
		ZHoverAbove:     2,
		ZSeparateAbove:  5,
		ReleaseMs:       40,
	}
}

// MachineConfig aggregates everything the encoders read: board
// geometry, the tape registry and timing constants. It is constructed
// once before initialization and is read-only afterwards; the tape
// cursors are the only mutable state.
type MachineConfig struct {
	Board    BoardConfig
	Tapes    map[string]*tape.Tape // keyed by footprint@value
	Dispense DispenseTiming
	Cal      Calibration
}

// TapeFor returns the tape assigned to a footprint@value key, or nil
// when no tape is assigned.
func (c *MachineConfig) TapeFor(key string) *tape.Tape {
	return c.Tapes[key]
}

// LoadMachineConfig reads and materializes a machine config file.
func LoadMachineConfig(path string) (*MachineConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ParseMachineConfig(cfg)
}

// ParseMachineConfig materializes a MachineConfig from parsed sections:
// a required [board] section, optional [machine] and [dispense]
// sections, and one [tape <footprint@value>] section per reel.
func ParseMachineConfig(cfg *Config) (*MachineConfig, error) {
	mc := &MachineConfig{
		Tapes: make(map[string]*tape.Tape),
		Dispense: DispenseTiming{
			InitMs: 100,
			AreaMs: 25,
		},
		Cal: DefaultCalibration(),
	}

	boardSec, err := cfg.GetSection("board")
	if err != nil {
		return nil, err
	}
	if mc.Board.Top, err = boardSec.GetFloat("top"); err != nil {
		return nil, err
	}
	if mc.Board.BedLevel, err = boardSec.GetFloat("bed_level", 0); err != nil {
		return nil, err
	}
	if mc.Board.Origin.X, err = boardSec.GetFloat("origin_x", 0); err != nil {
		return nil, err
	}
	if mc.Board.Origin.Y, err = boardSec.GetFloat("origin_y", 0); err != nil {
		return nil, err
	}

	if cfg.HasSection("machine") {
		sec, _ := cfg.GetSection("machine")
		if err := parseCalibration(sec, &mc.Cal); err != nil {
			return nil, err
		}
	}

	if cfg.HasSection("dispense") {
		sec, _ := cfg.GetSection("dispense")
		if mc.Dispense.InitMs, err = sec.GetFloatMin("init_ms", 0, mc.Dispense.InitMs); err != nil {
			return nil, err
		}
		if mc.Dispense.AreaMs, err = sec.GetFloatMin("area_ms", 0, mc.Dispense.AreaMs); err != nil {
			return nil, err
		}
	}

	for _, sec := range cfg.SectionsWithPrefix("tape ") {
		key := strings.TrimSpace(sec.Name()[len("tape "):])
		if key == "" {
			return nil, ErrMissingSection(sec.Name())
		}
		t, err := parseTape(sec)
		if err != nil {
			return nil, err
		}
		mc.Tapes[key] = t
	}

	return mc, nil
}

func parseCalibration(sec *Section, cal *Calibration) error {
	var err error
	if cal.AngleFactor, err = sec.GetFloat("angle_factor", cal.AngleFactor); err != nil {
		return err
	}
	if cal.TapeSpeed, err = sec.GetFloatMin("tape_speed", 0, cal.TapeSpeed); err != nil {
		return err
	}
	if cal.BoardSpeed, err = sec.GetFloatMin("board_speed", 0, cal.BoardSpeed); err != nil {
		return err
	}
	if cal.ZHover, err = sec.GetFloatMin("z_hover", 0, cal.ZHover); err != nil {
		return err
	}
	if cal.ClearanceMargin, err = sec.GetFloatMin("clearance_margin", 0, cal.ClearanceMargin); err != nil {
		return err
	}
	if cal.TapeThick, err = sec.GetFloatMin("tape_thickness", 0, cal.TapeThick); err != nil {
		return err
	}
	if cal.ZDispenseAbove, err = sec.GetFloatMin("z_dispense_above", 0, cal.ZDispenseAbove); err != nil {
		return err
	}
	if cal.ZHoverAbove, err = sec.GetFloatMin("z_hover_above", 0, cal.ZHoverAbove); err != nil {
		return err
	}
	if cal.ZSeparateAbove, err = sec.GetFloatMin("z_separate_above", 0, cal.ZSeparateAbove); err != nil {
		return err
	}
	if cal.ReleaseMs, err = sec.GetFloatMin("release_ms", 0, cal.ReleaseMs); err != nil {
		return err
	}
	return nil
}

func parseTape(sec *Section) (*tape.Tape, error) {
	var opt tape.Options
	var err error
	if opt.Origin.X, err = sec.GetFloat("origin_x"); err != nil {
		return nil, err
	}
	if opt.Origin.Y, err = sec.GetFloat("origin_y"); err != nil {
		return nil, err
	}
	if opt.Advance.X, err = sec.GetFloat("spacing_x", 4); err != nil {
		return nil, err
	}
	if opt.Advance.Y, err = sec.GetFloat("spacing_y", 0); err != nil {
		return nil, err
	}
	if opt.Height, err = sec.GetFloatMin("height", 0); err != nil {
		return nil, err
	}
	if opt.Angle, err = sec.GetFloat("angle", 0); err != nil {
		return nil, err
	}
	if opt.Count, err = sec.GetInt("count"); err != nil {
		return nil, err
	}
	if opt.Count < 0 {
		return nil, ErrOutOfRange(sec.Name(), "count", float64(opt.Count), "must have minimum of 0")
	}
	return tape.New(opt), nil
}
