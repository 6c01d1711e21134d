// rpt2pnp encodes a pick-and-place run as a G-code command stream.
// It reads a machine configuration (board geometry, component tapes,
// calibration) and a part list, and writes the command stream for the
// controller to stdout or a file. With -ps it renders a PostScript
// preview of the same run instead.
//
// Usage:
//
//	rpt2pnp -config machine.cfg -parts board.parts [options]
//
// Options:
//
//	-config string       Machine configuration file (required)
//	-parts string        Part list file (required)
//	-out string          Output file (default: stdout)
//	-ps                  Render a PostScript preview instead of G-code
//	-dispense            Encode paste dispensing for every pad
//	-pnp                 Encode pick and place operations (default true)
//	-comment string      Annotation for the output header
//	-board-width float   Board width in mm (default: derived from parts)
//	-board-height float  Board height in mm (default: derived from parts)
//	-logfile string      Log file path, size-rotated (default: stderr)
//	-loglevel string     DEBUG, INFO, WARN or ERROR (default "INFO")
//	-metrics             Dump run metrics to stderr when done
//
// Examples:
//
//	# Pick-and-place G-code to stdout
//	rpt2pnp -config machine.cfg -parts board.parts
//
//	# Solder paste dispensing only
//	rpt2pnp -config machine.cfg -parts board.parts -pnp=false -dispense
//
//	# Preview what the run would do
//	rpt2pnp -config machine.cfg -parts board.parts -ps -out preview.ps
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ultrasonic59/rpt2pnp/pkg/board"
	"github.com/ultrasonic59/rpt2pnp/pkg/config"
	"github.com/ultrasonic59/rpt2pnp/pkg/gcode"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
	"github.com/ultrasonic59/rpt2pnp/pkg/log"
	"github.com/ultrasonic59/rpt2pnp/pkg/machine"
	"github.com/ultrasonic59/rpt2pnp/pkg/metrics"
)

func main() {
	configFile := flag.String("config", "", "Machine configuration file (required)")
	partsFile := flag.String("parts", "", "Part list file (required)")
	outFile := flag.String("out", "", "Output file (default: stdout)")
	psOutput := flag.Bool("ps", false, "Render a PostScript preview instead of G-code")
	doDispense := flag.Bool("dispense", false, "Encode paste dispensing for every pad")
	doPnP := flag.Bool("pnp", true, "Encode pick and place operations")
	comment := flag.String("comment", "", "Annotation for the output header")
	boardWidth := flag.Float64("board-width", 0, "Board width in mm (default: derived from parts)")
	boardHeight := flag.Float64("board-height", 0, "Board height in mm (default: derived from parts)")
	logFile := flag.String("logfile", "", "Log file path, size-rotated (default: stderr)")
	logLevel := flag.String("loglevel", "INFO", "DEBUG, INFO, WARN or ERROR")
	dumpMetrics := flag.Bool("metrics", false, "Dump run metrics to stderr when done")

	flag.Parse()

	if *configFile == "" || *partsFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -config and -parts are required\n")
		flag.Usage()
		os.Exit(1)
	}

	logger := log.GetLogger("")
	logger.SetLevel(log.ParseLevel(*logLevel))
	if *logFile != "" {
		w, err := log.NewRotatingFileWriter(log.RotationConfig{Filename: *logFile})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		logger.SetWriter(w)
	}
	log.SetDefaultLogger(logger)

	cfg, err := config.LoadMachineConfig(*configFile)
	if err != nil {
		logger.Error("Config %s: %v", *configFile, err)
		os.Exit(1)
	}
	parts, err := board.LoadPartList(*partsFile)
	if err != nil {
		logger.Error("Part list %s: %v", *partsFile, err)
		os.Exit(1)
	}

	logger.Info("Config: %s", *configFile)
	logger.Info("Parts: %s (%d parts)", *partsFile, len(parts))
	logger.Info("Tapes: %d reels configured", len(cfg.Tapes))

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.Error("Output %s: %v", *outFile, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	var m machine.Machine
	if *psOutput {
		m = machine.NewPostScript(out)
	} else {
		m = machine.NewGCode(gcode.NewStreamSink(out))
	}

	dim := geom.Dim{W: *boardWidth, H: *boardHeight}
	if dim.W <= 0 || dim.H <= 0 {
		dim = boardDimension(parts)
		logger.Debug("Board dimension derived from parts: %.1f x %.1f mm", dim.W, dim.H)
	}

	annotation := *comment
	if annotation == "" {
		annotation = fmt.Sprintf("rpt2pnp -config %s -parts %s", *configFile, *partsFile)
	}

	if err := run(m, cfg, parts, annotation, dim, *doDispense, *doPnP); err != nil {
		logger.Error("Encoding failed: %v", err)
		os.Exit(1)
	}

	if *dumpMetrics {
		fmt.Fprint(os.Stderr, metrics.Default.Gather())
	}
}

// run drives the full encoding sequence: setup, optional dispense pass,
// optional pick-and-place pass, shutdown. Dispensing happens before
// placement so components land on wet paste.
func run(m machine.Machine, cfg *config.MachineConfig, parts []*board.Part,
	comment string, dim geom.Dim, doDispense, doPnP bool) error {
	if err := m.Init(cfg, comment, dim); err != nil {
		return err
	}

	if doDispense {
		for _, part := range parts {
			for i := range part.Pads {
				if err := m.Dispense(part, &part.Pads[i]); err != nil {
					return err
				}
			}
		}
	}

	if doPnP {
		for _, part := range parts {
			t := cfg.TapeFor(part.Key())
			if t == nil {
				log.Warn("No tape configured for %s", part.PrintName())
			}
			if err := m.PickPart(part, t); err != nil {
				return err
			}
			if err := m.PlacePart(part, t); err != nil {
				return err
			}
		}
	}

	return m.Finish()
}

// boardDimension derives the board extent from the part layout when no
// explicit dimension is given. Only previews use it.
func boardDimension(parts []*board.Part) geom.Dim {
	var dim geom.Dim
	for _, p := range parts {
		if x := p.Pos.X + p.BBox.Max.X; x > dim.W {
			dim.W = x
		}
		if y := p.Pos.Y + p.BBox.Max.Y; y > dim.H {
			dim.H = y
		}
	}
	return dim
}
