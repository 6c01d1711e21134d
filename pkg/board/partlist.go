package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
	"github.com/ultrasonic59/rpt2pnp/pkg/geom"
)

// LoadPartList reads a part list file. The format is line oriented:
//
//	part <name> <footprint> <value> <x> <y> <angle>
//	box <min-x> <min-y> <max-x> <max-y>
//	pad <name> <x> <y> <width> <height>
//
// 'box' and 'pad' lines attach to the most recent 'part' line. '#'
// starts a comment. Full CAD report parsing stays outside this tool;
// this is the narrow hand-off format from whatever produced the layout.
func LoadPartList(path string) ([]*Part, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("partlist: unable to open %s: %w", path, err)
	}
	defer f.Close()
	return ParsePartList(f)
}

// ParsePartList parses part list data from a reader.
func ParsePartList(r io.Reader) ([]*Part, error) {
	var parts []*Part
	var current *Part

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "part":
			if len(fields) != 7 {
				return nil, errors.PartListError(lineNum, "part needs: name footprint value x y angle")
			}
			vals, err := parseFloats(fields[4:7])
			if err != nil {
				return nil, errors.PartListError(lineNum, err.Error())
			}
			current = &Part{
				Name:      fields[1],
				Footprint: fields[2],
				Value:     fields[3],
				Pos:       geom.Point{X: vals[0], Y: vals[1]},
				Angle:     vals[2],
			}
			parts = append(parts, current)

		case "box":
			if current == nil {
				return nil, errors.PartListError(lineNum, "box before any part")
			}
			if len(fields) != 5 {
				return nil, errors.PartListError(lineNum, "box needs: min-x min-y max-x max-y")
			}
			vals, err := parseFloats(fields[1:5])
			if err != nil {
				return nil, errors.PartListError(lineNum, err.Error())
			}
			current.BBox = geom.Box{
				Min: geom.Point{X: vals[0], Y: vals[1]},
				Max: geom.Point{X: vals[2], Y: vals[3]},
			}

		case "pad":
			if current == nil {
				return nil, errors.PartListError(lineNum, "pad before any part")
			}
			if len(fields) != 6 {
				return nil, errors.PartListError(lineNum, "pad needs: name x y width height")
			}
			vals, err := parseFloats(fields[2:6])
			if err != nil {
				return nil, errors.PartListError(lineNum, err.Error())
			}
			current.Pads = append(current.Pads, Pad{
				Name: fields[1],
				Pos:  geom.Point{X: vals[0], Y: vals[1]},
				Size: geom.Dim{W: vals[2], H: vals[3]},
			})

		default:
			return nil, errors.PartListError(lineNum, "unknown record type "+fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("partlist: read: %w", err)
	}
	return parts, nil
}

func parseFloats(fields []string) ([]float64, error) {
	result := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		result[i] = v
	}
	return result, nil
}
