package gcode

import "io"

// Sink is an ordered, append-only destination for commands. The
// consuming controller executes commands in emission order, so sinks
// must not reorder or batch across Emit calls.
type Sink interface {
	Emit(c Command) error
}

// StreamSink serializes each command to the wire dialect and writes it
// to an io.Writer.
type StreamSink struct {
	w io.Writer
}

// NewStreamSink creates a sink writing serialized commands to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Emit renders and writes one command.
func (s *StreamSink) Emit(c Command) error {
	_, err := io.WriteString(s.w, Format(c))
	return err
}

// Capture is a sink that records commands for inspection. Tests use it
// to assert on structured command values instead of rendered text.
type Capture struct {
	Commands []Command
}

// Emit appends the command to the capture buffer.
func (s *Capture) Emit(c Command) error {
	s.Commands = append(s.Commands, c)
	return nil
}

// Kinds returns the emission-ordered kinds of all captured commands.
func (s *Capture) Kinds() []Kind {
	kinds := make([]Kind, len(s.Commands))
	for i, c := range s.Commands {
		kinds[i] = c.Kind
	}
	return kinds
}
