package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := ConfigMissingError("gcode")
	if !strings.Contains(err.Error(), "CONFIG_MISSING") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "gcode") {
		t.Errorf("expected section in message, got %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := TapeExhaustedError()
	if !Is(err, ErrTapeExhausted) {
		t.Error("Is(ErrTapeExhausted) = false, want true")
	}
	if Is(err, ErrMachineState) {
		t.Error("Is(ErrMachineState) = true, want false")
	}
	if Is(stderrors.New("plain"), ErrTapeExhausted) {
		t.Error("Is on plain error = true, want false")
	}
}

func TestIsConfig(t *testing.T) {
	if !IsConfig(ConfigMissingError("machine")) {
		t.Error("IsConfig(ConfigMissingError) = false, want true")
	}
	if IsConfig(MachineStateError("PickPart", "finished")) {
		t.Error("IsConfig(MachineStateError) = true, want false")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := EmitError(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be found by errors.Is")
	}
}
