package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[board]
top: 6.0
bed_level: 5.0
origin_x: 10
origin_y: 20

[machine]
angle_factor: 0.25
tape_speed: 500
release_ms: 30

[dispense]
init_ms: 120
area_ms: 30

[tape 0805@100n]
origin_x: 100
origin_y: 50
spacing_x: 4
height: 5
angle: 90
count: 40

[tape 0603@10k]
origin_x: 100
origin_y: 80
height: 2
count: 10
`

func TestParseMachineConfig(t *testing.T) {
	cfg, err := LoadString(sampleConfig)
	require.NoError(t, err)

	mc, err := ParseMachineConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 6.0, mc.Board.Top)
	assert.Equal(t, 5.0, mc.Board.BedLevel)
	assert.InDelta(t, 1.0, mc.Board.Thickness(), 1e-9)
	assert.Equal(t, 10.0, mc.Board.Origin.X)
	assert.Equal(t, 20.0, mc.Board.Origin.Y)

	// Overridden calibration values.
	assert.Equal(t, 0.25, mc.Cal.AngleFactor)
	assert.Equal(t, 500.0, mc.Cal.TapeSpeed)
	assert.Equal(t, 30.0, mc.Cal.ReleaseMs)
	// Untouched options keep their defaults.
	assert.Equal(t, 100.0, mc.Cal.BoardSpeed)
	assert.Equal(t, 10.0, mc.Cal.ZHover)
	assert.Equal(t, 0.3, mc.Cal.ZDispenseAbove)

	assert.Equal(t, 120.0, mc.Dispense.InitMs)
	assert.Equal(t, 30.0, mc.Dispense.AreaMs)

	require.Len(t, mc.Tapes, 2)
	tp := mc.TapeFor("0805@100n")
	require.NotNil(t, tp)
	assert.Equal(t, 5.0, tp.Height())
	assert.Equal(t, 90.0, tp.Angle())
	assert.Equal(t, 40, tp.Count())

	assert.Nil(t, mc.TapeFor("sot23@bc847"), "unassigned key must map to no tape")
}

func TestParseMachineConfigDefaults(t *testing.T) {
	cfg, err := LoadString("[board]\ntop: 1.6\n")
	require.NoError(t, err)

	mc, err := ParseMachineConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, mc.Board.BedLevel)
	assert.Equal(t, DefaultCalibration(), mc.Cal)
	assert.InDelta(t, DefaultAngleFactor, mc.Cal.AngleFactor, 1e-12)
	assert.Equal(t, 100.0, mc.Dispense.InitMs)
	assert.Equal(t, 25.0, mc.Dispense.AreaMs)
	assert.Empty(t, mc.Tapes)
}

func TestParseMachineConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing board", "[machine]\nz_hover: 10\n"},
		{"missing board top", "[board]\norigin_x: 10\n"},
		{"tape missing origin", "[board]\ntop: 6\n\n[tape a@b]\nheight: 5\ncount: 1\n"},
		{"tape missing count", "[board]\ntop: 6\n\n[tape a@b]\norigin_x: 0\norigin_y: 0\nheight: 5\n"},
		{"tape negative count", "[board]\ntop: 6\n\n[tape a@b]\norigin_x: 0\norigin_y: 0\nheight: 5\ncount: -1\n"},
		{"tape negative height", "[board]\ntop: 6\n\n[tape a@b]\norigin_x: 0\norigin_y: 0\nheight: -5\ncount: 1\n"},
		{"negative dispense time", "[board]\ntop: 6\n\n[dispense]\ninit_ms: -1\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := LoadString(c.data)
			require.NoError(t, err)
			_, err = ParseMachineConfig(cfg)
			assert.Error(t, err)
		})
	}
}
