package board

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultrasonic59/rpt2pnp/pkg/errors"
)

func TestParsePartList(t *testing.T) {
	data := `
# a small layout
part C1 0805 100n 10.0 20.0 90
box -1.0 -0.625 1.0 0.625
pad 1 -0.95 0 1.3 1.5
pad 2 0.95 0 1.3 1.5

part R5 0603 10k 42.5 13.25 -270.5
`
	parts, err := ParsePartList(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, parts, 2)

	c1 := parts[0]
	assert.Equal(t, "C1", c1.Name)
	assert.Equal(t, "0805", c1.Footprint)
	assert.Equal(t, "100n", c1.Value)
	assert.Equal(t, 10.0, c1.Pos.X)
	assert.Equal(t, 20.0, c1.Pos.Y)
	assert.Equal(t, 90.0, c1.Angle)
	assert.Equal(t, "0805@100n", c1.Key())
	assert.Equal(t, "C1 (0805@100n)", c1.PrintName())
	require.Len(t, c1.Pads, 2)
	assert.Equal(t, "1", c1.Pads[0].Name)
	assert.Equal(t, 1.3, c1.Pads[0].Size.W)
	assert.InDelta(t, 2.0, c1.BBox.Dim().W, 1e-9)

	r5 := parts[1]
	assert.Equal(t, -270.5, r5.Angle)
	assert.Empty(t, r5.Pads)
}

func TestParsePartListErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"pad before part", "pad 1 0 0 1 1\n"},
		{"box before part", "box 0 0 1 1\n"},
		{"short part", "part C1 0805 100n 10.0\n"},
		{"bad number", "part C1 0805 100n ten 20 90\n"},
		{"unknown record", "component C1\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParsePartList(strings.NewReader(c.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrPartList), "expected PART_LIST error, got %v", err)
		})
	}
}
