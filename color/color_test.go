package color_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/becuri/ledscript/color"
)

func TestFromTuplePromotesThreeTuple(t *testing.T) {
	c := qt.New(t)

	got, err := color.FromTuple([]int{30, 12, 200})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, color.Color{R: 30, G: 12, B: 200, L: 100})
}

func TestFromTupleRejectsOutOfRange(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		v    []int
	}{
		{"red too high", []int{256, 0, 0, 100}},
		{"brightness too high", []int{0, 0, 0, 101}},
		{"wrong shape", []int{1, 2}},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := color.FromTuple(tc.v)
			c.Assert(err, qt.Not(qt.IsNil))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := qt.New(t)

	want := color.Color{R: 255, G: 0, B: 10, L: 64}
	got := color.Decode(want.Encode())
	c.Assert(got, qt.Equals, want)
}

func TestEncodeMatchesWireLayout(t *testing.T) {
	c := qt.New(t)

	red := color.Color{R: 255, G: 0, B: 0, L: 100}
	c.Assert(red.Encode(), qt.Equals, uint32(0xFF000064))
}

func TestPhysFullBrightnessIsIdentity(t *testing.T) {
	c := qt.New(t)

	full := color.Color{R: 200, G: 100, B: 50, L: 100}
	r, g, b := full.Phys()
	c.Assert(r, qt.Equals, uint8(200))
	c.Assert(g, qt.Equals, uint8(100))
	c.Assert(b, qt.Equals, uint8(50))
}

func TestPhysZeroBrightnessIsBlack(t *testing.T) {
	c := qt.New(t)

	dark := color.Color{R: 200, G: 100, B: 50, L: 0}
	r, g, b := dark.Phys()
	c.Assert(r, qt.Equals, uint8(0))
	c.Assert(g, qt.Equals, uint8(0))
	c.Assert(b, qt.Equals, uint8(0))
}
