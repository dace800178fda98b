// Package color implements the 4-tuple color model shared by the compiler
// and the executor: an (r, g, b) triple plus a perceived-brightness percent
// l, and its big-endian 32-bit wire encoding.
package color

import (
	"fmt"
	"math"

	ledscript "github.com/becuri/ledscript"
)

// Color is (r, g, b, l) with r, g, b in [0, 255] and l, the perceived
// brightness percent, in [0, 100]. The logical value stored anywhere in
// this module always carries the raw l; the gamma curve in Phys is applied
// only at the hardware boundary.
type Color struct {
	R, G, B uint8
	L       uint8
}

// Black is the zero value: off, at zero brightness.
var Black = Color{}

// FromTuple promotes a 3- or 4-element int tuple to a Color, defaulting l
// to 100 when omitted. It mirrors neopixel2.Neopixel.__setitem__'s
// "value += (100,)" promotion so every other entry point can assume a
// canonical 4-tuple.
func FromTuple(v []int) (Color, error) {
	switch len(v) {
	case 3:
		v = append(append([]int{}, v...), 100)
	case 4:
	default:
		return Color{}, fmt.Errorf("%w: color tuple must have 3 or 4 elements, got %d", ledscript.ErrShape, len(v))
	}
	for i, c := range v[:3] {
		if c < 0 || c > 255 {
			return Color{}, fmt.Errorf("%w: color component %d out of range [0,255]: %d", ledscript.ErrInputRange, i, c)
		}
	}
	if v[3] < 0 || v[3] > 100 {
		return Color{}, fmt.Errorf("%w: brightness out of range [0,100]: %d", ledscript.ErrInputRange, v[3])
	}
	return Color{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), L: uint8(v[3])}, nil
}

// Encode packs the color into the big-endian 32-bit wire word
// r<<24 | g<<16 | b<<8 | l described in spec §3/§4.1.
func (c Color) Encode() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.L)
}

// Decode unpacks a wire word produced by Encode.
func Decode(word uint32) Color {
	return Color{
		R: uint8(word >> 24),
		G: uint8(word >> 16),
		B: uint8(word >> 8),
		L: uint8(word),
	}
}

// gammaExp is the exponent of the brightness curve applied at hardware
// emit time: phys = c * ((l/100)^gammaExp * 255) / 255, truncated to uint8.
const gammaExp = 1.25

// Phys applies the perceived-brightness curve and returns the physical
// (r, g, b) triple a driver should actually push to the strip. The l
// channel never leaves the logical Color; it only scales the other three
// here.
func (c Color) Phys() (r, g, b uint8) {
	mult := brightnessMultiplier(c.L)
	return scale(c.R, mult), scale(c.G, mult), scale(c.B, mult)
}

// brightnessMultiplier computes ((l/100)^1.25 * 255) as an untruncated
// float — the scalar original_source/interpretor.py's
// compute_brightness_multiplier derives once per pixel and then applies per
// channel. Truncation to uint8 happens once per channel, in scale.
func brightnessMultiplier(l uint8) float64 {
	return math.Pow(float64(l)/100, gammaExp) * 255
}

func scale(channel uint8, mult float64) uint8 {
	return uint8(float64(channel) * mult / 255)
}
