// Package gradient implements the pure piecewise-linear gradient builder
// used by the compiler's set_gradient operation (spec §4.5).
package gradient

import (
	"fmt"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/color"
)

// Build computes a piecewise-linear gradient of exactly length L from the
// anchor colors, distributing the L-len(anchors) extra slots symmetrically
// from both ends (spec §4.5). len(anchors) must be >= 2 and L must be >=
// len(anchors).
func Build(anchors []color.Color, length int) ([]color.Color, error) {
	m := len(anchors)
	if m < 2 {
		return nil, fmt.Errorf("%w: gradient needs at least 2 anchor colors, got %d", ledscript.ErrShape, m)
	}
	if length < m {
		return nil, fmt.Errorf("%w: gradient target length %d shorter than %d anchors", ledscript.ErrInputRange, length, m)
	}

	gaps := m - 1
	extraTotal := length - m
	per := extraTotal / gaps
	rem := extraTotal % gaps

	// Every gap gets a baseline span of 1 pixel (so consecutive anchors
	// never collide on the same breakpoint), plus its even share of
	// extraTotal, plus one more if it's among the first rem gaps counted
	// in from alternating ends — the symmetric-from-both-ends placement
	// spec §4.5 calls for.
	extra := make([]int, gaps)
	lo, hi := 0, gaps-1
	for i := 0; i < rem; i++ {
		if i%2 == 0 {
			extra[lo] = 1
			lo++
		} else {
			extra[hi] = 1
			hi--
		}
	}

	bk := make([]int, m)
	for i := 0; i < gaps; i++ {
		bk[i+1] = bk[i] + 1 + per + extra[i]
	}

	out := make([]color.Color, length)
	for k := 0; k < gaps; k++ {
		span := bk[k+1] - bk[k]
		c0, c1 := anchors[k], anchors[k+1]
		for x := 0; x <= span; x++ {
			out[bk[k]+x] = lerp(c0, c1, x, span)
		}
	}
	out[length-1] = anchors[m-1]

	return out, nil
}

// lerp interpolates each channel of c0 toward c1 at step x of span,
// flooring per channel as the source does.
func lerp(c0, c1 color.Color, x, span int) color.Color {
	return color.Color{
		R: lerpChannel(c0.R, c1.R, x, span),
		G: lerpChannel(c0.G, c1.G, x, span),
		B: lerpChannel(c0.B, c1.B, x, span),
		L: lerpChannel(c0.L, c1.L, x, span),
	}
}

// lerpChannel mirrors original_source/neopixel2.py's rounding exactly:
// divide by span before multiplying by x, and truncate once at the very
// end, rather than truncating the intermediate per-step delta.
func lerpChannel(a, b uint8, x, span int) uint8 {
	v := float64(a) + float64(int(b)-int(a))/float64(span)*float64(x)
	return uint8(v)
}
