// Package mirror implements the PixelMirror contract spec §9 recommends:
// a small interface that both the compiler's mock feedback loop and the
// live executor drive, so relative operations (dim/brighten) and read-back
// (pixels[i]) have one well-defined in-memory source of truth regardless
// of whether a physical strip is attached.
package mirror

import "github.com/becuri/ledscript/color"

// Mirror is the logical pixel buffer both the compiler and the executor
// read and write. Its methods never touch hardware or a clock; they
// are the pure bookkeeping half of what the executor also does against a
// strip.Strip.
type Mirror interface {
	// Set writes one pixel.
	Set(i int, c color.Color)
	// Fill writes every pixel to the same color.
	Fill(c color.Color)
	// Color reads back the current logical color at i.
	Color(i int) color.Color
	// Len reports the pixel count.
	Len() int
	// Snapshot returns a copy of the whole buffer, used to seed a
	// section's rewind state.
	Snapshot() []color.Color
	// Restore overwrites the whole buffer from a prior Snapshot.
	Restore(snapshot []color.Color)
}

// InMemory is the canonical Mirror implementation: a plain slice, no I/O.
// The compiler owns one instance to answer dim/brighten reads; the
// executor owns a separate instance that is also the authoritative
// original_color buffer driving hardware writes (spec §4.4).
type InMemory struct {
	pixels []color.Color
}

// New allocates an InMemory mirror of n pixels, all black.
func New(n int) *InMemory {
	return &InMemory{pixels: make([]color.Color, n)}
}

func (m *InMemory) Set(i int, c color.Color) { m.pixels[i] = c }

func (m *InMemory) Fill(c color.Color) {
	for i := range m.pixels {
		m.pixels[i] = c
	}
}

func (m *InMemory) Color(i int) color.Color { return m.pixels[i] }

func (m *InMemory) Len() int { return len(m.pixels) }

func (m *InMemory) Snapshot() []color.Color {
	out := make([]color.Color, len(m.pixels))
	copy(out, m.pixels)
	return out
}

func (m *InMemory) Restore(snapshot []color.Color) {
	copy(m.pixels, snapshot)
}
