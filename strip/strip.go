// Package strip defines the narrow physical-driver contract spec §6
// names: set(i, rgb), fill(rgb), show(), len(). It is deliberately small —
// the actual LED technology (the ws2812 adapter or the in-memory Mock)
// lives behind this one interface. The statuspanel e-paper display is not
// a Strip; it receives progress through exec.StatusSink instead.
package strip

import (
	"fmt"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/color"
)

// Strip is the hardware (or hardware-shaped) collaborator the executor
// drives. Implementations apply the gamma curve themselves — Set and Fill
// here take the logical Color, not the physical triple, so every
// implementation sees the same l channel and decides how to render it.
type Strip interface {
	Set(i int, c color.Color) error
	Fill(c color.Color)
	Show()
	Len() int
}

// Mock is an in-memory Strip used by the compiler's mock feedback loop and
// by tests: it performs no physical I/O and never blocks.
type Mock struct {
	pixels []color.Color
	shows  int
}

// NewMock allocates a Mock strip of n pixels, all black.
func NewMock(n int) *Mock {
	return &Mock{pixels: make([]color.Color, n)}
}

func (s *Mock) Set(i int, c color.Color) error {
	if i < 0 || i >= len(s.pixels) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ledscript.ErrInputRange, i, len(s.pixels))
	}
	s.pixels[i] = c
	return nil
}

func (s *Mock) Fill(c color.Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

func (s *Mock) Show() { s.shows++ }

func (s *Mock) Len() int { return len(s.pixels) }

// Color reads back pixel i, for assertions in tests.
func (s *Mock) Color(i int) color.Color { return s.pixels[i] }

// Shows reports how many times Show has been called, for assertions in
// tests.
func (s *Mock) Shows() int { return s.shows }
