package statuspanel

import "image/color"

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

const (
	progressRowTop    = 0
	progressRowHeight = 8
	warningRowTop     = progressRowTop + progressRowHeight + 4
	warningRowHeight  = 8
)

// Panel renders a compact run-status layout on top of Device: a progress
// bar tracking how far the executor is through the current program, and a
// warning strip that lights up red when the compiler collected any
// warnings for the program now playing.
type Panel struct {
	dev *Device
}

// NewPanel wraps an already-Configure'd Device.
func NewPanel(dev *Device) *Panel {
	return &Panel{dev: dev}
}

// Clear blanks the whole panel to white, ready for a fresh layout.
func (p *Panel) Clear() {
	p.dev.ClearBuffer()
}

// ShowProgress draws a black bar across the top rows proportional to
// pc/total, the executor's position in the current instruction list.
func (p *Panel) ShowProgress(pc, total int) {
	w, _ := p.dev.Size()
	filled := int16(0)
	if total > 0 {
		filled = int16(int(w) * pc / total)
		if filled > w {
			filled = w
		}
	}
	for y := int16(progressRowTop); y < progressRowTop+progressRowHeight; y++ {
		for x := int16(0); x < w; x++ {
			if x < filled {
				p.dev.SetPixel(x, y, black)
			} else {
				p.dev.SetPixel(x, y, white)
			}
		}
	}
}

// ShowWarnings lights the warning strip red when the compiler collected
// any warnings for the program now playing, white otherwise.
func (p *Panel) ShowWarnings(warnings []string) {
	w, _ := p.dev.Size()
	c := white
	if len(warnings) > 0 {
		c = red
	}
	for y := int16(warningRowTop); y < warningRowTop+warningRowHeight; y++ {
		for x := int16(0); x < w; x++ {
			p.dev.SetPixel(x, y, c)
		}
	}
}

// Refresh pushes the buffered layout to the physical panel.
func (p *Panel) Refresh() error {
	return p.dev.Display()
}

// Update implements exec.StatusSink: it redraws the progress bar for the
// instruction the executor is about to run. It only touches the buffer —
// callers decide how often the comparatively slow e-paper Refresh actually
// happens, rather than paying a full display cycle per instruction.
func (p *Panel) Update(pc, total int) {
	p.ShowProgress(pc, total)
}
