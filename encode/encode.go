// Package encode implements the compiler (spec §4.2): the public surface a
// program author drives to build an opcode stream, with every emission
// immediately replayed through an embedded mock executor (spec §9's
// PixelMirror feedback loop) so relative operations and read-backs see
// exactly what a live run would.
package encode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/codec"
	"github.com/becuri/ledscript/color"
	"github.com/becuri/ledscript/decode"
	"github.com/becuri/ledscript/exec"
	"github.com/becuri/ledscript/gradient"
	"github.com/becuri/ledscript/instr"
	"github.com/becuri/ledscript/mirror"
	"github.com/becuri/ledscript/opcode"
	"github.com/becuri/ledscript/strip"
)

const (
	defaultAccelStep  = 0.005
	maxProgramSeconds = 180
)

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithLogger installs a verbose-tracing hook. The default is ledscript.NopLogger.
func WithLogger(log ledscript.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// Compiler accumulates an opcode stream for a strip of n pixels. It is not
// safe for concurrent use — the same invariant as the mock executor it
// drives internally.
type Compiler struct {
	n   int
	buf []byte

	prog   []instr.Instruction
	mirror mirror.Mirror
	mock   *strip.Mock
	interp *exec.Interpreter

	stackSleep []int
	warnings   map[string]struct{}

	log ledscript.Logger
}

// New creates a Compiler targeting a strip of n pixels.
func New(n int, opts ...Option) *Compiler {
	m := mirror.New(n)
	mock := strip.NewMock(n)
	c := &Compiler{
		n:          n,
		mirror:     m,
		mock:       mock,
		stackSleep: []int{0},
		warnings:   map[string]struct{}{},
		log:        ledscript.NopLogger,
	}
	c.interp = exec.New(m, mock, exec.WithClock(exec.NewFrozenClock()))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Color reads back the current logical color at i, as the mock feedback
// loop has computed it from every emission so far.
func (c *Compiler) Color(i int) color.Color { return c.interp.Color(i) }

// Set emits SET: pixels[i] = color, after validating i and promoting a
// 3-tuple to 4 (spec §4.2 "set").
func (c *Compiler) Set(i int, v ...int) error {
	if i < 0 || i >= c.n {
		return fmt.Errorf("%w: pixel index %d out of range [0,%d)", ledscript.ErrInputRange, i, c.n)
	}
	col, err := color.FromTuple(v)
	if err != nil {
		return err
	}
	return c.emit(append([]byte{byte(opcode.SET), byte(i)}, colorBytes(col)...))
}

// Fill emits FILL: every pixel set to the same color.
func (c *Compiler) Fill(v ...int) error {
	col, err := color.FromTuple(v)
	if err != nil {
		return err
	}
	return c.emit(append([]byte{byte(opcode.FILL)}, colorBytes(col)...))
}

// Sleep emits SLEEP, converting program seconds to wire milliseconds at the
// current speed multiplier (spec §4.2 "sleep").
func (c *Compiler) Sleep(seconds float64) error {
	if seconds < 0 || seconds > 60 {
		return fmt.Errorf("%w: sleep seconds must be in [0,60], got %v", ledscript.ErrInputRange, seconds)
	}
	ms := c.sleepMillis(seconds)
	buf := make([]byte, 3)
	buf[0] = byte(opcode.SLEEP)
	binary.BigEndian.PutUint16(buf[1:], uint16(ms&0xffff))
	return c.emit(buf)
}

// Show emits SHOW, or SHOW_AND_SLEEP when a sleep duration is given (spec
// §4.2 "show").
func (c *Compiler) Show(sleepSeconds ...float64) error {
	if len(sleepSeconds) == 0 {
		return c.emit([]byte{byte(opcode.SHOW)})
	}
	s := sleepSeconds[0]
	if s < 0 || s > 60 {
		return fmt.Errorf("%w: sleep seconds must be in [0,60], got %v", ledscript.ErrInputRange, s)
	}
	ms := c.sleepMillis(s)
	buf := make([]byte, 3)
	buf[0] = byte(opcode.SHOW_AND_SLEEP)
	binary.BigEndian.PutUint16(buf[1:], uint16(ms&0xffff))
	return c.emit(buf)
}

// sleepMillis computes ceil(seconds*1000*M) and folds it into the running
// program-duration total tracked for save()'s warnings.
func (c *Compiler) sleepMillis(seconds float64) int {
	m := c.interp.TopSpeed()
	ms := int(math.Ceil(seconds * 1000 * m))
	top := len(c.stackSleep) - 1
	c.stackSleep[top] += ms
	return ms
}

// Section emits SECTION, opening a loop body's scope.
func (c *Compiler) Section() error {
	c.stackSleep = append(c.stackSleep, 0)
	return c.emit([]byte{byte(opcode.SECTION)})
}

// Repeat emits REPEAT(times), closing the most recently opened Section and
// folding its accumulated sleep time into the parent scope (spec §4.2
// "repeat", §9 resolved merge-timing: folding happens after the opcode is
// written).
func (c *Compiler) Repeat(times int) error {
	if times < 1 || times > 0xffff {
		return fmt.Errorf("%w: repeat count must be in [1,%d], got %d", ledscript.ErrInputRange, 0xffff, times)
	}
	buf := make([]byte, 3)
	buf[0] = byte(opcode.REPEAT)
	binary.BigEndian.PutUint16(buf[1:], uint16(times))
	if err := c.emit(buf); err != nil {
		return err
	}
	c.foldSleep(times)
	return nil
}

// foldSleep implements _merge_sleep_time: the body just closed runs times
// total times, so its accumulated sleep folds into the parent scope
// multiplied by times — not times+1, correcting the source's off-by-one so
// the total matches what the executor actually plays back (spec §8
// invariant 3).
func (c *Compiler) foldSleep(times int) {
	n := len(c.stackSleep)
	if n > 1 {
		top := c.stackSleep[n-1]
		c.stackSleep = c.stackSleep[:n-1]
		c.stackSleep[n-2] += top * times
		return
	}
	c.stackSleep[0] *= times
}

// Accelerate speeds playback up by decreasing the current multiplier by
// step (default 0.005), rejecting an over-acceleration that would drive it
// to zero or below (spec §4.2, §7 ResourceExhausted).
func (c *Compiler) Accelerate(step ...float64) error {
	d := defaultAccelStep
	if len(step) > 0 {
		d = step[0]
	}
	next := c.interp.TopSpeed() - d
	if next <= 0 {
		return fmt.Errorf("%w: accelerate would drive the speed multiplier to %v", ledscript.ErrResourceExhausted, next)
	}
	return c.setSpeed(next)
}

// Decelerate slows playback down by increasing the current multiplier by
// step (default 0.005).
func (c *Compiler) Decelerate(step ...float64) error {
	d := defaultAccelStep
	if len(step) > 0 {
		d = step[0]
	}
	next := c.interp.TopSpeed() + d
	if next >= 100 {
		return fmt.Errorf("%w: decelerate would drive the speed multiplier to %v", ledscript.ErrInputRange, next)
	}
	return c.setSpeed(next)
}

// SetMultiplier sets the speed multiplier directly; m must lie in (0,100).
func (c *Compiler) SetMultiplier(m float64) error {
	if m <= 0 || m >= 100 {
		return fmt.Errorf("%w: speed multiplier must be in (0,100), got %v", ledscript.ErrInputRange, m)
	}
	return c.setSpeed(m)
}

// ResetSpeed emits RESET_SPEED, returning the current scope's multiplier to 1.
func (c *Compiler) ResetSpeed() error {
	return c.emit([]byte{byte(opcode.RESET_SPEED)})
}

func (c *Compiler) setSpeed(m float64) error {
	milli := int(math.Ceil(m * 1000))
	buf := make([]byte, 3)
	buf[0] = byte(opcode.SET_SPEED)
	binary.BigEndian.PutUint16(buf[1:], uint16(milli))
	return c.emit(buf)
}

// MoveUp emits MOVE_UP over [lo,hi]; hi<0 defaults to the last pixel index.
func (c *Compiler) MoveUp(lo, hi, spaces int, trail, rotate, show bool) error {
	return c.move(opcode.MOVE_UP, lo, hi, spaces, trail, rotate, show)
}

// MoveDown emits MOVE_DOWN, symmetric with MoveUp.
func (c *Compiler) MoveDown(lo, hi, spaces int, trail, rotate, show bool) error {
	return c.move(opcode.MOVE_DOWN, lo, hi, spaces, trail, rotate, show)
}

func (c *Compiler) move(tag opcode.Tag, lo, hi, spaces int, trail, rotate, show bool) error {
	if hi < 0 {
		hi = c.n - 1
	}
	if lo < 0 || lo >= c.n {
		return fmt.Errorf("%w: lower bound %d out of range [0,%d)", ledscript.ErrInputRange, lo, c.n)
	}
	if hi < 0 || hi >= c.n {
		return fmt.Errorf("%w: upper bound %d out of range [0,%d)", ledscript.ErrInputRange, hi, c.n)
	}
	if trail && rotate {
		return fmt.Errorf("%w: trail and rotate cannot both be set", ledscript.ErrConflict)
	}
	if spaces < 0 || spaces > c.n {
		return fmt.Errorf("%w: spaces %d out of range [0,%d]", ledscript.ErrInputRange, spaces, c.n)
	}
	flags := opcode.NewMoveFlags(trail, rotate, show)
	return c.emit([]byte{byte(tag), byte(lo), byte(hi), byte(spaces), byte(flags)})
}

// SetGradient builds a gradient.Build over [lo,hi] from the given anchor
// colors (each a 3- or 4-element tuple) and emits it as one SET_MULTIPLE.
func (c *Compiler) SetGradient(lo, hi int, colors [][]int) error {
	if hi < 0 {
		hi = c.n - 1
	}
	if lo < 0 || lo >= c.n || hi < 0 || hi >= c.n {
		return fmt.Errorf("%w: gradient bounds [%d,%d] out of range [0,%d)", ledscript.ErrInputRange, lo, hi, c.n)
	}
	anchors := make([]color.Color, len(colors))
	for i, v := range colors {
		col, err := color.FromTuple(v)
		if err != nil {
			return err
		}
		anchors[i] = col
	}
	grad, err := gradient.Build(anchors, hi-lo+1)
	if err != nil {
		return err
	}
	buf := append([]byte{byte(opcode.SET_MULTIPLE)}, byte(len(grad)))
	for i, col := range grad {
		buf = append(buf, byte(lo+i))
		buf = append(buf, colorBytes(col)...)
	}
	return c.emit(buf)
}

// Dim lowers pixel i's brightness by v, reading the current value from the
// mock mirror so the arithmetic reflects every emission so far.
func (c *Compiler) Dim(i, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: dim value must be a positive integer, got %d", ledscript.ErrInputRange, v)
	}
	cur := int(c.clampedColor(i).L)
	next := cur - v
	if next < 0 {
		return fmt.Errorf("%w: dimming pixel %d by %d would give brightness %d", ledscript.ErrInputRange, i, v, next)
	}
	return c.setBrightness(i, uint8(next))
}

// Brighten raises pixel i's brightness by v.
func (c *Compiler) Brighten(i, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: brighten value must be a positive integer, got %d", ledscript.ErrInputRange, v)
	}
	cur := int(c.clampedColor(i).L)
	next := cur + v
	if next > 100 {
		return fmt.Errorf("%w: brightening pixel %d by %d would give brightness %d", ledscript.ErrInputRange, i, v, next)
	}
	return c.setBrightness(i, uint8(next))
}

// SetBrightness sets pixel i's brightness directly; v must lie in [0,100].
func (c *Compiler) SetBrightness(i, v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: brightness for pixel %d must be in [0,100], got %d", ledscript.ErrInputRange, i, v)
	}
	return c.setBrightness(i, uint8(v))
}

func (c *Compiler) clampedColor(i int) color.Color {
	if i < 0 || i >= c.n {
		return color.Black
	}
	return c.interp.Color(i)
}

func (c *Compiler) setBrightness(i int, l uint8) error {
	if i < 0 || i >= c.n {
		return fmt.Errorf("%w: pixel index %d out of range [0,%d)", ledscript.ErrInputRange, i, c.n)
	}
	return c.emit([]byte{byte(opcode.SET_BRIGHTNESS), byte(i), l})
}

// Result is Save's summary: the warnings accumulated over the program's
// lifetime and the total sleep duration the executor is expected to play
// back, in milliseconds.
type Result struct {
	Warnings         []string
	TotalSleepMillis int
}

// Save finalizes the program: checks for unclosed sections and degenerate
// or over-long total duration, compresses the opcode stream (deflate,
// level 9) and writes it to w (spec §4.2 "save", §6 on-disk artifact).
func (c *Compiler) Save(w io.Writer) (*Result, error) {
	if len(c.stackSleep) > 1 {
		c.warn("Sections started but not finished")
	}
	total := 0
	for _, t := range c.stackSleep {
		total += t
	}
	if total == 0 {
		c.warn("Program time is zero!")
	}
	if total > maxProgramSeconds*1000 {
		c.warn("Animations are capped at 3 mins, while yours exceeds that threshold")
	}

	compressed := codec.Compress(c.buf)
	if _, err := w.Write(compressed); err != nil {
		return nil, err
	}
	res := &Result{Warnings: c.warningList(), TotalSleepMillis: total}
	for _, warning := range res.Warnings {
		c.log("warning: %s", warning)
	}
	return res, nil
}

func (c *Compiler) warn(msg string) { c.warnings[msg] = struct{}{} }

func (c *Compiler) warningList() []string {
	out := make([]string, 0, len(c.warnings))
	for w := range c.warnings {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// emit appends one instruction's raw bytes to the stream, decodes that
// suffix back into typed instructions, and replays them through the
// embedded mock executor (spec §4.2 "mock feedback loop", §9 PixelMirror).
func (c *Compiler) emit(raw []byte) error {
	ins, err := decode.Decode(raw)
	if err != nil {
		return err
	}
	from := len(c.prog)
	c.prog = append(c.prog, ins...)
	c.buf = append(c.buf, raw...)
	c.interp.Feed(c.prog, from)
	return nil
}

func colorBytes(c color.Color) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], c.Encode())
	return b[:]
}
