// Package exec implements the executor (spec §4.4): the state machine that
// walks a decoded instruction list against a mirror.Mirror and a
// strip.Strip, identically whether the strip is real hardware or a mock —
// the only difference is whether Show/Set/Fill ever touch a wire.
package exec

import (
	"time"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/color"
	"github.com/becuri/ledscript/instr"
	"github.com/becuri/ledscript/mirror"
	"github.com/becuri/ledscript/strip"
)

// Default wall-clock caps (spec §5). TestMode swaps Runtime's effective
// value to TestTime so a test program can't hang a real test run.
const (
	defaultTestTime = 40 * time.Second
	defaultRuntime  = 180 * time.Second
)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithLogger installs a verbose-tracing hook. The default is ledscript.NopLogger.
func WithLogger(log ledscript.Logger) Option {
	return func(in *Interpreter) { in.log = log }
}

// WithClock overrides the wall clock. The default is exec.RealClock{}.
func WithClock(clk Clock) Option {
	return func(in *Interpreter) { in.clock = clk }
}

// WithTestMode runs under the shorter test_time cap instead of runtime.
func WithTestMode() Option {
	return func(in *Interpreter) { in.testMode = true }
}

// WithTestTime overrides the test-mode cap.
func WithTestTime(d time.Duration) Option {
	return func(in *Interpreter) { in.testTime = d }
}

// WithRuntime overrides the production cap.
func WithRuntime(d time.Duration) Option {
	return func(in *Interpreter) { in.runtime = d }
}

// WithStopFlag installs a StopFlag a caller can reach from another
// goroutine to cancel an in-flight Run. The default allocates a private one.
func WithStopFlag(f *StopFlag) Option {
	return func(in *Interpreter) { in.stop = f }
}

// StatusSink receives the executor's position in the program currently
// playing, once per instruction boundary. statuspanel.Panel implements
// this so a physical status display can track playback without the
// executor importing anything about how that status is rendered.
type StatusSink interface {
	Update(pc, total int)
}

// WithStatusSink installs a StatusSink that Run reports pc/total to as it
// steps through a program. The default is nil: no status is reported.
func WithStatusSink(sink StatusSink) Option {
	return func(in *Interpreter) { in.status = sink }
}

// Interpreter is the executor state machine of spec §4.4. One Interpreter
// drives one Mirror and one Strip; Run consumes a decoded program start to
// finish, applying every instruction to both.
type Interpreter struct {
	mirror mirror.Mirror
	strip  strip.Strip

	log      ledscript.Logger
	clock    Clock
	stop     *StopFlag
	status   StatusSink
	testMode bool
	testTime time.Duration
	runtime  time.Duration

	sections []instr.SectionFrame
	speed    float64
}

// New builds an Interpreter over the given mirror and strip. mirror and
// strip must agree on pixel count; Run does not itself check this since it
// is the caller's wiring mistake to catch, not a runtime condition.
func New(m mirror.Mirror, s strip.Strip, opts ...Option) *Interpreter {
	in := &Interpreter{
		mirror:   m,
		strip:    s,
		log:      ledscript.NopLogger,
		clock:    RealClock{},
		stop:     &StopFlag{},
		testTime: defaultTestTime,
		runtime:  defaultRuntime,
		speed:    1,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Stop requests cancellation of the in-flight (or next) Run. Safe to call
// from another goroutine.
func (in *Interpreter) Stop() { in.stop.Stop() }

// TopSpeed reports the multiplier currently in effect: 1 until a SET_SPEED
// changes it, at any depth including outside every section. The compiler's mock feedback loop reads this to
// compute sleep()'s ms payload without maintaining a second speed stack.
func (in *Interpreter) TopSpeed() float64 { return in.speed }

// Color reads back the mirror's current logical color at i.
func (in *Interpreter) Color(i int) color.Color { return in.mirror.Color(i) }

// cap returns the wall-clock budget for the current mode.
func (in *Interpreter) cap() time.Duration {
	if in.testMode {
		return in.testTime
	}
	return in.runtime
}

// Run executes prog start to finish against in's mirror and strip, honoring
// cancellation and the runtime cap. The strip is blanked on every exit path
// (spec §4.4 step 5, §7).
func (in *Interpreter) Run(prog []instr.Instruction) {
	defer in.blank()

	in.sections = in.sections[:0]
	in.speed = 1
	start := in.clock.Now()

	pc := 0
	for pc < len(prog) {
		ins := &prog[pc]

		if ins.Kind == instr.KindSection {
			in.sections = append(in.sections, instr.SectionFrame{
				ReturnPC:      pc + 1,
				Speed:         in.speed,
				ColorSnapshot: in.mirror.Snapshot(),
			})
			pc++
			continue
		}
		if ins.Kind == instr.KindEndSection {
			n := len(in.sections)
			frame := in.sections[n-1]
			in.sections = in.sections[:n-1]
			in.speed = frame.Speed
			pc++
			continue
		}

		if in.stop.Stopped() {
			in.log("run: stopped")
			return
		}
		if in.clock.Now().Sub(start) > in.cap() {
			in.log("run: runtime cap exceeded")
			return
		}
		if in.status != nil {
			in.status.Update(pc, len(prog))
		}

		advance := in.step(ins, &pc)
		if advance {
			pc++
		}
	}
}

// Feed drives prog[from:] against in's mirror and strip without resetting
// section/speed state and without stop/runtime-cap checks. It is how the
// compiler's embedded mock interpreter replays each new emission (spec §4.2
// "mock feedback loop"): prog is the compiler's whole instruction list so
// far, which keeps growing, so a REPEAT fed here can still jump back into
// indices an earlier Feed call already executed.
func (in *Interpreter) Feed(prog []instr.Instruction, from int) {
	pc := from
	for pc < len(prog) {
		ins := &prog[pc]

		if ins.Kind == instr.KindSection {
			in.sections = append(in.sections, instr.SectionFrame{
				ReturnPC:      pc + 1,
				Speed:         in.speed,
				ColorSnapshot: in.mirror.Snapshot(),
			})
			pc++
			continue
		}
		if ins.Kind == instr.KindEndSection {
			n := len(in.sections)
			frame := in.sections[n-1]
			in.sections = in.sections[:n-1]
			in.speed = frame.Speed
			pc++
			continue
		}

		if in.step(ins, &pc) {
			pc++
		}
	}
}

// step dispatches one instruction and reports whether the caller should
// advance pc. Sleep and Repeat sometimes re-enter in place, in which case
// step itself has already adjusted pc and returns false.
func (in *Interpreter) step(ins *instr.Instruction, pc *int) bool {
	switch ins.Kind {
	case instr.KindSet:
		i := int(ins.Index)
		if !in.inRange(i) {
			in.log("run: set index %d out of range [0,%d)", i, in.mirror.Len())
			return true
		}
		in.mirror.Set(i, ins.Color)
		in.setHardware(i, ins.Color)
		return true

	case instr.KindFill:
		in.mirror.Fill(ins.Color)
		in.strip.Fill(ins.Color)
		return true

	case instr.KindSleep:
		return in.sleep(ins)

	case instr.KindShow:
		in.strip.Show()
		return true

	case instr.KindMoveUp:
		in.moveUp(ins.Move)
		return true

	case instr.KindMoveDown:
		in.moveDown(ins.Move)
		return true

	case instr.KindRepeat:
		return in.repeat(ins, pc)

	case instr.KindSetMultiple:
		for _, e := range ins.Multiple {
			i := int(e.Index)
			if !in.inRange(i) {
				in.log("run: set_multiple index %d out of range [0,%d)", i, in.mirror.Len())
				continue
			}
			in.mirror.Set(i, e.Color)
			in.setHardware(i, e.Color)
		}
		return true

	case instr.KindSetSpeed:
		in.speed = float64(ins.SpeedMilli) / 1000
		return true

	case instr.KindResetSpeed:
		in.speed = 1
		return true

	case instr.KindSetBrightness:
		i := int(ins.Index)
		if !in.inRange(i) {
			in.log("run: set_brightness index %d out of range [0,%d)", i, in.mirror.Len())
			return true
		}
		c := in.mirror.Color(i)
		c.L = ins.Brightness
		in.mirror.Set(i, c)
		in.setHardware(i, c)
		return true

	default:
		in.log("run: unreachable instruction kind %d, skipping", ins.Kind)
		return true
	}
}

// sleep implements the SLEEP chunking rule of spec §4.4: sleep at most one
// real second per step so Stop and the runtime cap are observed within
// roughly that latency, draining the remaining duration scaled by the
// current speed multiplier.
func (in *Interpreter) sleep(ins *instr.Instruction) (advance bool) {
	rem := ins.Sleep.Remaining
	v := rem * in.speed
	switch {
	case v >= 1:
		in.clock.Sleep(time.Second)
		ins.Sleep.Remaining = rem - in.speed
		return false
	case v > 0:
		in.clock.Sleep(time.Duration(rem * float64(time.Second)))
		ins.Sleep.Remaining = ins.Sleep.Reload
		return true
	default:
		ins.Sleep.Remaining = ins.Sleep.Reload
		return true
	}
}

// repeat implements REPEAT's rewind (spec §4.4): on a remaining iteration,
// jump back to the section's first instruction, restore the pixel buffer
// to its state at SECTION entry, reset this frame's speed to its pre-loop
// value, and do not advance past the Repeat instruction itself.
func (in *Interpreter) repeat(ins *instr.Instruction, pc *int) (advance bool) {
	if ins.Repeat.Remaining-1 > 0 {
		ins.Repeat.Remaining--
		frame := in.sections[len(in.sections)-1]
		*pc = frame.ReturnPC
		in.mirror.Restore(frame.ColorSnapshot)
		in.pushHardware(frame.ColorSnapshot)
		in.speed = frame.Speed
		return false
	}
	ins.Repeat.Remaining = ins.Repeat.Reload
	return true
}

// moveUp implements MOVE_UP (spec §4.4): shift the [lo,hi] span up by sp
// positions (toward higher indices), filling the vacated head with the rotated tail, a replicated
// first pixel, or black, per trail/rotate.
func (in *Interpreter) moveUp(m instr.Move) {
	lo, hi, sp := int(m.Lo), int(m.Hi), int(m.Spaces)
	if !in.spanInRange(lo, hi) {
		in.log("run: move_up span [%d,%d] out of range [0,%d)", lo, hi, in.mirror.Len())
		return
	}
	v := in.span(lo, hi)
	n := len(v)
	if sp > n {
		sp = n
	}

	var prefix []color.Color
	switch {
	case m.Rotate:
		prefix = append([]color.Color{}, v[n-sp:]...)
	case m.Trail:
		prefix = repeatColor(v[0], sp)
	default:
		prefix = repeatColor(color.Black, sp)
	}
	next := append(prefix, v[:n-sp]...)
	in.writeSpan(lo, next)
	if m.Show {
		in.strip.Show()
	}
}

// moveDown implements MOVE_DOWN, symmetric with moveUp: shift the span down
// by sp (toward lower indices), filling the vacated tail. The rotate case here mirrors moveUp's —
// the wraparound segment, not a duplicate of the shifted suffix.
func (in *Interpreter) moveDown(m instr.Move) {
	lo, hi, sp := int(m.Lo), int(m.Hi), int(m.Spaces)
	if !in.spanInRange(lo, hi) {
		in.log("run: move_down span [%d,%d] out of range [0,%d)", lo, hi, in.mirror.Len())
		return
	}
	v := in.span(lo, hi)
	n := len(v)
	if sp > n {
		sp = n
	}

	var suffix []color.Color
	switch {
	case m.Rotate:
		suffix = append([]color.Color{}, v[:sp]...)
	case m.Trail:
		suffix = repeatColor(v[n-1], sp)
	default:
		suffix = repeatColor(color.Black, sp)
	}
	next := append(append([]color.Color{}, v[sp:]...), suffix...)
	in.writeSpan(lo, next)
	if m.Show {
		in.strip.Show()
	}
}

func repeatColor(c color.Color, n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// inRange reports whether i addresses a real pixel in the mirror. Wire-decoded
// indices come from an untrusted compiled program and are never re-validated
// against the mirror's actual size until execution, so the executor checks
// here rather than let a bad index panic the whole run.
func (in *Interpreter) inRange(i int) bool {
	return i >= 0 && i < in.mirror.Len()
}

func (in *Interpreter) spanInRange(lo, hi int) bool {
	return lo >= 0 && hi >= lo && hi < in.mirror.Len()
}

func (in *Interpreter) span(lo, hi int) []color.Color {
	out := make([]color.Color, hi-lo+1)
	for i := range out {
		out[i] = in.mirror.Color(lo + i)
	}
	return out
}

func (in *Interpreter) writeSpan(lo int, v []color.Color) {
	for i, c := range v {
		in.mirror.Set(lo+i, c)
		in.setHardware(lo+i, c)
	}
}

func (in *Interpreter) setHardware(i int, c color.Color) {
	if err := in.strip.Set(i, c); err != nil {
		in.log("run: strip set %d: %v", i, err)
	}
}

func (in *Interpreter) pushHardware(snapshot []color.Color) {
	for i, c := range snapshot {
		in.setHardware(i, c)
	}
}

// blank fills the strip black and shows it, unconditionally, on every Run
// exit path (spec §4.4 step 5, §7): normal completion, stop, timeout, or an
// unreachable-instruction fallthrough.
func (in *Interpreter) blank() {
	in.strip.Fill(color.Black)
	in.strip.Show()
}
