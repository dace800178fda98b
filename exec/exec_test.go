package exec_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/becuri/ledscript/color"
	"github.com/becuri/ledscript/exec"
	"github.com/becuri/ledscript/instr"
	"github.com/becuri/ledscript/mirror"
	"github.com/becuri/ledscript/strip"
)

func TestRunSetAndShow(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(3)
	s := strip.NewMock(3)
	in := exec.New(m, s, exec.WithClock(exec.NewFrozenClock()))

	red := color.Color{R: 255, L: 100}
	in.Run([]instr.Instruction{
		{Kind: instr.KindSet, Index: 0, Color: red},
		{Kind: instr.KindShow},
	})

	c.Assert(in.Color(0), qt.Equals, red)      // the logical mirror keeps program state
	c.Assert(s.Color(0), qt.Equals, color.Black) // the physical strip is blanked on exit
	c.Assert(s.Shows() >= 2, qt.IsTrue)         // the program's Show plus the exit blank's Show
}

func TestRunNestedRepeatSleepsExpectedRealSeconds(t *testing.T) {
	c := qt.New(t)

	// section(); set_multiplier(0.5); sleep(2 program-seconds, already baked
	// to 1.0s at M=0.5 by the encoder); repeat(3): spec scenario 3 — three
	// iterations of exactly 1.0s each, 3.0s total real sleep.
	m := mirror.New(1)
	s := strip.NewMock(1)

	clk := &recordingClock{}
	in := exec.New(m, s, exec.WithClock(clk))

	prog := []instr.Instruction{
		{Kind: instr.KindSection},
		{Kind: instr.KindSetSpeed, SpeedMilli: 500},
		{Kind: instr.KindSleep, Sleep: instr.SleepState{Remaining: 1.0, Reload: 1.0}},
		{Kind: instr.KindRepeat, Repeat: instr.RepeatState{Remaining: 3, Reload: 3}},
		{Kind: instr.KindEndSection},
	}
	in.Run(prog)

	var total time.Duration
	for _, d := range clk.slept {
		total += d
	}
	c.Assert(total, qt.Equals, 3*time.Second)
}

func TestRunEndSectionRestoresSpeedForSiblingSleep(t *testing.T) {
	c := qt.New(t)

	// section(); set_speed(0.25); end_section(); sleep(3.0) — the section's
	// speed change must not survive past its EndSection, so the trailing
	// sleep runs at the restored M=1 and chunks into three separate 1s
	// real-time slices (v=rem*speed>=1 on each of the first three ticks).
	// If speed instead leaked at 0.25, v=3*0.25=0.75<1 the whole way and
	// the sleep would drain in a single unchunked real-time slice.
	m := mirror.New(1)
	s := strip.NewMock(1)
	clk := &recordingClock{}
	in := exec.New(m, s, exec.WithClock(clk))

	prog := []instr.Instruction{
		{Kind: instr.KindSection},
		{Kind: instr.KindSetSpeed, SpeedMilli: 250},
		{Kind: instr.KindEndSection},
		{Kind: instr.KindSleep, Sleep: instr.SleepState{Remaining: 3.0, Reload: 3.0}},
	}
	in.Run(prog)

	c.Assert(clk.slept, qt.HasLen, 3)
	for _, d := range clk.slept {
		c.Assert(d, qt.Equals, time.Second)
	}
}

func TestRunSetOutOfRangeIndexDoesNotPanic(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(2)
	s := strip.NewMock(2)
	in := exec.New(m, s, exec.WithClock(exec.NewFrozenClock()))

	red := color.Color{R: 255, L: 100}
	in.Run([]instr.Instruction{
		{Kind: instr.KindSet, Index: 9, Color: red}, // off the end of a 2-pixel mirror
		{Kind: instr.KindSet, Index: 0, Color: red},
	})

	// the bad instruction is skipped, not fatal: the next valid one still runs.
	c.Assert(in.Color(0), qt.Equals, red)
}

func TestRunMoveUpOutOfRangeSpanDoesNotPanic(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(2)
	s := strip.NewMock(2)
	in := exec.New(m, s, exec.WithClock(exec.NewFrozenClock()))

	red := color.Color{R: 255, L: 100}
	in.Run([]instr.Instruction{
		{Kind: instr.KindMoveUp, Move: instr.Move{Lo: 0, Hi: 9, Spaces: 1}}, // hi past the end
		{Kind: instr.KindSet, Index: 0, Color: red},
	})

	c.Assert(in.Color(0), qt.Equals, red)
}

func TestRunMoveUpTrailReplicatesHead(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(5)
	s := strip.NewMock(5)
	in := exec.New(m, s, exec.WithClock(exec.NewFrozenClock()))

	red := color.Color{R: 255, L: 100}
	black := color.Color{L: 100}
	in.Run([]instr.Instruction{
		{Kind: instr.KindFill, Color: black},
		{Kind: instr.KindSet, Index: 0, Color: red},
		{Kind: instr.KindMoveUp, Move: instr.Move{Lo: 0, Hi: 4, Spaces: 2, Trail: true}},
	})

	// The mirror survives Run's exit-time blank (only the physical strip is
	// blanked), so the move's effect on logical state is observable here —
	// spec scenario 6's expected layout.
	want := []color.Color{red, red, red, black, black}
	for i, w := range want {
		c.Assert(m.Color(i), qt.Equals, w)
	}
}

func TestRunStopTerminatesPromptly(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(1)
	s := strip.NewMock(1)
	clk := &recordingClock{}
	flag := &exec.StopFlag{}
	in := exec.New(m, s, exec.WithClock(clk), exec.WithStopFlag(flag))

	flag.Stop()
	in.Run([]instr.Instruction{
		{Kind: instr.KindSleep, Sleep: instr.SleepState{Remaining: 100, Reload: 100}},
	})

	c.Assert(len(clk.slept), qt.Equals, 0)
}

func TestRunRespectsTestTimeCap(t *testing.T) {
	c := qt.New(t)

	m := mirror.New(1)
	s := strip.NewMock(1)
	clk := &steppingClock{step: 2 * time.Second}
	in := exec.New(m, s, exec.WithClock(clk), exec.WithTestMode(), exec.WithTestTime(3*time.Second))

	// An instruction list long enough that the cap, not completion, ends Run.
	prog := make([]instr.Instruction, 0, 50)
	for i := 0; i < 50; i++ {
		prog = append(prog, instr.Instruction{Kind: instr.KindShow})
	}
	in.Run(prog)

	c.Assert(s.Shows() < 50, qt.IsTrue)
}

// recordingClock never advances wall time but records every requested sleep
// duration, so tests can assert on total/slice durations without waiting.
type recordingClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *recordingClock) Now() time.Time { return c.now }

func (c *recordingClock) Sleep(d time.Duration) { c.slept = append(c.slept, d) }

// steppingClock advances Now() by a fixed step every call, modeling elapsed
// wall time for runtime-cap tests without a real clock.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *steppingClock) Sleep(time.Duration) {}
