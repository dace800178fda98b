package statuspanel_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/becuri/ledscript/exec"
	"github.com/becuri/ledscript/statuspanel"
)

// fakeSPI counts every SPI call and keeps a copy of each Tx payload without
// talking to real hardware, standing in for the board's SPI bus the way the
// teacher's own driver tests substitute a fake transport.
type fakeSPI struct {
	transfers int
	txCalls   int
	txData    [][]byte
}

func (f *fakeSPI) Transfer(w byte) (byte, error) {
	f.transfers++
	return 0, nil
}

func (f *fakeSPI) Tx(w, r []byte) error {
	f.txCalls++
	f.txData = append(f.txData, append([]byte(nil), w...))
	return nil
}

func newTestPanel() (*statuspanel.Panel, *fakeSPI) {
	bus := &fakeSPI{}
	dev := statuspanel.New(bus)
	dev.Configure(statuspanel.Config{})
	return statuspanel.NewPanel(&dev), bus
}

func TestShowProgressFillsProportionally(t *testing.T) {
	c := qt.New(t)

	panel, bus := newTestPanel()
	panel.Clear()
	panel.ShowProgress(5, 10)
	c.Assert(panel.Refresh(), qt.IsNil)

	// Display always issues two RAM writes (black plane, red plane) plus
	// the master-activation command; each of those touches the bus.
	c.Assert(bus.transfers > 0, qt.IsTrue)
	c.Assert(bus.txCalls >= 2, qt.IsTrue)

	// 5/10 of the 152-pixel-wide bar is 76 black pixels (bit 0 in the black
	// plane) followed by white (bit 1). A row is 152/8 = 19 bytes, so in
	// row 0 byte 0 is all black, byte 9 holds x=72..79 (four black, four
	// white) and byte 18 is all white.
	black := bus.txData[0]
	c.Assert(black[0], qt.Equals, byte(0x00))
	c.Assert(black[9], qt.Equals, byte(0x0f))
	c.Assert(black[18], qt.Equals, byte(0xff))
}

func TestUpdateImplementsStatusSink(t *testing.T) {
	panel, _ := newTestPanel()
	panel.Clear()

	// Update is exec.StatusSink's single method; the assignment checks the
	// interface at compile time, and the loop checks it doesn't panic
	// across a program's full pc range, including pc == total.
	var sink exec.StatusSink = panel
	for pc := 0; pc <= 10; pc++ {
		sink.Update(pc, 10)
	}
}

func TestShowWarningsTogglesRedStrip(t *testing.T) {
	c := qt.New(t)

	panel, bus := newTestPanel()
	panel.Clear()

	panel.ShowWarnings(nil)
	c.Assert(panel.Refresh(), qt.IsNil)
	clean := bus.txCalls

	panel.ShowWarnings([]string{"Program time is zero!"})
	c.Assert(panel.Refresh(), qt.IsNil)
	c.Assert(bus.txCalls > clean, qt.IsTrue)

	// The warning strip starts at row 12 (progress rows 0-7 plus a 4-row
	// gap); at 19 bytes a row its first byte is 12*19 = 228. Each Refresh
	// sends the black plane, then the red plane.
	const warningByte = 228
	c.Assert(bus.txData[1][warningByte], qt.Equals, byte(0x00))
	c.Assert(bus.txData[3][warningByte], qt.Equals, byte(0xff))
}
