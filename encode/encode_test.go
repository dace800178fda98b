package encode_test

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/becuri/ledscript/codec"
	"github.com/becuri/ledscript/encode"
)

func TestSetAndShowProducesExactStream(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(3)
	c.Assert(comp.Set(0, 255, 0, 0), qt.IsNil)
	c.Assert(comp.Show(), qt.IsNil)

	var out bytes.Buffer
	_, err := comp.Save(&out)
	c.Assert(err, qt.IsNil)

	raw, err := codec.Decompress(out.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(raw, qt.DeepEquals, []byte{0x01, 0x00, 0xFF, 0x00, 0x00, 0x64, 0x04})
}

func TestFillAndSleepProducesExactStreamAndTotal(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(3)
	c.Assert(comp.Fill(0, 0, 0), qt.IsNil)
	c.Assert(comp.Sleep(0.5), qt.IsNil)

	var out bytes.Buffer
	res, err := comp.Save(&out)
	c.Assert(err, qt.IsNil)
	c.Assert(res.TotalSleepMillis, qt.Equals, 500)

	raw, err := codec.Decompress(out.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(raw, qt.DeepEquals, []byte{0x02, 0x00, 0x00, 0x00, 0x64, 0x03, 0x01, 0xF4})
}

func TestNestedRepeatTotalSleepMatchesActualPlayback(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(1)
	c.Assert(comp.Section(), qt.IsNil)
	c.Assert(comp.SetMultiplier(0.5), qt.IsNil)
	c.Assert(comp.Sleep(2), qt.IsNil)
	c.Assert(comp.Repeat(3), qt.IsNil)

	var out bytes.Buffer
	res, err := comp.Save(&out)
	c.Assert(err, qt.IsNil)
	// 3 iterations of a 1.0s real sleep each (spec scenario 3).
	c.Assert(res.TotalSleepMillis, qt.Equals, 3000)
	c.Assert(res.Warnings, qt.HasLen, 0)
}

func TestGradientEndpointsMatchAnchors(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(5)
	err := comp.SetGradient(0, 4, [][]int{{255, 0, 0}, {0, 0, 255}})
	c.Assert(err, qt.IsNil)

	c.Assert(comp.Color(0).R, qt.Equals, uint8(255))
	c.Assert(comp.Color(4).B, qt.Equals, uint8(255))
}

func TestDimThenBrightenRestoresBrightnessExactly(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(1)
	c.Assert(comp.Set(0, 10, 20, 30), qt.IsNil)
	before := comp.Color(0).L

	c.Assert(comp.Dim(0, 15), qt.IsNil)
	c.Assert(comp.Brighten(0, 15), qt.IsNil)

	c.Assert(comp.Color(0).L, qt.Equals, before)
}

func TestUnbalancedSectionsWarnAtSave(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(1)
	c.Assert(comp.Section(), qt.IsNil)

	var out bytes.Buffer
	res, err := comp.Save(&out)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Warnings, qt.Contains, "Sections started but not finished")
}

func TestMoveUpTrailMatchesSpecScenario(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(5)
	c.Assert(comp.Fill(0, 0, 0, 100), qt.IsNil)
	c.Assert(comp.Set(0, 255, 0, 0), qt.IsNil)
	c.Assert(comp.MoveUp(0, 4, 2, true, false, false), qt.IsNil)

	red := comp.Color(0)
	c.Assert(red.R, qt.Equals, uint8(255))
	c.Assert(comp.Color(1), qt.Equals, red)
	c.Assert(comp.Color(2), qt.Equals, red)
	c.Assert(comp.Color(3).R, qt.Equals, uint8(0))
	c.Assert(comp.Color(4).R, qt.Equals, uint8(0))
}

func TestAccelerateRejectsOverAcceleration(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(1)
	c.Assert(comp.SetMultiplier(0.003), qt.IsNil)
	err := comp.Accelerate()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestSetRejectsOutOfRangeIndex(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(3)
	err := comp.Set(3, 0, 0, 0)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestMoveRejectsTrailAndRotateTogether(t *testing.T) {
	c := qt.New(t)

	comp := encode.New(5)
	err := comp.MoveUp(0, 4, 1, true, true, false)
	c.Assert(err, qt.Not(qt.IsNil))
}
