package codec_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/becuri/ledscript/codec"
)

func TestRoundTrip(t *testing.T) {
	c := qt.New(t)

	want := []byte{0x01, 0x00, 0xff, 0x00, 0x00, 0x64, 0x04}
	compressed := codec.Compress(want)
	got, err := codec.Decompress(compressed)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, want)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	c := qt.New(t)

	_, err := codec.Decompress([]byte{0xde, 0xad, 0xbe, 0xef})
	c.Assert(err, qt.Not(qt.IsNil))
}
