// Package codec wraps the deflate-class compressor spec §6 requires for
// the on-disk bytecode artifact: no header, no framing, just a raw
// deflate stream at the maximum compression level.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	ledscript "github.com/becuri/ledscript"
)

// Level is the fixed compression level spec §4.2/§6 specifies for save().
const Level = flate.BestCompression

// Compress deflates data at Level and returns the compressed bytes.
func Compress(data []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, Level)
	if err != nil {
		// Level is a compile-time constant flate always accepts; this
		// can only fire if that invariant breaks.
		panic(fmt.Sprintf("codec: invalid compression level %d: %v", Level, err))
	}
	if _, err := w.Write(data); err != nil {
		panic(fmt.Sprintf("codec: in-memory writer returned error: %v", err))
	}
	if err := w.Close(); err != nil {
		panic(fmt.Sprintf("codec: in-memory writer close returned error: %v", err))
	}
	return buf.Bytes()
}

// Decompress inflates a stream produced by Compress. A corrupt or
// truncated stream is reported wrapping ledscript.ErrDecode.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt compressed artifact: %v", ledscript.ErrDecode, err)
	}
	return out, nil
}
