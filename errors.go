// Package ledscript holds the error sentinels shared by every package in
// this module — the compiler, the decoder, the codec, the color model and
// the strip adapters wrap one of these with context via
// fmt.Errorf("...: %w", ...) rather than minting ad-hoc error types. The
// executor returns no errors; it logs and skips a bad instruction.
package ledscript

import "errors"

var (
	// ErrInputRange marks a value outside its specified bounds: a pixel
	// index, a slice bound, a brightness level, a sleep duration, a speed
	// multiplier or a repeat count.
	ErrInputRange = errors.New("ledscript: value out of range")

	// ErrConflict marks mutually exclusive flags requested together, e.g.
	// trail and rotate on a move.
	ErrConflict = errors.New("ledscript: conflicting options")

	// ErrShape marks a malformed aggregate: a color tuple that isn't length
	// 3 or 4, or a gradient with too few anchors.
	ErrShape = errors.New("ledscript: malformed value")

	// ErrDecode marks an unknown opcode tag or a truncated payload.
	ErrDecode = errors.New("ledscript: malformed bytecode")

	// ErrResourceExhausted marks an operation that would drive a tracked
	// quantity negative, such as over-accelerating past zero.
	ErrResourceExhausted = errors.New("ledscript: resource exhausted")
)
