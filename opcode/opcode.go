// Package opcode defines the bit-exact on-disk instruction tags and their
// payload widths (spec §4.1). It is a pure schema package: no encoding or
// decoding logic lives here, only the tag values and the fixed-width
// layout each one implies.
package opcode

// Tag identifies an instruction on the wire. Widths below are in bytes and
// do not include the tag byte itself.
type Tag uint8

const ( //nolint:revive
	SET            Tag = 0x01 // idx:u8 color:u32
	FILL           Tag = 0x02 // color:u32
	SLEEP          Tag = 0x03 // ms:u16
	SHOW           Tag = 0x04 // -
	SHOW_AND_SLEEP Tag = 0x05 // ms:u16
	SECTION        Tag = 0x06 // -
	REPEAT         Tag = 0x07 // count:u16
	MOVE_UP        Tag = 0x08 // lo:u8 hi:u8 spaces:u8 flags:u8
	MOVE_DOWN      Tag = 0x09 // lo:u8 hi:u8 spaces:u8 flags:u8
	SET_SPEED      Tag = 0x0a // mult_milli:u16
	RESET_SPEED    Tag = 0x0b // -
	SET_MULTIPLE   Tag = 0x0c // k:u8 then k*(idx:u8 color:u32)
	SET_BRIGHTNESS Tag = 0x0d // idx:u8 l:u8

	// END_SECTION never appears on the wire; the decoder synthesizes it as
	// the closing bracket of a Repeat body (spec §4.3).
	END_SECTION Tag = 0xff
)

var names = map[Tag]string{
	SET:            "set",
	FILL:           "fill",
	SLEEP:          "sleep",
	SHOW:           "show",
	SHOW_AND_SLEEP: "show_and_sleep",
	SECTION:        "section",
	REPEAT:         "repeat",
	MOVE_UP:        "move_up",
	MOVE_DOWN:      "move_down",
	SET_SPEED:      "set_speed",
	RESET_SPEED:    "reset_speed",
	SET_MULTIPLE:   "set_multiple",
	SET_BRIGHTNESS: "set_brightness",
	END_SECTION:    "end_section",
}

func (t Tag) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// MoveFlags packs the trail/rotate/show bits of a move's flags byte, laid
// out bit2=trail, bit1=rotate, bit0=show (spec §4.1).
type MoveFlags uint8

// NewMoveFlags builds the flags byte for a move instruction.
func NewMoveFlags(trail, rotate, show bool) MoveFlags {
	var f MoveFlags
	if trail {
		f |= 1 << 2
	}
	if rotate {
		f |= 1 << 1
	}
	if show {
		f |= 1 << 0
	}
	return f
}

// Trail reports whether the trail bit is set.
func (f MoveFlags) Trail() bool { return f&(1<<2) != 0 }

// Rotate reports whether the rotate bit is set.
func (f MoveFlags) Rotate() bool { return f&(1<<1) != 0 }

// Show reports whether the show bit is set.
func (f MoveFlags) Show() bool { return f&(1<<0) != 0 }

// FixedWidth returns the payload width in bytes for opcodes whose payload
// size does not depend on their own content (everything except
// SET_MULTIPLE, whose length is carried in its first payload byte). ok is
// false for SET_MULTIPLE and for unknown tags.
func FixedWidth(t Tag) (width int, ok bool) {
	switch t {
	case SET:
		return 5, true
	case FILL:
		return 4, true
	case SLEEP:
		return 2, true
	case SHOW:
		return 0, true
	case SHOW_AND_SLEEP:
		return 2, true
	case SECTION:
		return 0, true
	case REPEAT:
		return 2, true
	case MOVE_UP, MOVE_DOWN:
		return 4, true
	case SET_SPEED:
		return 2, true
	case RESET_SPEED:
		return 0, true
	case SET_BRIGHTNESS:
		return 2, true
	default:
		return 0, false
	}
}

// SetMultipleEntryWidth is the width in bytes of one (idx, color) pair in
// a SET_MULTIPLE payload.
const SetMultipleEntryWidth = 5
