// Package decode turns the raw opcode byte stream (spec §4.1, already
// deflate-decompressed) into typed instr.Instruction records. Decode is a
// pure function: it performs no I/O and no execution.
package decode

import (
	"encoding/binary"
	"fmt"

	ledscript "github.com/becuri/ledscript"
	"github.com/becuri/ledscript/color"
	"github.com/becuri/ledscript/instr"
	"github.com/becuri/ledscript/opcode"
)

// Decode parses the entire byte stream into an instruction list. Two
// transforms are applied relative to the raw bytes (spec §4.3):
//
//   - REPEAT expands into a Repeat instruction immediately followed by a
//     synthetic EndSection, closing the Section opened earlier in the
//     stream.
//   - SHOW_AND_SLEEP lowers into Show followed by Sleep(ms) — the
//     resolution spec §9 picks for the two conflicting source revisions.
//
// An unknown tag or a truncated payload is reported wrapping
// ledscript.ErrDecode.
func Decode(data []byte) ([]instr.Instruction, error) {
	out := make([]instr.Instruction, 0, len(data)/2)
	k := 0
	for k < len(data) {
		tag := opcode.Tag(data[k])
		k++

		if w, ok := opcode.FixedWidth(tag); ok {
			if err := need(data, k, w); err != nil {
				return nil, err
			}
		}

		switch tag {
		case opcode.SET:
			idx, c, next, err := readIndexedColor(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out, instr.Instruction{Kind: instr.KindSet, Index: idx, Color: c})
			k = next

		case opcode.FILL:
			c, next, err := readColor(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out, instr.Instruction{Kind: instr.KindFill, Color: c})
			k = next

		case opcode.SLEEP:
			ms, next, err := readU16(data, k)
			if err != nil {
				return nil, err
			}
			s := msToSeconds(ms)
			out = append(out, instr.Instruction{
				Kind:  instr.KindSleep,
				Sleep: instr.SleepState{Remaining: s, Reload: s},
			})
			k = next

		case opcode.SHOW:
			out = append(out, instr.Instruction{Kind: instr.KindShow})

		case opcode.SHOW_AND_SLEEP:
			ms, next, err := readU16(data, k)
			if err != nil {
				return nil, err
			}
			s := msToSeconds(ms)
			out = append(out,
				instr.Instruction{Kind: instr.KindShow},
				instr.Instruction{Kind: instr.KindSleep, Sleep: instr.SleepState{Remaining: s, Reload: s}},
			)
			k = next

		case opcode.SECTION:
			out = append(out, instr.Instruction{Kind: instr.KindSection})

		case opcode.REPEAT:
			count, next, err := readU16(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out,
				instr.Instruction{Kind: instr.KindRepeat, Repeat: instr.RepeatState{Remaining: count, Reload: count}},
				instr.Instruction{Kind: instr.KindEndSection},
			)
			k = next

		case opcode.MOVE_UP, opcode.MOVE_DOWN:
			mv, next, err := readMove(data, k)
			if err != nil {
				return nil, err
			}
			kind := instr.KindMoveUp
			if tag == opcode.MOVE_DOWN {
				kind = instr.KindMoveDown
			}
			out = append(out, instr.Instruction{Kind: kind, Move: mv})
			k = next

		case opcode.SET_SPEED:
			m, next, err := readU16(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out, instr.Instruction{Kind: instr.KindSetSpeed, SpeedMilli: m})
			k = next

		case opcode.RESET_SPEED:
			out = append(out, instr.Instruction{Kind: instr.KindResetSpeed})

		case opcode.SET_MULTIPLE:
			entries, next, err := readSetMultiple(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out, instr.Instruction{Kind: instr.KindSetMultiple, Multiple: entries})
			k = next

		case opcode.SET_BRIGHTNESS:
			idx, l, next, err := readIndexedByte(data, k)
			if err != nil {
				return nil, err
			}
			out = append(out, instr.Instruction{Kind: instr.KindSetBrightness, Index: idx, Brightness: l})
			k = next

		default:
			return nil, fmt.Errorf("%w: unknown opcode tag 0x%02x at offset %d", ledscript.ErrDecode, tag, k-1)
		}
	}
	return out, nil
}

// msToSeconds converts a wire millisecond count to the float seconds value
// the executor's sleep state machine operates on (spec §4.4 SLEEP).
func msToSeconds(ms uint16) float64 {
	return float64(ms) / 1000
}

func need(data []byte, at, n int) error {
	if at+n > len(data) {
		return fmt.Errorf("%w: truncated payload at offset %d, need %d bytes, have %d", ledscript.ErrDecode, at, n, len(data)-at)
	}
	return nil
}

func readU16(data []byte, at int) (uint16, int, error) {
	if err := need(data, at, 2); err != nil {
		return 0, 0, err
	}
	return binary.BigEndian.Uint16(data[at : at+2]), at + 2, nil
}

func readColor(data []byte, at int) (color.Color, int, error) {
	if err := need(data, at, 4); err != nil {
		return color.Color{}, 0, err
	}
	word := binary.BigEndian.Uint32(data[at : at+4])
	return color.Decode(word), at + 4, nil
}

func readIndexedColor(data []byte, at int) (uint8, color.Color, int, error) {
	if err := need(data, at, 1); err != nil {
		return 0, color.Color{}, 0, err
	}
	idx := data[at]
	c, next, err := readColor(data, at+1)
	if err != nil {
		return 0, color.Color{}, 0, err
	}
	return idx, c, next, nil
}

func readIndexedByte(data []byte, at int) (uint8, uint8, int, error) {
	if err := need(data, at, 2); err != nil {
		return 0, 0, 0, err
	}
	return data[at], data[at+1], at + 2, nil
}

func readMove(data []byte, at int) (instr.Move, int, error) {
	if err := need(data, at, 4); err != nil {
		return instr.Move{}, 0, err
	}
	flags := opcode.MoveFlags(data[at+3])
	return instr.Move{
		Lo:     data[at],
		Hi:     data[at+1],
		Spaces: data[at+2],
		Trail:  flags.Trail(),
		Rotate: flags.Rotate(),
		Show:   flags.Show(),
	}, at + 4, nil
}

func readSetMultiple(data []byte, at int) ([]instr.SetEntry, int, error) {
	if err := need(data, at, 1); err != nil {
		return nil, 0, err
	}
	k := int(data[at])
	at++
	entries := make([]instr.SetEntry, 0, k)
	for i := 0; i < k; i++ {
		if err := need(data, at, opcode.SetMultipleEntryWidth); err != nil {
			return nil, 0, err
		}
		idx := data[at]
		c, next, err := readColor(data, at+1)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, instr.SetEntry{Index: idx, Color: c})
		at = next
	}
	return entries, at, nil
}
