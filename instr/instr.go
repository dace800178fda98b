// Package instr defines the typed instruction records the decoder produces
// and the executor consumes (spec §3, §4.3). Decoded instructions are a sum
// type; the integer opcode tag only exists at the byte interface in
// package opcode.
package instr

import "github.com/becuri/ledscript/color"

// Kind discriminates the Instruction sum type.
type Kind uint8

const (
	KindSet Kind = iota
	KindFill
	KindSleep
	KindShow
	KindSection
	KindEndSection
	KindRepeat
	KindMoveUp
	KindMoveDown
	KindSetSpeed
	KindResetSpeed
	KindSetMultiple
	KindSetBrightness
)

// SetEntry is one (index, color) pair inside a SetMultiple instruction.
type SetEntry struct {
	Index uint8
	Color color.Color
}

// Move carries the shared payload of MoveUp and MoveDown.
type Move struct {
	Lo, Hi, Spaces uint8
	Trail, Rotate  bool
	Show           bool
}

// SleepState is Sleep's remaining/reload pair, in seconds. The wire format
// is milliseconds (opcode.SLEEP's u16 payload); decode converts to
// seconds once so the executor's v = remaining * speed comparison against
// 1.0 (one real second) reads directly off the stored value, matching
// original_source/interpretor.py's convention.
type SleepState struct {
	Remaining float64
	Reload    float64
}

// RepeatState is Repeat's remaining/reload pair, so an outer loop can
// reset an inner one's progress on rewind (spec §4.4, §9 "Reload").
type RepeatState struct {
	Remaining uint16
	Reload    uint16
}

// Instruction is one decoded record. Exactly one of the typed fields is
// meaningful, selected by Kind; this mirrors the "tagged variants over
// integer tags" guidance in spec §9 while keeping the type a plain struct
// so the executor can mutate Sleep/Repeat's Remaining in place without a
// pointer indirection per instruction.
type Instruction struct {
	Kind Kind

	Index uint8       // Set, SetBrightness
	Color color.Color // Set, Fill

	Sleep SleepState // Sleep

	Repeat RepeatState // Repeat

	Move Move // MoveUp, MoveDown

	SpeedMilli uint16 // SetSpeed

	Multiple []SetEntry // SetMultiple

	Brightness uint8 // SetBrightness
}

// SectionFrame is the single push/pop unit for the executor's three
// section-scoped stacks (position, speed multiplier, color snapshot),
// per spec §9's recommendation to make the push/pop-in-lockstep invariant
// type-enforced rather than relying on three parallel slices staying in
// sync by convention.
type SectionFrame struct {
	ReturnPC      int
	Speed         float64
	ColorSnapshot []color.Color
}
