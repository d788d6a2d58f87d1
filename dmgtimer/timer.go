// Package dmgtimer implements the DMG's DIV/TIMA/TMA/TAC timer block.
package dmgtimer

import "github.com/bdwalton/gindmg/interrupt"

// TAC bit selecting which DIV bit gates TIMA increments.
var tacBit = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7}

// Requester is the subset of interrupt.Controller the timer needs to
// raise the Timer interrupt on TIMA overflow.
type Requester interface {
	Request(interrupt.Source)
}

// Timer owns the free-running 16-bit DIV counter (only its high byte
// is addressable, at $FF04) and the TIMA/TMA/TAC registers.
type Timer struct {
	div  uint16
	tima uint8
	tma  uint8
	tac  uint8

	ic Requester
}

func New(ic Requester) *Timer {
	return &Timer{ic: ic}
}

// Tick advances the timer by one DIV cycle (one dot). TIMA increments
// on a falling edge of the TAC-selected DIV bit, gated by TAC's enable
// bit (bit 2); an 8-bit overflow reloads TIMA from TMA and requests
// the Timer interrupt.
func (t *Timer) Tick() {
	prev := t.div
	t.div++

	if t.tac&0x04 == 0 {
		return
	}

	bit := tacBit[t.tac&0x03]
	if prev&bit != 0 && t.div&bit == 0 {
		t.tima++
		if t.tima == 0 {
			t.tima = t.tma
			t.ic.Request(interrupt.Timer)
		}
	}
}

func (t *Timer) ReadDIV() uint8 { return uint8(t.div >> 8) }

// WriteDIV resets the full 16-bit divider to zero regardless of the
// value written, per hardware behavior for any write to $FF04.
func (t *Timer) WriteDIV(uint8) { t.div = 0 }

func (t *Timer) ReadTIMA() uint8      { return t.tima }
func (t *Timer) WriteTIMA(v uint8)    { t.tima = v }
func (t *Timer) ReadTMA() uint8       { return t.tma }
func (t *Timer) WriteTMA(v uint8)     { t.tma = v }
func (t *Timer) ReadTAC() uint8       { return t.tac | 0xF8 }
func (t *Timer) WriteTAC(v uint8)     { t.tac = v & 0x07 }
