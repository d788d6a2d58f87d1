// Package input implements the DMG joypad register at $FF00, adapted
// from the teacher's NES controller shift-register model to the DMG's
// row-select matrix.
package input

import "github.com/bdwalton/gindmg/interrupt"

// Button bits, independent of which matrix row they're read through.
const (
	ButtonA      uint8 = 1 << 0
	ButtonB      uint8 = 1 << 1
	ButtonSelect uint8 = 1 << 2
	ButtonStart  uint8 = 1 << 3
	ButtonRight  uint8 = 1 << 0
	ButtonLeft   uint8 = 1 << 1
	ButtonUp     uint8 = 1 << 2
	ButtonDown   uint8 = 1 << 3
)

// Requester is the subset of interrupt.Controller needed to raise the
// Joypad interrupt on a button press.
type Requester interface {
	Request(interrupt.Source)
}

// Joypad models $FF00: bits 4-5 select which button row is visible in
// bits 0-3 (active low both ways), bits 6-7 are unused and read as 1.
type Joypad struct {
	ic Requester

	selectButtons   bool
	selectDirection bool

	buttons   uint8 // A,B,Select,Start - bit set means pressed
	direction uint8 // Right,Left,Up,Down - bit set means pressed
}

func New(ic Requester) *Joypad {
	return &Joypad{ic: ic}
}

func (j *Joypad) Read() uint8 {
	v := uint8(0xC0) // bits 6-7 always read 1
	if !j.selectButtons {
		v |= 1 << 5
	}
	if !j.selectDirection {
		v |= 1 << 4
	}

	row := uint8(0x0F)
	if j.selectButtons {
		row &^= j.buttons
	}
	if j.selectDirection {
		row &^= j.direction
	}
	return v | row
}

// Write sets the row-select bits (4-5); the rest of the byte is
// read-only from software's perspective.
func (j *Joypad) Write(val uint8) {
	j.selectButtons = val&(1<<5) == 0
	j.selectDirection = val&(1<<4) == 0
}

// SetButton updates one button/direction bit from the host input
// layer and raises the Joypad interrupt on a press (0->1 transition).
// The interrupt is raised whichever row is currently selected in $FF00;
// the row-select bits do not gate it.
func (j *Joypad) SetButton(bit uint8, group ButtonGroup, pressed bool) {
	var target *uint8
	switch group {
	case Buttons:
		target = &j.buttons
	case Direction:
		target = &j.direction
	}

	was := *target&bit != 0
	if pressed {
		*target |= bit
	} else {
		*target &^= bit
	}

	if pressed && !was {
		j.ic.Request(interrupt.Joypad)
	}
}

// ButtonGroup distinguishes the two 4-bit rows the joypad matrix
// multiplexes onto the same nibble.
type ButtonGroup uint8

const (
	Buttons ButtonGroup = iota
	Direction
)
