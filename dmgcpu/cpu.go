package dmgcpu

import (
	"fmt"

	"github.com/bdwalton/gindmg/interrupt"
)

// Bus is the memory interface the CPU drives. One Read or Write call
// always corresponds to exactly one elapsed machine cycle.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Interrupts is the subset of interrupt.Controller the CPU needs to
// dispatch and clear pending interrupts.
type Interrupts interface {
	Pending() (interrupt.Source, uint16, bool)
	Acknowledge(interrupt.Source)
	HasAny() bool
}

// InvalidOpcodeError is returned by Step when the fetched opcode has no
// handler in the dispatch table.
type InvalidOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// Power-on register values, matching the values the DMG boot ROM
// leaves behind when it hands off to cartridge code at $0100.
const (
	powerOnAF uint16 = 0x01B0
	powerOnBC uint16 = 0x0013
	powerOnDE uint16 = 0x00D8
	powerOnHL uint16 = 0x014D
	powerOnSP uint16 = 0xFFFE
	powerOnPC uint16 = 0x0100
)

// CPU implements the Sharp LR35902 instruction set and interrupt
// dispatch. It owns no memory itself - every access goes through Bus,
// and every such access ticks onCycle once so the rest of the machine
// (timer, DMA, PPU) stays interleaved at machine-cycle granularity.
type CPU struct {
	r   registers
	bus Bus
	ic  Interrupts

	onCycle func()

	ime        bool
	imePending bool
	halted     bool

	cycles uint64
}

func New(bus Bus, ic Interrupts, onCycle func()) *CPU {
	c := &CPU{bus: bus, ic: ic, onCycle: onCycle}
	c.Reset()
	return c
}

// Reset restores the CPU to its post-boot-ROM power-on state.
func (c *CPU) Reset() {
	c.r.setAF(powerOnAF)
	c.r.setBC(powerOnBC)
	c.r.setDE(powerOnDE)
	c.r.setHL(powerOnHL)
	c.r.sp = powerOnSP
	c.r.pc = powerOnPC
	c.ime = false
	c.imePending = false
	c.halted = false
}

func (c *CPU) String() string {
	return c.r.String()
}

func (c *CPU) PC() uint16     { return c.r.pc }
func (c *CPU) SetPC(v uint16) { c.r.pc = v }
func (c *CPU) SP() uint16     { return c.r.sp }
func (c *CPU) Halted() bool   { return c.halted }
func (c *CPU) IME() bool      { return c.ime }
func (c *CPU) Cycles() uint64 { return c.cycles }

// Registers exposes the eight-bit registers and flags by name, for
// tooling (the debug console's Lua break-if expressions) that needs
// field-level access rather than String()'s formatted dump.
func (c *CPU) Registers() (a, b, cReg, d, e, h, l, f uint8) {
	return c.r.a, c.r.b, c.r.c, c.r.d, c.r.e, c.r.h, c.r.l, c.r.f
}

// tick advances the rest of the machine by n machine cycles.
func (c *CPU) tick(n int) {
	for i := 0; i < n; i++ {
		c.cycles++
		if c.onCycle != nil {
			c.onCycle()
		}
	}
}

func (c *CPU) read(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.tick(1)
	return v
}

func (c *CPU) write(addr uint16, v uint8) {
	c.bus.Write(addr, v)
	c.tick(1)
}

func (c *CPU) fetch8() uint8 {
	v := c.read(c.r.pc)
	c.r.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

// Step executes exactly one instruction (or one idle cycle while
// halted), then services a pending interrupt if IME allows it. It
// returns the number of machine cycles consumed.
func (c *CPU) Step() (int, error) {
	before := c.cycles

	if c.halted {
		c.tick(1)
		if c.ic.HasAny() {
			c.halted = false
		}
	} else {
		op := c.fetch8()
		fn := baseOps[op]
		if fn == nil {
			return int(c.cycles - before), &InvalidOpcodeError{Opcode: op, PC: c.r.pc - 1}
		}
		fn(c)
	}

	if c.ime {
		if src, vec, ok := c.ic.Pending(); ok {
			c.dispatchInterrupt(src, vec)
		}
		c.imePending = false
	}
	if c.imePending {
		c.ime = true
	}

	return int(c.cycles - before), nil
}

// dispatchInterrupt pushes PC and jumps to the handler vector. Total
// cost is 5 machine cycles: 2 internal, 2 for the push, 1 for the jump.
func (c *CPU) dispatchInterrupt(src interrupt.Source, vec uint16) {
	c.ic.Acknowledge(src)
	c.halted = false
	c.ime = false
	c.tick(2)
	c.push16(c.r.pc)
	c.r.pc = vec
	c.tick(1)
}

func (c *CPU) push8(v uint8) {
	c.r.sp--
	c.write(c.r.sp, v)
}

func (c *CPU) pop8() uint8 {
	v := c.read(c.r.sp)
	c.r.sp++
	return v
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop8())
	hi := uint16(c.pop8())
	return hi<<8 | lo
}

// get8/set8 index registers in the order B,C,D,E,H,L,(HL),A - the same
// order the CB-prefixed opcode space and the 0x40-0xBF block use for
// their low 3 bits.
func (c *CPU) get8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.r.b
	case 1:
		return c.r.c
	case 2:
		return c.r.d
	case 3:
		return c.r.e
	case 4:
		return c.r.h
	case 5:
		return c.r.l
	case 6:
		return c.read(c.r.hl())
	default:
		return c.r.a
	}
}

func (c *CPU) set8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.r.b = v
	case 1:
		c.r.c = v
	case 2:
		c.r.d = v
	case 3:
		c.r.e = v
	case 4:
		c.r.h = v
	case 5:
		c.r.l = v
	case 6:
		c.write(c.r.hl(), v)
	default:
		c.r.a = v
	}
}

// getRP1/setRP1 index BC,DE,HL,SP - used by 16-bit LD/INC/DEC/ADD HL.
func (c *CPU) getRP1(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.r.bc()
	case 1:
		return c.r.de()
	case 2:
		return c.r.hl()
	default:
		return c.r.sp
	}
}

func (c *CPU) setRP1(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.r.setBC(v)
	case 1:
		c.r.setDE(v)
	case 2:
		c.r.setHL(v)
	default:
		c.r.sp = v
	}
}

// getRP2/setRP2 index BC,DE,HL,AF - used by PUSH/POP.
func (c *CPU) getRP2(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.r.bc()
	case 1:
		return c.r.de()
	case 2:
		return c.r.hl()
	default:
		return c.r.af()
	}
}

func (c *CPU) setRP2(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.r.setBC(v)
	case 1:
		c.r.setDE(v)
	case 2:
		c.r.setHL(v)
	default:
		c.r.setAF(v)
	}
}

// checkCond indexes NZ,Z,NC,C - the two-bit condition field shared by
// conditional JR/JP/CALL/RET.
func (c *CPU) checkCond(idx uint8) bool {
	switch idx {
	case 0:
		return !c.r.flag(flagZ)
	case 1:
		return c.r.flag(flagZ)
	case 2:
		return !c.r.flag(flagC)
	default:
		return c.r.flag(flagC)
	}
}
