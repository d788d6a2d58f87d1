// Package debugconsole adapts the teacher's console.BIOS/mos6502 REPL
// (breakpoints, step, memory dump, PC set) into a terminal front-end for
// a *machine.Machine, enriched with raw-mode single-keystroke input and
// Lua-backed conditional breakpoints.
package debugconsole

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/term"

	"github.com/bdwalton/gindmg/machine"
)

// Console is the debug REPL, grounded in console.Bus.BIOS's menu-driven
// loop but driving a *machine.Machine instead of the teacher's NES Bus.
type Console struct {
	m *machine.Machine

	in  *bufio.Reader
	out io.Writer

	breaks   map[uint16]struct{}
	breakIf  string // a Lua expression, empty when unset
	luaState *lua.LState
}

// New constructs a console over m, reading from in (normally os.Stdin
// put into raw mode by Run) and writing menus/output to out.
func New(m *machine.Machine, in io.Reader, out io.Writer) *Console {
	return &Console{
		m:      m,
		in:     bufio.NewReader(in),
		out:    out,
		breaks: make(map[uint16]struct{}),
	}
}

// Run puts stdin into raw mode (so single keystrokes drive the menu
// rather than requiring Enter, unlike the teacher's fmt.Scanf-based
// BIOS) and loops the menu until (q)uit or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("debugconsole: MakeRaw: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	c.luaState = lua.NewState()
	defer c.luaState.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		c.printMenu()

		b, err := c.in.ReadByte()
		if err != nil {
			return fmt.Errorf("debugconsole: read input: %w", err)
		}

		if !c.dispatch(ctx, b) {
			return nil
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintf(c.out, "\r\n%s\r\n\r\n", c.m.CPU.String())
	fmt.Fprintln(c.out, "(b)reak - add breakpoint at an address")
	fmt.Fprintln(c.out, "break-(i)f - set a Lua conditional breakpoint")
	fmt.Fprintln(c.out, "(c)lear - clear all breakpoints")
	fmt.Fprintln(c.out, "(r)un - run to next breakpoint")
	fmt.Fprintln(c.out, "(s)tep - step one instruction")
	fmt.Fprintln(c.out, "r(e)set - hit the reset button")
	fmt.Fprintln(c.out, "(m)emory - dump a memory range")
	fmt.Fprintln(c.out, "(p)c - set the program counter")
	fmt.Fprintln(c.out, "(q)uit - exit the debug console")
	fmt.Fprint(c.out, "\r\nchoice: ")
}

// dispatch handles one keystroke and returns false when the console
// should exit.
func (c *Console) dispatch(ctx context.Context, b byte) bool {
	switch b {
	case 'b', 'B':
		c.breaks[c.readAddress("\r\nbreakpoint (hex, e.g. 0150): ")] = struct{}{}
	case 'i', 'I':
		c.breakIf = c.readLine("\r\nbreak-if expression (vars a,b,c,d,e,h,l,f,pc,sp): ")
	case 'c', 'C':
		c.breaks = make(map[uint16]struct{})
		c.breakIf = ""
	case 'r', 'R':
		c.runToBreak(ctx)
	case 's', 'S':
		if _, err := c.m.CPU.Step(); err != nil {
			fmt.Fprintf(c.out, "\r\nstep faulted: %v\r\n", err)
		}
	case 'e', 'E':
		c.m.CPU.Reset()
	case 'm', 'M':
		low := c.readAddress("\r\nlow address (hex): ")
		high := c.readAddress("high address (hex): ")
		c.dumpMemory(low, high)
	case 'p', 'P':
		c.m.CPU.SetPC(c.readAddress("\r\nset PC to (hex): "))
	case 'q', 'Q':
		return false
	}
	return true
}

// runToBreak single-steps until an address breakpoint, a truthy break-if
// expression, or a CPU fault stops it - the console's equivalent of the
// teacher's (r)un case, which instead ran un-single-stepped via Bus.Run.
func (c *Console) runToBreak(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := c.m.CPU.Step(); err != nil {
			fmt.Fprintf(c.out, "\r\nrun faulted: %v\r\n", err)
			return
		}

		if _, hit := c.breaks[c.m.CPU.PC()]; hit {
			return
		}
		if c.breakIf != "" && c.evalBreakIf() {
			return
		}
	}
}

// evalBreakIf runs the stored Lua expression against the current
// register file and reports whether it evaluated truthy. A Lua error
// (a malformed expression) is treated as false rather than aborting the
// run, since a typo in a conditional breakpoint shouldn't crash the
// debug session.
func (c *Console) evalBreakIf() bool {
	a, b, cReg, d, e, h, l, f := c.m.CPU.Registers()
	L := c.luaState
	L.SetGlobal("a", lua.LNumber(a))
	L.SetGlobal("b", lua.LNumber(b))
	L.SetGlobal("c", lua.LNumber(cReg))
	L.SetGlobal("d", lua.LNumber(d))
	L.SetGlobal("e", lua.LNumber(e))
	L.SetGlobal("h", lua.LNumber(h))
	L.SetGlobal("l", lua.LNumber(l))
	L.SetGlobal("f", lua.LNumber(f))
	L.SetGlobal("pc", lua.LNumber(c.m.CPU.PC()))
	L.SetGlobal("sp", lua.LNumber(c.m.CPU.SP()))

	if err := L.DoString("__breakif_result = (" + c.breakIf + ")"); err != nil {
		fmt.Fprintf(c.out, "\r\nbreak-if error: %v\r\n", err)
		return false
	}
	result := L.GetGlobal("__breakif_result")
	return lua.LVAsBool(result)
}

func (c *Console) dumpMemory(low, high uint16) {
	fmt.Fprintln(c.out, "\r")
	col := 0
	for addr := uint32(low); addr <= uint32(high) && addr <= math.MaxUint16; addr++ {
		fmt.Fprintf(c.out, "%04X:%02X ", addr, c.m.Bus.Read(uint16(addr)))
		col++
		if col%8 == 0 {
			fmt.Fprint(c.out, "\r\n")
		}
	}
	fmt.Fprint(c.out, "\r\n")
}

func (c *Console) readAddress(prompt string) uint16 {
	fmt.Fprint(c.out, prompt)
	line := c.readRawLine()
	var v uint16
	fmt.Sscanf(line, "%04x", &v)
	return v
}

func (c *Console) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	return c.readRawLine()
}

// readRawLine accumulates keystrokes until Enter, echoing as it goes -
// raw mode disables the terminal driver's own line editing and echo.
func (c *Console) readRawLine() string {
	var line []byte
	for {
		b, err := c.in.ReadByte()
		if err != nil {
			return string(line)
		}
		if b == '\r' || b == '\n' {
			fmt.Fprint(c.out, "\r\n")
			return string(line)
		}
		if b == 127 || b == 8 { // backspace/delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(c.out, "\b \b")
			}
			continue
		}
		line = append(line, b)
		fmt.Fprintf(c.out, "%c", b)
	}
}
