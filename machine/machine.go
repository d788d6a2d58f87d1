// Package machine assembles the CPU, bus, PPU, timer, DMA, interrupt
// controller, and LCD registers into one cycle-accurate DMG and runs
// the scheduler that interleaves them.
package machine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bdwalton/gindmg/cartridge"
	"github.com/bdwalton/gindmg/dma"
	"github.com/bdwalton/gindmg/dmgbus"
	"github.com/bdwalton/gindmg/dmgcpu"
	"github.com/bdwalton/gindmg/dmgtimer"
	"github.com/bdwalton/gindmg/input"
	"github.com/bdwalton/gindmg/interrupt"
	"github.com/bdwalton/gindmg/lcd"
	"github.com/bdwalton/gindmg/ppu"
)

// Fault is returned by Run when the CPU hits an invalid opcode, and
// carries a register dump for diagnostics.
type Fault struct {
	Err      error
	Snapshot string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v\n%s", f.Err, f.Snapshot)
}

func (f *Fault) Unwrap() error { return f.Err }

// Machine is the sole owner of all emulated state. It is driven by
// exactly one goroutine (the simulation thread); the presentation
// thread only ever calls FrameSnapshot.
type Machine struct {
	Cart *cartridge.Cartridge
	IC   *interrupt.Controller
	LCD  *lcd.LCD
	PPU  *ppu.PPU
	Timer *dmgtimer.Timer
	DMA  *dma.DMA
	Joy  *input.Joypad
	Bus  *dmgbus.Bus
	CPU  *dmgcpu.CPU

	die    atomic.Bool
	paused atomic.Bool

	mu       sync.RWMutex
	snapshot []uint32
	frameSeq uint64
}

// New wires every component together exactly as spec.md §4.1/§4.3
// describe: the bus dispatches to cartridge/VRAM/OAM/I-O/HRAM/IE, and
// the CPU's onCycle hook ticks timer+PPU four times then DMA once per
// machine cycle.
func New(cart *cartridge.Cartridge) *Machine {
	m := &Machine{Cart: cart}

	m.IC = interrupt.New()
	m.LCD = lcd.New()
	m.PPU = ppu.New(m.LCD, m.IC)
	m.Timer = dmgtimer.New(m.IC)
	m.Joy = input.New(m.IC)
	m.Bus = dmgbus.New()
	m.Bus.Cart = cart
	m.Bus.Video = m.PPU
	m.Bus.Timer = m.Timer
	m.Bus.Irq = m.IC
	m.Bus.LCD = m.LCD
	m.Bus.Joypad = m.Joy
	m.DMA = dma.New(m.Bus, m.PPU)
	m.Bus.DMA = m.DMA

	m.CPU = dmgcpu.New(m.Bus, m.IC, m.onCycle)

	m.snapshot = make([]uint32, ppu.ScreenWidth*ppu.ScreenHeight)

	return m
}

// onCycle is invoked once per CPU machine cycle: it advances
// timer/PPU four dots and DMA once, per spec.md §4.3's ordering.
func (m *Machine) onCycle() {
	for i := 0; i < 4; i++ {
		m.Timer.Tick()
		before := m.PPU.FrameCount()
		m.PPU.Tick()
		if m.PPU.FrameCount() != before {
			m.publishFrame()
		}
	}
	m.DMA.Tick()
}

func (m *Machine) publishFrame() {
	m.mu.Lock()
	copy(m.snapshot, m.PPU.Frame())
	m.frameSeq++
	m.mu.Unlock()
}

// FrameSnapshot returns a copy of the most recently completed frame
// and the sequence number it was published under. Safe to call from
// the presentation thread.
func (m *Machine) FrameSnapshot() ([]uint32, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]uint32, len(m.snapshot))
	copy(out, m.snapshot)
	return out, m.frameSeq
}

// Pause/Resume/Stop are safe to call from any goroutine.
func (m *Machine) Pause()  { m.paused.Store(true) }
func (m *Machine) Resume() { m.paused.Store(false) }
func (m *Machine) Paused() bool { return m.paused.Load() }
func (m *Machine) Stop()  { m.die.Store(true) }

// Run drives the CPU until ctx is cancelled, Stop is called, or the
// CPU faults on an invalid opcode. Pausing spins on a short wait
// rather than blocking on a channel, mirroring the teacher's simple
// select-on-ctx.Done loop in gintendo.go's Run.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if m.die.Load() {
			return nil
		}
		if m.paused.Load() {
			time.Sleep(time.Millisecond)
			continue
		}

		if _, err := m.CPU.Step(); err != nil {
			return &Fault{Err: err, Snapshot: m.CPU.String()}
		}
	}
}
