package machine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bdwalton/gindmg/cartridge"
)

func writeTestROM(t *testing.T, program []byte) *cartridge.Cartridge {
	t.Helper()

	raw := make([]byte, cartridge.HEADER_SIZE+len(program))
	copy(raw[0x100:], program)
	copy(raw[cartridge.TITLE_START:], []byte("MACHINETEST"))
	var x uint8
	for i := cartridge.TITLE_START; i <= cartridge.VERSION; i++ {
		x = x - raw[i] - 1
	}
	raw[cartridge.HEADER_CKSUM] = x

	p := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(p, raw, 0o600); err != nil {
		t.Fatalf("couldn't write test ROM: %v", err)
	}
	c, err := cartridge.New(p)
	if err != nil {
		t.Fatalf("cartridge.New() error: %v", err)
	}
	return c
}

func TestMachineRunsUntilInvalidOpcodeFault(t *testing.T) {
	// PC starts at 0x100: two NOPs then an unused/invalid opcode.
	cart := writeTestROM(t, []byte{0x00, 0x00, 0xD3})
	m := New(cart)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := m.Run(ctx)
	if err == nil {
		t.Fatal("Run() should return a Fault on the invalid opcode")
	}
	if _, ok := err.(*Fault); !ok {
		t.Fatalf("Run() error type = %T, want *Fault", err)
	}
}

func TestMachineStopHaltsSimulationLoop(t *testing.T) {
	cart := writeTestROM(t, []byte{0x00, 0x18, 0xFE}) // NOP ; JR -2 (infinite loop)
	m := New(cart)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	m.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Stop()", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Stop()")
	}
}

func TestFrameSnapshotAdvancesAsPPURenders(t *testing.T) {
	cart := writeTestROM(t, []byte{0x18, 0xFE}) // JR -2, CPU spins while PPU free-runs
	m := New(cart)
	m.LCD.WriteLCDC(0x91) // enable the LCD so the PPU actually ticks through modes

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go m.Run(ctx)

	var lastSeq uint64
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		_, seq := m.FrameSnapshot()
		if seq > 0 {
			lastSeq = seq
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()

	if lastSeq == 0 {
		t.Error("expected at least one published frame while the PPU free-ran")
	}
}
