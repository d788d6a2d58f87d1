package dma

import "testing"

type fakeBus struct{ data [0x10000]uint8 }

func (b *fakeBus) Read(addr uint16) uint8 { return b.data[addr] }

type fakeOAM struct{ data [160]uint8 }

func (o *fakeOAM) WriteOAM(idx uint8, v uint8) { o.data[idx] = v }

func TestStartDelaysTwoCycles(t *testing.T) {
	bus := &fakeBus{}
	bus.data[0x4000] = 0xAB
	oam := &fakeOAM{}
	d := New(bus, oam)

	d.Start(0x40)
	d.Tick() // delay
	d.Tick() // delay
	if oam.data[0] != 0 {
		t.Fatalf("OAM[0] = %02x during startup delay, want 0", oam.data[0])
	}
	d.Tick() // first real copy
	if oam.data[0] != 0xAB {
		t.Errorf("OAM[0] = %02x, want 0xAB", oam.data[0])
	}
}

func TestFullTransferCopies160Bytes(t *testing.T) {
	bus := &fakeBus{}
	for i := 0; i < 0xA0; i++ {
		bus.data[0x8000+i] = uint8(i)
	}
	oam := &fakeOAM{}
	d := New(bus, oam)

	d.Start(0x80)
	for i := 0; i < 2+0xA0; i++ {
		d.Tick()
	}

	if d.Active() {
		t.Error("transfer should be complete after 160 bytes + startup delay")
	}
	for i := 0; i < 0xA0; i++ {
		if oam.data[i] != uint8(i) {
			t.Fatalf("OAM[%d] = %02x, want %02x", i, oam.data[i], uint8(i))
		}
	}
}

func TestTickIsNoOpWhenInactive(t *testing.T) {
	bus := &fakeBus{}
	oam := &fakeOAM{}
	d := New(bus, oam)
	d.Tick() // must not panic or mutate state
	if d.Active() {
		t.Error("Active() should be false with no transfer started")
	}
}
