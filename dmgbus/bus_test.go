package dmgbus

import "testing"

type stubCart struct {
	rom [0x8000]uint8
	ram [0x2000]uint8
}

func (c *stubCart) Read(addr uint16) uint8        { return c.rom[addr] }
func (c *stubCart) Write(addr uint16, v uint8)     {}
func (c *stubCart) RAMRead(addr uint16) uint8      { return c.ram[addr] }
func (c *stubCart) RAMWrite(addr uint16, v uint8)  { c.ram[addr] = v }

type stubVideo struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8
}

func (v *stubVideo) ReadVRAM(addr uint16) uint8     { return v.vram[addr-0x8000] }
func (v *stubVideo) WriteVRAM(addr uint16, val uint8) { v.vram[addr-0x8000] = val }
func (v *stubVideo) ReadOAM(idx uint8) uint8          { return v.oam[idx] }
func (v *stubVideo) WriteOAM(idx uint8, val uint8)    { v.oam[idx] = val }

type stubTimer struct{ div, tima, tma, tac uint8 }

func (t *stubTimer) ReadDIV() uint8   { return t.div }
func (t *stubTimer) WriteDIV(uint8)   { t.div = 0 }
func (t *stubTimer) ReadTIMA() uint8  { return t.tima }
func (t *stubTimer) WriteTIMA(v uint8) { t.tima = v }
func (t *stubTimer) ReadTMA() uint8   { return t.tma }
func (t *stubTimer) WriteTMA(v uint8)  { t.tma = v }
func (t *stubTimer) ReadTAC() uint8   { return t.tac }
func (t *stubTimer) WriteTAC(v uint8)  { t.tac = v }

type stubIrq struct{ ie, f uint8 }

func (i *stubIrq) ReadIE() uint8   { return i.ie }
func (i *stubIrq) WriteIE(v uint8) { i.ie = v }
func (i *stubIrq) ReadIF() uint8   { return i.f }
func (i *stubIrq) WriteIF(v uint8) { i.f = v }

type stubLCD struct {
	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8
}

func (l *stubLCD) ReadLCDC() uint8    { return l.lcdc }
func (l *stubLCD) WriteLCDC(v uint8)  { l.lcdc = v }
func (l *stubLCD) ReadSTAT() uint8    { return l.stat }
func (l *stubLCD) WriteSTAT(v uint8)  { l.stat = v }
func (l *stubLCD) SCY() uint8         { return l.scy }
func (l *stubLCD) WriteSCY(v uint8)   { l.scy = v }
func (l *stubLCD) SCX() uint8         { return l.scx }
func (l *stubLCD) WriteSCX(v uint8)   { l.scx = v }
func (l *stubLCD) LY() uint8          { return l.ly }
func (l *stubLCD) LYC() uint8         { return l.lyc }
func (l *stubLCD) WriteLYC(v uint8)   { l.lyc = v }
func (l *stubLCD) ReadBGP() uint8     { return l.bgp }
func (l *stubLCD) WriteBGP(v uint8)   { l.bgp = v }
func (l *stubLCD) ReadOBP0() uint8    { return l.obp0 }
func (l *stubLCD) WriteOBP0(v uint8)  { l.obp0 = v }
func (l *stubLCD) ReadOBP1() uint8    { return l.obp1 }
func (l *stubLCD) WriteOBP1(v uint8)  { l.obp1 = v }
func (l *stubLCD) WY() uint8          { return l.wy }
func (l *stubLCD) WriteWY(v uint8)    { l.wy = v }
func (l *stubLCD) WX() uint8          { return l.wx }
func (l *stubLCD) WriteWX(v uint8)    { l.wx = v }

type stubDMA struct {
	active  bool
	started uint8
}

func (d *stubDMA) Start(v uint8) { d.started = v; d.active = true }
func (d *stubDMA) Active() bool  { return d.active }

type stubJoypad struct{ v uint8 }

func (j *stubJoypad) Read() uint8    { return j.v }
func (j *stubJoypad) Write(v uint8)  { j.v = v }

func newTestBus() (*Bus, *stubCart, *stubVideo, *stubDMA) {
	cart := &stubCart{}
	video := &stubVideo{}
	dma := &stubDMA{}
	b := &Bus{
		Cart:   cart,
		Video:  video,
		Timer:  &stubTimer{},
		Irq:    &stubIrq{},
		LCD:    &stubLCD{},
		DMA:    dma,
		Joypad: &stubJoypad{},
	}
	return b, cart, video, dma
}

func TestWRAMReadWrite(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0xC010, 0x42)
	if got := b.Read(0xC010); got != 0x42 {
		t.Errorf("Read(0xC010) = %02x, want 0x42", got)
	}
}

func TestEchoRAMReadsZeroAndDiscardsWrites(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0xC010, 0x77)
	if got := b.Read(0xE010); got != 0 {
		t.Errorf("Read(0xE010) = %02x, want 0", got)
	}
	b.Write(0xE010, 0x99)
	if got := b.Read(0xC010); got != 0x77 {
		t.Errorf("Read(0xC010) after echo write = %02x, want unchanged 0x77", got)
	}
}

func TestOAMMaskedDuringDMA(t *testing.T) {
	b, _, video, dma := newTestBus()
	video.oam[0] = 0x55
	if got := b.Read(0xFE00); got != 0x55 {
		t.Fatalf("Read(0xFE00) = %02x, want 0x55", got)
	}
	dma.Start(0x80)
	if got := b.Read(0xFE00); got != 0xFF {
		t.Errorf("Read(0xFE00) during DMA = %02x, want 0xFF", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b, _, _, _ := newTestBus()
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Errorf("Read(0xFEA0) = %02x, want 0xFF", got)
	}
}

func TestDMAStartTriggeredByFF46Write(t *testing.T) {
	b, _, _, dma := newTestBus()
	b.Write(0xFF46, 0x90)
	if !dma.Active() || dma.started != 0x90 {
		t.Errorf("DMA not started correctly: active=%v started=%02x", dma.Active(), dma.started)
	}
}

func TestIEAndHRAM(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0xFFFF, 0x1F)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Errorf("Read(0xFFFF) = %02x, want 0x1f", got)
	}
	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Errorf("Read(0xFF80) = %02x, want 0xab", got)
	}
}

func TestUnimplementedIORegisterRoundTrips(t *testing.T) {
	b, _, _, _ := newTestBus()
	b.Write(0xFF10, 0x5A) // an APU register - unimplemented, should still round-trip
	if got := b.Read(0xFF10); got != 0x5A {
		t.Errorf("Read(0xFF10) = %02x, want 0x5a", got)
	}
}
