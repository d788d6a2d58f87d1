package ppu

import (
	"testing"

	"github.com/bdwalton/gindmg/interrupt"
	"github.com/bdwalton/gindmg/lcd"
)

type fakeRequester struct {
	requested []interrupt.Source
}

func (f *fakeRequester) Request(s interrupt.Source) {
	f.requested = append(f.requested, s)
}

func newTestPPU() (*PPU, *lcd.LCD, *fakeRequester) {
	l := lcd.New()
	l.WriteLCDC(0x91) // LCD on, BG/W on, BG tile map low, tile data high
	req := &fakeRequester{}
	p := New(l, req)
	return p, l, req
}

func fillCheckerboardTile(p *PPU) {
	// tile 0 at $8000, alternating bit pattern across all 8 rows
	for row := 0; row < 8; row++ {
		p.WriteVRAM(uint16(0x8000+row*2), 0xAA)
		p.WriteVRAM(uint16(0x8000+row*2+1), 0x00)
	}
}

func TestModeProgressesOAMToXferToHBlank(t *testing.T) {
	p, l, _ := newTestPPU()
	l.SetMode(lcd.ModeOAM)

	for i := 0; i < 80; i++ {
		p.Tick()
	}
	if l.Mode() != lcd.ModeXFer {
		t.Fatalf("Mode() after 80 dots = %v, want ModeXFer", l.Mode())
	}

	fillCheckerboardTile(p)
	for i := 0; i < 400 && l.Mode() == lcd.ModeXFer; i++ {
		p.Tick()
	}
	if l.Mode() != lcd.ModeHBlank {
		t.Fatalf("Mode() after pixel transfer = %v, want ModeHBlank", l.Mode())
	}
}

func TestFullLineProduces160Pixels(t *testing.T) {
	p, l, _ := newTestPPU()
	l.SetMode(lcd.ModeOAM)
	fillCheckerboardTile(p)

	for i := 0; i < dotsPerLine*2 && l.Mode() != lcd.ModeHBlank; i++ {
		p.Tick()
	}

	if l.Mode() != lcd.ModeHBlank {
		t.Fatal("never reached HBlank within two lines' worth of dots")
	}
	if p.pushedX != ScreenWidth {
		t.Errorf("pushedX = %d, want %d", p.pushedX, ScreenWidth)
	}
}

func TestFrameCountAdvancesOnVBlankEntry(t *testing.T) {
	p, l, req := newTestPPU()
	l.SetMode(lcd.ModeOAM)
	fillCheckerboardTile(p)

	before := p.FrameCount()
	for i := 0; i < dotsPerLine*linesPerFrame+1000; i++ {
		p.Tick()
		if p.FrameCount() > before {
			break
		}
	}
	if p.FrameCount() != before+1 {
		t.Fatalf("FrameCount() = %d, want %d after one full frame", p.FrameCount(), before+1)
	}

	sawVBlank := false
	for _, s := range req.requested {
		if s == interrupt.VBlank {
			sawVBlank = true
		}
	}
	if !sawVBlank {
		t.Error("expected a VBlank interrupt request during the frame")
	}
}

func TestLYCMatchRaisesLCDStatWhenEnabled(t *testing.T) {
	p, l, req := newTestPPU()
	l.WriteSTAT(0x40) // LYC interrupt select
	l.WriteLYC(1)
	l.SetMode(lcd.ModeHBlank)
	p.lineTicks = dotsPerLine

	p.Tick() // drives tickHBlank, LY 0->1, should match LYC and request LCDStat

	found := false
	for _, s := range req.requested {
		if s == interrupt.LCDStat {
			found = true
		}
	}
	if !found {
		t.Error("expected an LCDStat interrupt request on LY==LYC")
	}
}

func TestDisabledLCDDoesNotAdvance(t *testing.T) {
	p, l, _ := newTestPPU()
	l.WriteLCDC(0x00) // LCD disabled
	before := p.lineTicks
	p.Tick()
	if p.lineTicks != before {
		t.Error("Tick() should be a no-op while the LCD is disabled")
	}
}

func TestSignedTileDataAreaReadsFromUnsignedBase(t *testing.T) {
	l := lcd.New()
	l.WriteLCDC(0x81) // LCD on, BG/W on, tile map low ($9800), data area low ($8800 signed mode)
	l.WriteBGP(0b11_10_01_00)
	req := &fakeRequester{}
	p := New(l, req)

	// Tile map entry 0 (row 0, col 0 -> $9800) names tile index 0,
	// which the $8800 addressing mode remaps to unsigned 128, living
	// at $8800 + 128*16 = $9000 - not at $8800 itself.
	p.WriteVRAM(0x9800, 0x00)

	// Plant a distinctive pattern at the correct ($9000) location...
	p.WriteVRAM(0x9000, 0xAA)
	p.WriteVRAM(0x9001, 0x00)
	// ...and a different one at the bug's old (wrong) $8800 location, so
	// the test fails loudly if the fetch ever reads from there again.
	p.WriteVRAM(0x8800, 0x00)
	p.WriteVRAM(0x8801, 0xFF)

	l.SetMode(lcd.ModeOAM)
	for i := 0; i < 80; i++ {
		p.Tick()
	}
	for i := 0; i < dotsPerLine && l.Mode() == lcd.ModeXFer; i++ {
		p.Tick()
	}

	// Row 0, column 0 of the $9000 pattern (lo=0xAA, hi=0x00) decodes
	// to color index 1 (bit 7: lo=1, hi=0); the $8800 pattern would
	// instead decode bit 7 as lo=0,hi=1 -> color index 2.
	want := l.BGColors[1]
	if p.frame[0] != want {
		t.Errorf("frame[0] = %#08x, want %#08x (color index 1, from the $9000 tile data)", p.frame[0], want)
	}
}
