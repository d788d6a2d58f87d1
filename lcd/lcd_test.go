package lcd

import "testing"

func TestLCDCBitAccessors(t *testing.T) {
	l := New()
	l.WriteLCDC(lcdcEnable | lcdcObjEnable | lcdcBGWEnable)
	if !l.LCDEnabled() || !l.ObjEnabled() || !l.BGWEnabled() {
		t.Error("expected LCD/obj/bgw enabled bits to read back set")
	}
	if l.WinEnabled() || l.ObjTallSprites() {
		t.Error("expected window/tall-sprite bits to read back clear")
	}
}

func TestSTATModeRoundTrip(t *testing.T) {
	l := New()
	l.SetMode(ModeXFer)
	if l.Mode() != ModeXFer {
		t.Errorf("Mode() = %v, want ModeXFer", l.Mode())
	}
	if l.ReadSTAT()&0x80 == 0 {
		t.Error("STAT top bit should always read as 1")
	}
}

func TestWriteSTATPreservesModeAndLYCBits(t *testing.T) {
	l := New()
	l.SetMode(ModeOAM)
	l.UpdateLYC() // ly(0) != lyc(0) is false by default -> sets LYC bit actually
	before := l.ReadSTAT() & (statModeMask | statLYCEqual)

	l.WriteSTAT(0xFF)

	after := l.ReadSTAT() & (statModeMask | statLYCEqual)
	if before != after {
		t.Errorf("mode/LYC bits changed by WriteSTAT: before=%02x after=%02x", before, after)
	}
	if l.ReadSTAT()&statLYCInt == 0 {
		t.Error("WriteSTAT(0xFF) should set the LYC interrupt-select bit")
	}
}

func TestUpdateLYCSignalsWhenEqualAndEnabled(t *testing.T) {
	l := New()
	l.WriteSTAT(statLYCInt)
	l.SetLY(42)
	l.WriteLYC(42)
	if !l.UpdateLYC() {
		t.Error("UpdateLYC() should report an interrupt when LY==LYC and the select bit is set")
	}
	if l.ReadSTAT()&statLYCEqual == 0 {
		t.Error("STAT LYC==LY flag should be set")
	}
}

func TestUpdateLYCNoInterruptWhenSelectBitClear(t *testing.T) {
	l := New()
	l.SetLY(10)
	l.WriteLYC(10)
	if l.UpdateLYC() {
		t.Error("UpdateLYC() should not report an interrupt when the LYC select bit is clear")
	}
}

func TestBGPDecodesFourShades(t *testing.T) {
	l := New()
	l.WriteBGP(0b11_10_01_00) // shade3<<6 | shade2<<4 | shade1<<2 | shade0
	if l.BGColors[0] != defaultPalette[0] || l.BGColors[3] != defaultPalette[3] {
		t.Errorf("BGColors = %v, want identity mapping onto defaultPalette", l.BGColors)
	}
}

func TestOBPForcesIndexZeroTransparent(t *testing.T) {
	l := New()
	l.WriteOBP0(0b11_10_01_11) // shade3<<6 | shade2<<4 | shade1<<2 | shade0=3
	if l.Obj0Colors[0] != 0 {
		t.Errorf("Obj0Colors[0] = %#08x, want 0 (transparent) regardless of the palette bits", l.Obj0Colors[0])
	}
	if l.Obj0Colors[3] != defaultPalette[3] {
		t.Errorf("Obj0Colors[3] = %v, want identity mapping onto defaultPalette", l.Obj0Colors[3])
	}

	l.WriteOBP1(0b11_10_01_00)
	if l.Obj1Colors[0] != 0 {
		t.Errorf("Obj1Colors[0] = %#08x, want 0 (transparent) regardless of the palette bits", l.Obj1Colors[0])
	}
}
