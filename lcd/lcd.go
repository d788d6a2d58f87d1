// Package lcd models the DMG's LCD control/status register block at
// $FF40-$FF4B, plus the BG/OBJ palette decode tables the PPU consumes.
package lcd

// Mode is the PPU's current STAT mode (bits 0-1 of STAT).
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeXFer   Mode = 3
)

// LCDC bits.
const (
	lcdcEnable      uint8 = 1 << 7
	lcdcWinMap      uint8 = 1 << 6
	lcdcWinEnable   uint8 = 1 << 5
	lcdcBGWDataArea uint8 = 1 << 4
	lcdcBGMap       uint8 = 1 << 3
	lcdcObjSize     uint8 = 1 << 2
	lcdcObjEnable   uint8 = 1 << 1
	lcdcBGWEnable   uint8 = 1 << 0
)

// STAT bits.
const (
	statLYCInt    uint8 = 1 << 6
	statOAMInt    uint8 = 1 << 5
	statVBlankInt uint8 = 1 << 4
	statHBlankInt uint8 = 1 << 3
	statLYCEqual  uint8 = 1 << 2
	statModeMask  uint8 = 0x03
)

// LCD holds the DMG's LCD register file and the grayscale colors the
// BGP/OBP0/OBP1 palette registers decode into.
type LCD struct {
	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	BGColors   [4]uint32
	Obj0Colors [4]uint32
	Obj1Colors [4]uint32
}

// defaultPalette is a four-shade gray ramp,
// lightest to darkest, used whenever a palette register selects shade 0..3.
var defaultPalette = [4]uint32{0xFFFFFFFF, 0xFFAAAAAA, 0xFF555555, 0xFF000000}

func New() *LCD {
	l := &LCD{}
	l.decodeBGP()
	l.decodeOBP(0)
	l.decodeOBP(1)
	return l
}

func (l *LCD) ReadLCDC() uint8   { return l.lcdc }
func (l *LCD) WriteLCDC(v uint8) { l.lcdc = v }

func (l *LCD) LCDEnabled() bool    { return l.lcdc&lcdcEnable != 0 }
func (l *LCD) WinTileMapHigh() bool { return l.lcdc&lcdcWinMap != 0 }
func (l *LCD) WinEnabled() bool    { return l.lcdc&lcdcWinEnable != 0 }
func (l *LCD) BGWDataAreaLow() bool { return l.lcdc&lcdcBGWDataArea == 0 } // $8800 signed-tile mode
func (l *LCD) BGTileMapHigh() bool { return l.lcdc&lcdcBGMap != 0 }
func (l *LCD) ObjTallSprites() bool { return l.lcdc&lcdcObjSize != 0 }
func (l *LCD) ObjEnabled() bool    { return l.lcdc&lcdcObjEnable != 0 }
func (l *LCD) BGWEnabled() bool    { return l.lcdc&lcdcBGWEnable != 0 }

// ReadSTAT returns STAT with its always-1 top bit set.
func (l *LCD) ReadSTAT() uint8 { return l.stat | 0x80 }

// WriteSTAT writes only the interrupt-select and unused bits; mode and
// LYC==LY are owned by the PPU state machine via SetMode/UpdateLYC.
func (l *LCD) WriteSTAT(v uint8) {
	l.stat = (l.stat & (statModeMask | statLYCEqual)) | (v &^ (statModeMask | statLYCEqual))
}

func (l *LCD) Mode() Mode { return Mode(l.stat & statModeMask) }

func (l *LCD) SetMode(m Mode) {
	l.stat = (l.stat &^ statModeMask) | uint8(m)
}

// ModeInterruptEnabled reports whether STAT is configured to raise
// LCDStat on entry to mode m. VBlank entry unconditionally raises the
// VBlank interrupt elsewhere; this only gates the LCDStat line.
func (l *LCD) ModeInterruptEnabled(m Mode) bool {
	switch m {
	case ModeHBlank:
		return l.stat&statHBlankInt != 0
	case ModeVBlank:
		return l.stat&statVBlankInt != 0
	case ModeOAM:
		return l.stat&statOAMInt != 0
	default:
		return false
	}
}

// UpdateLYC recomputes the LYC==LY flag and reports whether LY equals
// LYC while the LYC STAT interrupt-select bit is set. It does not track
// whether the match was already true on the previous call.
func (l *LCD) UpdateLYC() bool {
	eq := l.ly == l.lyc
	if eq {
		l.stat |= statLYCEqual
	} else {
		l.stat &^= statLYCEqual
	}
	return eq && l.stat&statLYCInt != 0
}

func (l *LCD) LY() uint8      { return l.ly }
func (l *LCD) SetLY(v uint8)  { l.ly = v }
func (l *LCD) LYC() uint8     { return l.lyc }
func (l *LCD) WriteLYC(v uint8) { l.lyc = v }

func (l *LCD) SCY() uint8      { return l.scy }
func (l *LCD) WriteSCY(v uint8) { l.scy = v }
func (l *LCD) SCX() uint8      { return l.scx }
func (l *LCD) WriteSCX(v uint8) { l.scx = v }
func (l *LCD) WY() uint8       { return l.wy }
func (l *LCD) WriteWY(v uint8)  { l.wy = v }
func (l *LCD) WX() uint8       { return l.wx }
func (l *LCD) WriteWX(v uint8)  { l.wx = v }

func (l *LCD) ReadBGP() uint8 { return l.bgp }
func (l *LCD) WriteBGP(v uint8) {
	l.bgp = v
	l.decodeBGP()
}

func (l *LCD) ReadOBP0() uint8 { return l.obp0 }
func (l *LCD) WriteOBP0(v uint8) {
	l.obp0 = v
	l.decodeOBP(0)
}

func (l *LCD) ReadOBP1() uint8 { return l.obp1 }
func (l *LCD) WriteOBP1(v uint8) {
	l.obp1 = v
	l.decodeOBP(1)
}

func (l *LCD) decodeBGP() {
	for i := 0; i < 4; i++ {
		l.BGColors[i] = defaultPalette[(l.bgp>>(uint(i)*2))&0x03]
	}
}

func (l *LCD) decodeOBP(which int) {
	reg := l.obp0
	dst := &l.Obj0Colors
	if which == 1 {
		reg = l.obp1
		dst = &l.Obj1Colors
	}
	// Object color index 0 is always transparent, regardless of what
	// the palette register encodes for it - it's never actually drawn.
	dst[0] = 0
	for i := 1; i < 4; i++ {
		dst[i] = defaultPalette[(reg>>(uint(i)*2))&0x03]
	}
}
