// Package ppu implements the DMG pixel-processing unit: the mode
// state machine (OAM scan, pixel transfer, H-blank, V-blank) driving
// a background pixel FIFO into a 160x144 framebuffer.
package ppu

import (
	"github.com/bdwalton/gindmg/interrupt"
	"github.com/bdwalton/gindmg/lcd"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	linesPerFrame = 154
	dotsPerLine   = 456

	vramSize = 0x2000
	oamSize  = 0xA0
)

// Requester is the subset of interrupt.Controller the PPU needs to
// raise VBlank and LCDStat.
type Requester interface {
	Request(interrupt.Source)
}

type fetchState uint8

const (
	fetchTile fetchState = iota
	fetchData0
	fetchData1
	fetchSleep
	fetchPush
)

// PPU owns VRAM, OAM, the pixel FIFO pipeline state, and the
// current-frame framebuffer. It reads LCDC/SCX/SCY/LY/LYC through the
// shared *lcd.LCD register block and raises interrupts through ic.
type PPU struct {
	lcd *lcd.LCD
	ic  Requester

	vram [vramSize]uint8
	oam  [oamSize]uint8

	lineTicks int

	fetchSt    fetchState
	fetchX     uint8
	fetchTileX uint8
	tileIdx    uint8
	bgData0    uint8
	bgData1    uint8

	fifo    []uint8
	lineX   uint8
	pushedX uint8

	frame      [ScreenWidth * ScreenHeight]uint32
	frameCount uint64
}

func New(l *lcd.LCD, ic Requester) *PPU {
	p := &PPU{lcd: l, ic: ic}
	p.fifo = make([]uint8, 0, 16)
	return p
}

func (p *PPU) ReadVRAM(addr uint16) uint8    { return p.vram[addr-0x8000] }
func (p *PPU) WriteVRAM(addr uint16, v uint8) { p.vram[addr-0x8000] = v }

// ReadOAM is a plain indexed read; masking OAM reads to 0xFF while DMA
// owns the bus is done by the bus, not here.
func (p *PPU) ReadOAM(idx uint8) uint8 { return p.oam[idx] }

// WriteOAM satisfies dma.OAM.
func (p *PPU) WriteOAM(idx uint8, v uint8) { p.oam[idx] = v }

// Frame returns the current framebuffer as 160x144 32-bit ABGR pixels.
func (p *PPU) Frame() []uint32 { return p.frame[:] }

func (p *PPU) FrameCount() uint64 { return p.frameCount }

// Tick advances the PPU by one dot.
func (p *PPU) Tick() {
	if !p.lcd.LCDEnabled() {
		return
	}

	p.lineTicks++

	switch p.lcd.Mode() {
	case lcd.ModeOAM:
		p.tickOAM()
	case lcd.ModeXFer:
		p.tickXFer()
	case lcd.ModeHBlank:
		p.tickHBlank()
	case lcd.ModeVBlank:
		p.tickVBlank()
	}
}

func (p *PPU) tickOAM() {
	if p.lineTicks >= 80 {
		p.enterMode(lcd.ModeXFer)
		p.resetPipeline()
	}
}

func (p *PPU) tickXFer() {
	p.pipelineProcess()
	if p.pushedX >= ScreenWidth {
		p.fifo = p.fifo[:0]
		p.enterMode(lcd.ModeHBlank)
	}
}

func (p *PPU) tickHBlank() {
	if p.lineTicks < dotsPerLine {
		return
	}

	p.incrementLY()
	p.lineTicks = 0

	if p.lcd.LY() >= ScreenHeight {
		p.enterMode(lcd.ModeVBlank)
		p.ic.Request(interrupt.VBlank)
		p.frameCount++
	} else {
		p.enterMode(lcd.ModeOAM)
	}
}

func (p *PPU) tickVBlank() {
	if p.lineTicks < dotsPerLine {
		return
	}

	p.incrementLY()
	p.lineTicks = 0

	if p.lcd.LY() >= linesPerFrame {
		p.lcd.SetLY(0)
		p.enterMode(lcd.ModeOAM)
	}
}

func (p *PPU) incrementLY() {
	p.lcd.SetLY(p.lcd.LY() + 1)
	if p.lcd.UpdateLYC() {
		p.ic.Request(interrupt.LCDStat)
	}
}

// enterMode sets the STAT mode bits and raises LCDStat if this mode's
// interrupt-select bit is enabled. STAT interrupts are level-triggered
// on mode entry, not edge-detected via a separate STAT line.
func (p *PPU) enterMode(m lcd.Mode) {
	p.lcd.SetMode(m)
	if p.lcd.ModeInterruptEnabled(m) {
		p.ic.Request(interrupt.LCDStat)
	}
}

func (p *PPU) resetPipeline() {
	p.fetchSt = fetchTile
	p.fetchX = 0
	p.lineX = 0
	p.pushedX = 0
	p.fifo = p.fifo[:0]
}

func (p *PPU) bgTileMapBase() uint16 {
	if p.lcd.BGTileMapHigh() {
		return 0x9C00
	}
	return 0x9800
}

// bgwDataBase returns the tile-data block base: $8000 (unsigned index)
// or $8800 (signed index, remapped to unsigned by the +128 in
// pipelineFetch's TILE step) per LCDC bit 4.
func (p *PPU) bgwDataBase() uint16 {
	if p.lcd.BGWDataAreaLow() {
		return 0x8800
	}
	return 0x8000
}

// pipelineProcess runs one dot of the pixel-transfer pipeline: it
// recomputes the fetcher's map coordinates, advances the fetcher every
// other dot, and attempts to pop/push one pixel every dot.
func (p *PPU) pipelineProcess() {
	p.pipelineFetchMaybe()
	p.pipelinePushPixel()
}

func (p *PPU) pipelineFetchMaybe() {
	if p.lineTicks&1 != 0 {
		return
	}
	p.pipelineFetch()
}

func (p *PPU) pipelineFetch() {
	mapY := p.lcd.LY() + p.lcd.SCY()
	mapX := p.fetchX + p.lcd.SCX()
	tileY := (mapY % 8) * 2

	switch p.fetchSt {
	case fetchTile:
		if p.lcd.BGWEnabled() {
			base := p.bgTileMapBase()
			off := uint16(mapX/8) + uint16(mapY/8)*32
			p.tileIdx = p.vram[base+off-0x8000]
			if p.lcd.BGWDataAreaLow() {
				p.tileIdx += 128
			}
		} else {
			p.tileIdx = 0
		}
		p.fetchTileX = p.fetchX
		p.fetchX += 8
		p.fetchSt = fetchData0

	case fetchData0:
		addr := p.bgwDataBase() + uint16(p.tileIdx)*16 + uint16(tileY)
		p.bgData0 = p.vram[addr-0x8000]
		p.fetchSt = fetchData1

	case fetchData1:
		addr := p.bgwDataBase() + uint16(p.tileIdx)*16 + uint16(tileY) + 1
		p.bgData1 = p.vram[addr-0x8000]
		p.fetchSt = fetchSleep

	case fetchSleep:
		p.fetchSt = fetchPush

	case fetchPush:
		if len(p.fifo) <= 8 {
			p.pipelineFIFOAdd()
			p.fetchSt = fetchTile
		}
	}
}

// pipelineFIFOAdd decodes the 8 pixels of the fetched tile row and
// pushes them into the FIFO, bit 7 first. Pixels that would land left
// of the screen because of a mid-tile horizontal scroll are discarded.
func (p *PPU) pipelineFIFOAdd() {
	scx := p.lcd.SCX() % 8
	for i := 0; i < 8; i++ {
		bit := 7 - i
		lo := (p.bgData0 >> uint(bit)) & 1
		hi := (p.bgData1 >> uint(bit)) & 1
		colorIdx := hi<<1 | lo

		x := int(p.fetchTileX) + i - int(scx)
		if x < 0 {
			continue
		}
		p.fifo = append(p.fifo, colorIdx)
	}
}

func (p *PPU) pipelinePushPixel() {
	if len(p.fifo) > 8 {
		colorIdx := p.fifo[0]
		p.fifo = p.fifo[1:]

		if p.lineX >= p.lcd.SCX()%8 && int(p.pushedX) < ScreenWidth {
			y := int(p.lcd.LY())
			p.frame[y*ScreenWidth+int(p.pushedX)] = p.lcd.BGColors[colorIdx]
			p.pushedX++
		}
	}
	p.lineX++
}
