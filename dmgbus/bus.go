// Package dmgbus implements the DMG's ~64 KiB memory map, arbitrating
// accesses between cartridge, work RAM, VRAM/OAM (PPU), I/O registers,
// and high RAM.
package dmgbus

// Cartridge is the flat-mapped ROM/RAM region at $0000-$7FFF/$A000-$BFFF.
type Cartridge interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	RAMRead(addr uint16) uint8
	RAMWrite(addr uint16, val uint8)
}

// VideoMemory is the PPU's VRAM/OAM surface.
type VideoMemory interface {
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, val uint8)
	ReadOAM(idx uint8) uint8
	WriteOAM(idx uint8, val uint8)
}

// Timer is the DIV/TIMA/TMA/TAC register block.
type Timer interface {
	ReadDIV() uint8
	WriteDIV(uint8)
	ReadTIMA() uint8
	WriteTIMA(uint8)
	ReadTMA() uint8
	WriteTMA(uint8)
	ReadTAC() uint8
	WriteTAC(uint8)
}

// InterruptRegs is the IE/IF register pair.
type InterruptRegs interface {
	ReadIE() uint8
	WriteIE(uint8)
	ReadIF() uint8
	WriteIF(uint8)
}

// LCDRegs is the $FF40-$FF4B LCD register block.
type LCDRegs interface {
	ReadLCDC() uint8
	WriteLCDC(uint8)
	ReadSTAT() uint8
	WriteSTAT(uint8)
	SCY() uint8
	WriteSCY(uint8)
	SCX() uint8
	WriteSCX(uint8)
	LY() uint8
	LYC() uint8
	WriteLYC(uint8)
	ReadBGP() uint8
	WriteBGP(uint8)
	ReadOBP0() uint8
	WriteOBP0(uint8)
	ReadOBP1() uint8
	WriteOBP1(uint8)
	WY() uint8
	WriteWY(uint8)
	WX() uint8
	WriteWX(uint8)
}

// DMAController is the subset of dma.DMA the bus needs to trigger a
// transfer when $FF46 is written, and to ask whether OAM is currently
// locked out from CPU access.
type DMAController interface {
	Start(value uint8)
	Active() bool
}

// Joypad is the $FF00 register.
type Joypad interface {
	Read() uint8
	Write(val uint8)
}

const (
	wramSize = 0x2000
	hramSize = 0x7F
)

// Bus wires every memory-mapped component behind a single flat address
// space, dispatching each Read/Write to the region it falls in.
type Bus struct {
	Cart    Cartridge
	Video   VideoMemory
	Timer   Timer
	Irq     InterruptRegs
	LCD     LCDRegs
	DMA     DMAController
	Joypad  Joypad

	wram [wramSize]uint8
	hram [hramSize]uint8

	serialData uint8
	serialCtrl uint8

	// ioScratch backs any $FF03-$FF7F address with no dedicated
	// component, so unimplemented registers still round-trip reads
	// and writes instead of silently discarding them.
	ioScratch [0x80]uint8
}

func New() *Bus {
	return &Bus{}
}

func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.Video.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.RAMRead(addr - 0xA000)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xFDFF:
		// echo RAM reads return 0 rather than mirroring WRAM
		return 0
	case addr <= 0xFE9F:
		if b.DMA != nil && b.DMA.Active() {
			return 0xFF
		}
		return b.Video.ReadOAM(uint8(addr - 0xFE00))
	case addr <= 0xFEFF:
		return 0xFF
	case addr <= 0xFF7F:
		return b.readIO(addr)
	case addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		return b.Irq.ReadIE()
	}
}

func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.Write(addr, val)
	case addr <= 0x9FFF:
		b.Video.WriteVRAM(addr, val)
	case addr <= 0xBFFF:
		b.Cart.RAMWrite(addr-0xA000, val)
	case addr <= 0xDFFF:
		b.wram[addr-0xC000] = val
	case addr <= 0xFDFF:
		// echo RAM reads return 0 and writes are discarded
	case addr <= 0xFE9F:
		if b.DMA != nil && b.DMA.Active() {
			return
		}
		b.Video.WriteOAM(uint8(addr-0xFE00), val)
	case addr <= 0xFEFF:
		// unusable region
	case addr <= 0xFF7F:
		b.writeIO(addr, val)
	case addr <= 0xFFFE:
		b.hram[addr-0xFF80] = val
	default: // 0xFFFF
		b.Irq.WriteIE(val)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch addr {
	case 0xFF00:
		return b.Joypad.Read()
	case 0xFF01:
		return b.serialData
	case 0xFF02:
		return b.serialCtrl
	case 0xFF04:
		return b.Timer.ReadDIV()
	case 0xFF05:
		return b.Timer.ReadTIMA()
	case 0xFF06:
		return b.Timer.ReadTMA()
	case 0xFF07:
		return b.Timer.ReadTAC()
	case 0xFF0F:
		return b.Irq.ReadIF()
	case 0xFF40:
		return b.LCD.ReadLCDC()
	case 0xFF41:
		return b.LCD.ReadSTAT()
	case 0xFF42:
		return b.LCD.SCY()
	case 0xFF43:
		return b.LCD.SCX()
	case 0xFF44:
		return b.LCD.LY()
	case 0xFF45:
		return b.LCD.LYC()
	case 0xFF47:
		return b.LCD.ReadBGP()
	case 0xFF48:
		return b.LCD.ReadOBP0()
	case 0xFF49:
		return b.LCD.ReadOBP1()
	case 0xFF4A:
		return b.LCD.WY()
	case 0xFF4B:
		return b.LCD.WX()
	default:
		return b.ioScratch[addr-0xFF00]
	}
}

func (b *Bus) writeIO(addr uint16, val uint8) {
	switch addr {
	case 0xFF00:
		b.Joypad.Write(val)
	case 0xFF01:
		b.serialData = val
	case 0xFF02:
		b.serialCtrl = val
	case 0xFF04:
		b.Timer.WriteDIV(val)
	case 0xFF05:
		b.Timer.WriteTIMA(val)
	case 0xFF06:
		b.Timer.WriteTMA(val)
	case 0xFF07:
		b.Timer.WriteTAC(val)
	case 0xFF0F:
		b.Irq.WriteIF(val)
	case 0xFF40:
		b.LCD.WriteLCDC(val)
	case 0xFF41:
		b.LCD.WriteSTAT(val)
	case 0xFF42:
		b.LCD.WriteSCY(val)
	case 0xFF43:
		b.LCD.WriteSCX(val)
	case 0xFF45:
		b.LCD.WriteLYC(val)
	case 0xFF46:
		b.DMA.Start(val)
	case 0xFF47:
		b.LCD.WriteBGP(val)
	case 0xFF48:
		b.LCD.WriteOBP0(val)
	case 0xFF49:
		b.LCD.WriteOBP1(val)
	case 0xFF4A:
		b.LCD.WriteWY(val)
	case 0xFF4B:
		b.LCD.WriteWX(val)
	default:
		b.ioScratch[addr-0xFF00] = val
	}
}
