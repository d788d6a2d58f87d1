package cartridge

import (
	"fmt"
	"os"
)

// Cartridge wraps a flat-mapped DMG ROM image. Bank switching (MBC1 and
// later) is out of scope; addresses beyond the image wrap modulo its
// length instead of switching banks.
type Cartridge struct {
	path string
	h    *header
	rom  []byte
	ram  []byte
}

// New loads a ROM image from path and parses its header. It does not
// validate the header checksum - call ValidateChecksum for that.
func New(path string) (*Cartridge, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read ROM file %q: %w", path, err)
	}

	h, err := parseHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse header for %q: %w", path, err)
	}

	return &Cartridge{
		path: path,
		h:    h,
		rom:  raw,
		ram:  make([]byte, h.ramSizeBytes()),
	}, nil
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("%s: %s", c.path, c.h)
}

func (c *Cartridge) Title() string {
	return c.h.title
}

func (c *Cartridge) Type() uint8 {
	return c.h.cartType
}

func (c *Cartridge) ROMSize() int {
	return c.h.romSizeBytes()
}

func (c *Cartridge) RAMSize() int {
	return c.h.ramSizeBytes()
}

// ValidateChecksum replays the header checksum algorithm over
// $0134-$014C and returns an error if the recomputed value is zero. The
// stored checksum byte at $014D is not compared.
func (c *Cartridge) ValidateChecksum() error {
	return c.h.validateChecksum()
}

// Read returns the byte mapped to addr in the $0000-$7FFF ROM window.
// Addresses past the end of the physical image wrap modulo its length.
func (c *Cartridge) Read(addr uint16) uint8 {
	if len(c.rom) == 0 {
		return 0xFF
	}
	return c.rom[int(addr)%len(c.rom)]
}

// Write handles writes into the $0000-$7FFF window. With no MBC
// present, these are simply discarded - a real cartridge without bank
// switching has no writable register here.
func (c *Cartridge) Write(addr uint16, val uint8) {}

// RAMRead returns the byte mapped to addr in the $A000-$BFFF cartridge
// RAM window, or 0xFF if the cartridge carries no RAM.
func (c *Cartridge) RAMRead(addr uint16) uint8 {
	if len(c.ram) == 0 {
		return 0xFF
	}
	return c.ram[int(addr)%len(c.ram)]
}

func (c *Cartridge) RAMWrite(addr uint16, val uint8) {
	if len(c.ram) == 0 {
		return
	}
	c.ram[int(addr)%len(c.ram)] = val
}
