// Package cartridge implements support for the DMG ROM image format.
// https://gbdev.io/pandocs/The_Cartridge_Header.html
package cartridge

import (
	"fmt"
	"strings"
)

const (
	HEADER_SIZE  = 0x150
	TITLE_START  = 0x0134
	TITLE_END    = 0x0143
	CART_TYPE    = 0x0147
	ROM_SIZE     = 0x0148
	RAM_SIZE     = 0x0149
	LICENSEE_OLD = 0x014B
	VERSION      = 0x014C
	HEADER_CKSUM = 0x014D
)

type header struct {
	title     string
	cartType  uint8
	romSize   uint8
	ramSize   uint8
	licensee  uint8
	version   uint8
	checksum  uint8
	raw       []byte
}

func (h *header) String() string {
	return fmt.Sprintf("%s, type(%02x), rom(%d), ram(%d), version(%d), checksum(%02x)", h.title, h.cartType, h.romSize, h.ramSize, h.version, h.checksum)
}

func parseHeader(rom []byte) (*header, error) {
	if len(rom) < HEADER_SIZE {
		return nil, fmt.Errorf("ROM image too small to contain a header (%d bytes, want >= %d)", len(rom), HEADER_SIZE)
	}

	h := &header{
		title:    strings.TrimRight(string(rom[TITLE_START:TITLE_END+1]), "\x00"),
		cartType: rom[CART_TYPE],
		romSize:  rom[ROM_SIZE],
		ramSize:  rom[RAM_SIZE],
		licensee: rom[LICENSEE_OLD],
		version:  rom[VERSION],
		checksum: rom[HEADER_CKSUM],
		raw:      rom,
	}

	return h, nil
}

// romSizeBytes decodes the ROM-size header byte into a byte count. It
// is informational only - we never bank-switch.
func (h *header) romSizeBytes() int {
	return 32 * 1024 << h.romSize
}

// ramSizeBytes decodes the RAM-size header byte into a byte count.
func (h *header) ramSizeBytes() int {
	switch h.ramSize {
	case 0:
		return 0
	case 1:
		return 2 * 1024
	case 2:
		return 8 * 1024
	case 3:
		return 32 * 1024
	case 4:
		return 128 * 1024
	case 5:
		return 64 * 1024
	default:
		return 0
	}
}

// validateChecksum replays the header checksum loop documented at
// https://gbdev.io/pandocs/The_Cartridge_Header.html#014d--header-checksum
// and treats the header as invalid only when the result is zero; unlike
// the check described there, it does not compare the result against the
// stored checksum byte.
func (h *header) validateChecksum() error {
	var x uint8
	for i := TITLE_START; i <= VERSION; i++ {
		x = x - h.raw[i] - 1
	}

	if x&0xFF == 0 {
		return fmt.Errorf("header checksum invalid: computed %02x", x)
	}

	return nil
}
