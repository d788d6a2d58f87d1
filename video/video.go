// Package video wraps a *machine.Machine as an ebiten.Game, grounded in
// the teacher's console.Bus: the aggregate implements Layout/Draw/Update
// directly rather than delegating to a separate renderer type. Unlike
// the teacher, this package never touches CPU/PPU state itself - it only
// ever reads the snapshot and frame counter the simulation thread
// publishes, per spec.md §5.
package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bdwalton/gindmg/input"
	"github.com/bdwalton/gindmg/machine"
	"github.com/bdwalton/gindmg/ppu"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	tilesPerRow  = 16
	tileRows     = 24
	tileSize     = 8
	tilesetWidth = tilesPerRow * tileSize
	tilesetHight = tileRows * tileSize
)

// keymap mirrors the teacher's console/controller.go style of polling
// ebiten.IsKeyPressed into button state, generalized from the NES pad's
// 8 buttons to the DMG's 8 (4 direction + 4 action).
var keymap = []struct {
	key   ebiten.Key
	bit   uint8
	group input.ButtonGroup
}{
	{ebiten.KeyArrowRight, input.ButtonRight, input.Direction},
	{ebiten.KeyArrowLeft, input.ButtonLeft, input.Direction},
	{ebiten.KeyArrowUp, input.ButtonUp, input.Direction},
	{ebiten.KeyArrowDown, input.ButtonDown, input.Direction},
	{ebiten.KeyZ, input.ButtonA, input.Buttons},
	{ebiten.KeyX, input.ButtonB, input.Buttons},
	{ebiten.KeyBackspace, input.ButtonSelect, input.Buttons},
	{ebiten.KeyEnter, input.ButtonStart, input.Buttons},
}

// Game is the ebiten.Game implementation driving presentation. It is the
// sole reader of Machine.FrameSnapshot; the simulation
// goroutine is the sole writer.
type Game struct {
	m     *machine.Machine
	scale int
	debug bool

	lastSeq uint64
	pixels  []uint32

	tileset *ebiten.Image
}

// New constructs a Game with the given integer window scale. debug
// enables the second tileset-debug window (spec.md §6's -debug flag).
func New(m *machine.Machine, scale int, debug bool) *Game {
	g := &Game{
		m:     m,
		scale: scale,
		debug: debug,
	}
	if debug {
		g.tileset = ebiten.NewImage(tilesetWidth, tilesetHight)
	}
	return g
}

// Layout returns the DMG's fixed native resolution; ebiten scales the
// window to it, matching the teacher's GetResolution()-returns-constants
// comment in console/bus.go.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

// Update polls the keyboard into the joypad register and, on Escape,
// stops the machine and ends the game loop. It does not step the
// simulation, which runs on its own goroutine, exactly as the teacher's
// Bus.Update comment documents.
func (g *Game) Update() error {
	if g.m.Joy == nil {
		return nil
	}
	for _, k := range keymap {
		g.m.Joy.SetButton(k.bit, k.group, ebiten.IsKeyPressed(k.key))
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.m.Stop()
		return ebiten.Termination
	}
	return nil
}

// Draw blits the most recent published frame. A stale (unchanged)
// sequence number is still drawn - ebiten calls Draw up to the display's
// refresh rate, well above the DMG's ~59.7Hz frame cadence.
func (g *Game) Draw(screen *ebiten.Image) {
	snap, seq := g.m.FrameSnapshot()
	if seq != g.lastSeq || g.pixels == nil {
		g.lastSeq = seq
		g.pixels = snap
	}

	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for i, px := range g.pixels {
		img.Set(i%ppu.ScreenWidth, i/ppu.ScreenWidth, abgrToColor(px))
	}
	screen.WritePixels(img.Pix)

	if g.debug {
		g.drawTileset()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(ppu.ScreenWidth), 0)
		screen.DrawImage(g.tileset, op)
	}
}

// drawTileset redraws the 16x24 grid of 8x8 tiles live from VRAM, the
// idiomatic-Go reworking of original_source's display_tile debug
// routine (an imperative SDL canvas loop there; an ebiten.Image blit
// here).
func (g *Game) drawTileset() {
	img := image.NewRGBA(image.Rect(0, 0, tilesetWidth, tilesetHight))
	for tile := 0; tile < tilesPerRow*tileRows; tile++ {
		tx := (tile % tilesPerRow) * tileSize
		ty := (tile / tilesPerRow) * tileSize
		base := uint16(0x8000 + tile*16)
		for row := 0; row < tileSize; row++ {
			lo := g.m.PPU.ReadVRAM(base + uint16(row)*2)
			hi := g.m.PPU.ReadVRAM(base + uint16(row)*2 + 1)
			for col := 0; col < tileSize; col++ {
				bit := 7 - col
				colorIdx := ((hi>>uint(bit))&1)<<1 | (lo>>uint(bit))&1
				img.Set(tx+col, ty+row, abgrToColor(g.m.LCD.BGColors[colorIdx]))
			}
		}
	}
	g.tileset.WritePixels(img.Pix)
}

// abgrToColor unpacks a framebuffer word as spec.md §6 names it: alpha
// in the high byte, then blue, green, red down to the low byte.
func abgrToColor(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// WindowSize returns the scaled main-window dimensions for
// ebiten.SetWindowSize, adding the debug tileset's width when enabled.
func (g *Game) WindowSize() (int, int) {
	w := ppu.ScreenWidth * g.scale
	if g.debug {
		w += tilesetWidth
	}
	return w, ppu.ScreenHeight * g.scale
}

// Title matches the teacher's static ebiten.SetWindowTitle("Gintendo")
// call, generalized to report the loaded ROM's name.
func Title(romTitle string) string {
	return fmt.Sprintf("gindmg - %s", romTitle)
}
