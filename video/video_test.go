package video

import (
	"image/color"
	"testing"
)

func TestAbgrToColorUnpacksChannelsInOrder(t *testing.T) {
	// A=0xFF, B=0x11, G=0x22, R=0x33 packed high-to-low.
	v := uint32(0xFF112233)
	got := abgrToColor(v)
	want := color.RGBA{R: 0x33, G: 0x22, B: 0x11, A: 0xFF}
	if got != want {
		t.Errorf("abgrToColor(%#08x) = %+v, want %+v", v, got, want)
	}
}

func TestWindowSizeScalesByFactorAndAddsTilesetWidth(t *testing.T) {
	g := &Game{scale: 3, debug: false}
	w, h := g.WindowSize()
	if w != 160*3 || h != 144*3 {
		t.Errorf("WindowSize() = (%d,%d), want (480,432)", w, h)
	}

	g.debug = true
	w, _ = g.WindowSize()
	if w != 160*3+tilesetWidth {
		t.Errorf("WindowSize() with debug = %d, want %d", w, 160*3+tilesetWidth)
	}
}

func TestTitleIncludesROMName(t *testing.T) {
	got := Title("TETRIS")
	if got != "gindmg - TETRIS" {
		t.Errorf("Title() = %q, want %q", got, "gindmg - TETRIS")
	}
}
