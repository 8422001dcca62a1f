// Package screen is the pixelgl frontend: it renders the framebuffer as
// scaled squares and turns keyboard state into hex key events.
package screen

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/beanboi7/chyp8/emu/cpu"
)

const title = "Chyp8"

type Config struct {
	Scale int
	// Keys overrides entries of the default key map, button name to hex key.
	Keys map[string]string
}

type Window struct {
	*pixelgl.Window
	KeyMap map[pixelgl.Button]uint8

	scale float64
	imd   *imdraw.IMDraw
}

// NewWindow opens a window sized for the 64x32 display at cfg.Scale. It must
// be called from inside pixelgl.Run.
func NewWindow(cfg Config) (*Window, error) {
	keyMap, err := ParseKeyMap(cfg.Keys)
	if err != nil {
		return nil, err
	}

	scale := float64(cfg.Scale)
	win, err := pixelgl.NewWindow(pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, cpu.ScreenWidth*scale, cpu.ScreenHeight*scale),
		VSync:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("opening window: %w", err)
	}

	return &Window{
		Window: win,
		KeyMap: keyMap,
		scale:  scale,
		imd:    imdraw.New(nil),
	}, nil
}

// Draw renders lit pixels white on black.
func (w *Window) Draw(fb cpu.Framebuffer) {
	w.imd.Clear()
	w.imd.Color = colornames.White
	for _, r := range pixelRects(&fb, w.scale) {
		w.imd.Push(r.Min, r.Max)
		w.imd.Rectangle(0)
	}

	w.Clear(colornames.Black)
	w.imd.Draw(w)
}

// PollKeys reports the state of every mapped hex key. Escape closes the
// window.
func (w *Window) PollKeys(set func(key uint8, pressed bool)) {
	if w.JustPressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}

	var pressed [cpu.KeyCount]bool
	for button, key := range w.KeyMap {
		pressed[key] = pressed[key] || w.Pressed(button)
	}
	for key, p := range pressed {
		set(uint8(key), p)
	}
}

// ResetRequested reports a Backspace press since the last update.
func (w *Window) ResetRequested() bool {
	return w.JustPressed(pixelgl.KeyBackspace)
}

// pixelRects returns one square per lit pixel. pixel's origin is bottom-left,
// so rows are flipped.
func pixelRects(fb *cpu.Framebuffer, scale float64) []pixel.Rect {
	var rects []pixel.Rect
	height := cpu.ScreenHeight * scale
	for y := 0; y < cpu.ScreenHeight; y++ {
		for x := 0; x < cpu.ScreenWidth; x++ {
			if !fb.At(x, y) {
				continue
			}
			minX := float64(x) * scale
			maxY := height - float64(y)*scale
			rects = append(rects, pixel.R(minX, maxY-scale, minX+scale, maxY))
		}
	}
	return rects
}
