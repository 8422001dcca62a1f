package screen

import (
	"testing"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanboi7/chyp8/emu/cpu"
)

func TestPixelRects(t *testing.T) {
	var fb cpu.Framebuffer
	// (0, 0) and (63, 31)
	fb[0] = true
	fb[(cpu.ScreenHeight-1)*cpu.ScreenWidth+cpu.ScreenWidth-1] = true

	rects := pixelRects(&fb, 10)
	require.Len(t, rects, 2)

	assert.Equal(t, pixel.R(0, 310, 10, 320), rects[0], "top-left")
	assert.Equal(t, pixel.R(630, 0, 640, 10), rects[1], "bottom-right")
}

func TestPixelRectsEmpty(t *testing.T) {
	var fb cpu.Framebuffer
	assert.Empty(t, pixelRects(&fb, 15))
}

func TestDefaultKeyMap(t *testing.T) {
	keyMap := DefaultKeyMap()

	seen := map[uint8]bool{}
	for _, key := range keyMap {
		seen[key] = true
	}
	assert.Len(t, seen, cpu.KeyCount, "every hex key reachable")
	assert.Equal(t, uint8(0xC), keyMap[pixelgl.Key4])
	assert.Equal(t, uint8(0x0), keyMap[pixelgl.KeyX])
	assert.Equal(t, uint8(0xF), keyMap[pixelgl.KeyV])
}

func TestParseKeyMap(t *testing.T) {
	keyMap, err := ParseKeyMap(map[string]string{"j": "4", "K": "0xd"})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x4), keyMap[pixelgl.KeyJ])
	assert.Equal(t, uint8(0xD), keyMap[pixelgl.KeyK])
	assert.Equal(t, uint8(0x4), keyMap[pixelgl.KeyQ], "defaults kept")

	_, err = ParseKeyMap(map[string]string{"nosuchkey": "1"})
	assert.Error(t, err)

	_, err = ParseKeyMap(map[string]string{"j": "10"})
	assert.Error(t, err)

	_, err = ParseKeyMap(map[string]string{"j": "g"})
	assert.Error(t, err)
}

func TestParseKeyMapNil(t *testing.T) {
	keyMap, err := ParseKeyMap(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyMap(), keyMap)
}
