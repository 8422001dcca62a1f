package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// DefaultKeyMap lays the hex keypad over the left of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
//
// 0 on the number row is also key 0.
func DefaultKeyMap() map[pixelgl.Button]uint8 {
	return map[pixelgl.Button]uint8{
		pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
		pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
		pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
		pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
		pixelgl.Key0: 0x0,
	}
}

// ParseKeyMap applies overrides, button name to hex digit, on top of the
// default map. Names are pixelgl button names and are case insensitive.
func ParseKeyMap(overrides map[string]string) (map[pixelgl.Button]uint8, error) {
	keyMap := DefaultKeyMap()
	for name, value := range overrides {
		button, ok := buttonByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		key, err := parseHexKey(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		keyMap[button] = key
	}
	return keyMap, nil
}

func buttonByName(name string) (pixelgl.Button, bool) {
	for b := pixelgl.KeySpace; b <= pixelgl.KeyLast; b++ {
		if strings.EqualFold(b.String(), name) {
			return b, true
		}
	}
	return 0, false
}

func parseHexKey(s string) (uint8, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil || v >= cpu.KeyCount {
		return 0, fmt.Errorf("%q is not a hex key 0-F", s)
	}
	return uint8(v), nil
}
