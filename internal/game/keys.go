package game

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/multicube/internal/game/controls"
)

var scancodeKeys = map[sdl.Scancode]controls.Key{
	sdl.SCANCODE_W:        controls.KeyW,
	sdl.SCANCODE_A:        controls.KeyA,
	sdl.SCANCODE_S:        controls.KeyS,
	sdl.SCANCODE_D:        controls.KeyD,
	sdl.SCANCODE_R:        controls.KeyR,
	sdl.SCANCODE_F:        controls.KeyF,
	sdl.SCANCODE_Z:        controls.KeyZ,
	sdl.SCANCODE_X:        controls.KeyX,
	sdl.SCANCODE_L:        controls.KeyL,
	sdl.SCANCODE_UP:       controls.KeyUp,
	sdl.SCANCODE_DOWN:     controls.KeyDown,
	sdl.SCANCODE_ESCAPE:   controls.KeyEscape,
	sdl.SCANCODE_RETURN:   controls.KeyEnter,
	sdl.SCANCODE_KP_ENTER: controls.KeyEnter,
	sdl.SCANCODE_F12:      controls.KeyF12,
}

// keyFor maps an SDL scancode to a control key.
func keyFor(sc sdl.Scancode) controls.Key {
	if k, ok := scancodeKeys[sc]; ok {
		return k
	}
	return controls.KeyUnknown
}
