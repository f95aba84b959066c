// Package controls turns keyboard and mouse input into camera operations.
//
// It knows nothing about SDL: the event loop translates platform key codes
// into Key values and forwards them here.
package controls

import (
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/engine/camera"
	"github.com/Faultbox/multicube/internal/logger"
)

// Key is a platform independent key identifier.
type Key int

// Keys the demo reacts to.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyF
	KeyZ
	KeyX
	KeyL
	KeyUp
	KeyDown
	KeyEscape
	KeyEnter
	KeyF12
)

// Command is a request for the event loop that the camera cannot serve.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandToggleFullscreen
	CommandToggleLighting
	CommandScreenshot
)

// Camera is the subset of *camera.Camera driven by input.
type Camera interface {
	ProcessMovement(dir camera.Movement, magnitude float32)
	ProcessMouseMovement(dx, dy float32)
	ProcessScroll(dir camera.Movement)
	Reset()
	Reverse()
}

// moveKeys are applied every frame while held.
var moveKeys = map[Key]camera.Movement{
	KeyW: camera.Forward,
	KeyS: camera.Backward,
	KeyA: camera.Left,
	KeyD: camera.Right,
	KeyR: camera.Up,
	KeyF: camera.Down,
}

// zoomKeys go through the clamped scroll path and honor key repeat.
var zoomKeys = map[Key]camera.Movement{
	KeyUp:   camera.Closer,
	KeyDown: camera.Away,
}

// Controller maps input to camera operations.
type Controller struct {
	cam      Camera
	keySpeed float32
	held     map[Key]bool
	mouse    MouseTracker
	log      *zap.Logger
}

// New creates a controller driving cam. keySpeed times the frame time in
// seconds is the magnitude of each keyboard move.
func New(cam Camera, keySpeed float32) *Controller {
	return &Controller{
		cam:      cam,
		keySpeed: keySpeed,
		held:     make(map[Key]bool),
		log:      logger.Named("controls"),
	}
}

// KeyDown handles a key press. alt reports whether an Alt modifier is held,
// repeat whether the press was generated by key repeat.
func (c *Controller) KeyDown(k Key, alt, repeat bool) Command {
	if dir, ok := zoomKeys[k]; ok {
		c.cam.ProcessScroll(dir)
		return CommandNone
	}
	if repeat {
		return CommandNone
	}
	if _, ok := moveKeys[k]; ok {
		c.held[k] = true
		return CommandNone
	}

	switch k {
	case KeyZ:
		c.log.Debug("camera reset")
		c.cam.Reset()
	case KeyX:
		c.log.Debug("camera reversed")
		c.cam.Reverse()
	case KeyF12:
		return CommandScreenshot
	case KeyL:
		return CommandToggleLighting
	case KeyEscape:
		return CommandQuit
	case KeyEnter:
		if alt {
			return CommandToggleFullscreen
		}
	}
	return CommandNone
}

// KeyUp handles a key release.
func (c *Controller) KeyUp(k Key) {
	delete(c.held, k)
}

// Held reports whether a movement key is currently held.
func (c *Controller) Held(k Key) bool {
	return c.held[k]
}

// ReleaseAll forgets every held key, e.g. when the window loses focus.
func (c *Controller) ReleaseAll() {
	clear(c.held)
}

// MouseMotion feeds an absolute pointer position. The first sample after
// construction or ResetMouse only primes the tracker.
func (c *Controller) MouseMotion(x, y int) {
	if dx, dy, ok := c.mouse.Move(x, y); ok {
		c.cam.ProcessMouseMovement(dx, dy)
	}
}

// ResetMouse makes the next pointer sample a priming one again.
func (c *Controller) ResetMouse() {
	c.mouse.Reset()
}

// Wheel handles a scroll of y notches; positive y scrolls away from the
// user and zooms in.
func (c *Controller) Wheel(y int) {
	dir := camera.Closer
	if y < 0 {
		dir = camera.Away
		y = -y
	}
	for range y {
		c.cam.ProcessScroll(dir)
	}
}

// Update applies every held movement key for a frame of dt seconds.
func (c *Controller) Update(dt float64) {
	if len(c.held) == 0 || dt <= 0 {
		return
	}
	magnitude := c.keySpeed * float32(dt)
	// Iterate the fixed key order so opposing keys cancel deterministically.
	for _, k := range [...]Key{KeyW, KeyS, KeyA, KeyD, KeyR, KeyF} {
		if c.held[k] {
			c.cam.ProcessMovement(moveKeys[k], magnitude)
		}
	}
}
