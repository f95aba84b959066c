// Package camera provides the Euler-angle fly camera used to navigate the
// cube field.
//
// Orientation has two sources of truth, and every mutator uses exactly one:
//
//   - angle-driven (mouse look, Reverse, SetOrientation, movement): yaw and
//     pitch produce front, then focus = position + front.
//   - focus-driven (New, Retarget): focus produces front, then yaw and pitch
//     are recovered from front.
//
// Right and up are always rebuilt from front and the world up vector rather
// than rotated incrementally, so no drift accumulates across frames.
//
// Pitch stays within (-90, 90] on every path. It is clamped to
// ±PitchLimit rather than wrapped by a floating-point remainder, so mouse
// look stops at the poles instead of flipping over them, and a focus
// straight above or below the camera records a pitch of ±PitchLimit while
// front still points at the focus. Yaw is wrapped into (-180, 180].
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/logger"
	"github.com/Faultbox/multicube/pkg/math"
)

// Default camera values.
const (
	DefaultMovementSpeed    = 0.1
	DefaultMouseSensitivity = 1.0
	DefaultZoom             = 45.0
	DefaultNear             = 0.1
	DefaultFar              = 10000.0

	MinZoom = 1.0
	MaxZoom = 90.0

	// PitchLimit keeps mouse look short of straight up or down, where the
	// right vector would collapse.
	PitchLimit = 89.0
)

var (
	// ErrInvalidViewport is returned for a viewport with a non-positive
	// width or height.
	ErrInvalidViewport = errors.New("camera: invalid viewport")

	// ErrCoincidentFocus is returned when the focus equals the position and
	// no view direction can be derived.
	ErrCoincidentFocus = errors.New("camera: focus coincides with position")
)

// Settings holds the scale factors fixed at construction.
type Settings struct {
	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32
	Near             float32
	Far              float32
}

// DefaultSettings returns the stock camera settings.
func DefaultSettings() Settings {
	return Settings{
		MovementSpeed:    DefaultMovementSpeed,
		MouseSensitivity: DefaultMouseSensitivity,
		Zoom:             DefaultZoom,
		Near:             DefaultNear,
		Far:              DefaultFar,
	}
}

// state is the restorable part of the camera.
type state struct {
	position math.Vec3
	focus    math.Vec3
	front    math.Vec3
	up       math.Vec3
	right    math.Vec3
	yaw      float32
	pitch    float32
	zoom     float32
}

// Camera is a free-flying camera driven by keyboard and mouse input.
// It is not safe for concurrent use; the render loop owns it.
type Camera struct {
	state
	worldUp  math.Vec3
	settings Settings

	width  int
	height int

	home state
}

// New creates a camera at position looking at focus, using DefaultSettings.
func New(width, height int, position, focus math.Vec3) (*Camera, error) {
	return NewWithSettings(DefaultSettings(), width, height, position, focus)
}

// NewWithSettings creates a camera at position looking at focus. The
// resulting orientation is remembered as the home state for Reset.
func NewWithSettings(s Settings, width, height int, position, focus math.Vec3) (*Camera, error) {
	if err := checkViewport(width, height); err != nil {
		return nil, err
	}
	if focus.Sub(position).Length() == 0 {
		return nil, ErrCoincidentFocus
	}

	c := &Camera{
		worldUp:  math.WorldUp,
		settings: s,
		width:    width,
		height:   height,
	}
	c.position = position
	c.zoom = math.Clamp(s.Zoom, MinZoom, MaxZoom)
	c.deriveAnglesFromFront(focus)
	c.home = c.state

	logger.Debug("camera created",
		zap.Float32("yaw", c.yaw),
		zap.Float32("pitch", c.pitch),
		vecField("position", position),
		vecField("focus", focus),
	)
	return c, nil
}

func checkViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	return nil
}

// deriveFrontFromAngles rebuilds front, focus and the basis from yaw and
// pitch. Angle-driven path.
func (c *Camera) deriveFrontFromAngles() {
	if c.yaw != c.yaw {
		c.yaw = 0
	}
	if c.pitch != c.pitch {
		c.pitch = 0
	}

	cosPitch := math.Cos(c.pitch)
	front := math.Vec3{
		X: math.Sin(c.yaw) * cosPitch,
		Y: math.Sin(c.pitch),
		Z: -math.Cos(c.yaw) * cosPitch,
	}
	c.front = front.Normalize()
	c.focus = c.position.Add(c.front)
	c.updateBasis()
}

// deriveAnglesFromFront points the camera at focus and recovers yaw and
// pitch from the new front. Focus-driven path.
func (c *Camera) deriveAnglesFromFront(focus math.Vec3) {
	c.focus = focus
	c.front = focus.Sub(c.position).Normalize()
	c.pitch = math.Clamp(math.Asin(c.front.Y), -PitchLimit, PitchLimit)
	c.updateBasis()

	// Heading in the horizontal plane, measured against the fixed world up
	// so a tilted camera up vector does not skew it. Undefined when looking
	// straight up or down, in which case the previous yaw stands.
	horizontal := math.WorldUp.Cross(c.front.Cross(math.WorldUp)).Normalize()
	if horizontal.IsZero() || horizontal.IsNaN() {
		return
	}
	a := math.Acos(horizontal.Z)
	if horizontal.X < 0 {
		c.yaw = math.WrapDegrees(a-180, 180)
	} else {
		c.yaw = math.WrapDegrees(180-a, 180)
	}
}

// updateBasis recomputes right and up from front and world up.
func (c *Camera) updateBasis() {
	right := c.front.Cross(c.worldUp).Normalize()
	if right.IsZero() || right.IsNaN() {
		right = math.Vec3{X: math.Cos(c.yaw), Z: math.Sin(c.yaw)}
	}
	c.right = right
	c.up = right.Cross(c.front).Normalize()
}

// ProcessMovement moves the camera along its basis, or changes the zoom for
// Closer and Away. The distance is |MovementSpeed * magnitude|. Zoom is not
// clamped here; ProcessScroll is the clamped zoom path.
func (c *Camera) ProcessMovement(dir Movement, magnitude float32) {
	velocity := float32(gomath.Abs(float64(c.settings.MovementSpeed * magnitude)))
	if !finite(velocity) {
		return
	}

	switch dir {
	case Forward:
		c.position = c.position.Add(c.front.Scale(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Scale(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Scale(velocity))
	case Right:
		c.position = c.position.Add(c.right.Scale(velocity))
	case Up:
		c.position = c.position.Add(c.up.Scale(velocity))
	case Down:
		c.position = c.position.Sub(c.up.Scale(velocity))
	case Closer:
		c.zoom -= 1.0
	case Away:
		c.zoom += 1.0
	}
	c.focus = c.position.Add(c.front)
}

// ProcessMouseMovement turns the camera by a mouse offset in pixels. Screen
// Y grows downward, so a positive dy lowers the pitch.
func (c *Camera) ProcessMouseMovement(dx, dy float32) {
	if !finite(dx) {
		dx = 0
	}
	if !finite(dy) {
		dy = 0
	}
	dx *= c.settings.MouseSensitivity
	dy *= c.settings.MouseSensitivity

	c.yaw = math.WrapDegrees(c.yaw+dx, 180)
	c.pitch = math.Clamp(c.pitch-dy, -PitchLimit, PitchLimit)
	c.deriveFrontFromAngles()
}

// ProcessScroll zooms in (Closer) or out (Away) by one degree. Other
// movements leave the zoom unchanged. Either way the zoom ends up within
// [MinZoom, MaxZoom].
func (c *Camera) ProcessScroll(dir Movement) {
	switch dir {
	case Closer:
		c.zoom -= 1.0
	case Away:
		c.zoom += 1.0
	}
	c.zoom = math.Clamp(c.zoom, MinZoom, MaxZoom)
}

// Reset returns the camera to the state captured at construction.
func (c *Camera) Reset() {
	c.state = c.home
	c.worldUp = math.WorldUp
	logger.Debug("camera reset", zap.Float32("yaw", c.yaw), zap.Float32("pitch", c.pitch))
}

// Reverse turns the camera 180 degrees in the horizontal plane.
func (c *Camera) Reverse() {
	c.yaw = math.WrapDegrees(c.yaw+180, 180)
	c.deriveFrontFromAngles()
	logger.Debug("camera reversed", zap.Float32("yaw", c.yaw))
}

// Retarget points the camera at focus without moving it.
func (c *Camera) Retarget(focus math.Vec3) error {
	if focus.Sub(c.position).Length() == 0 {
		return ErrCoincidentFocus
	}
	c.deriveAnglesFromFront(focus)
	return nil
}

// SetOrientation replaces the world up vector and the Euler angles (in
// degrees). A zero up vector keeps the current one.
func (c *Camera) SetOrientation(worldUp math.Vec3, yaw, pitch float32) {
	if up := worldUp.Normalize(); !up.IsZero() && !up.IsNaN() {
		c.worldUp = up
	}
	c.yaw = math.WrapDegrees(yaw, 180)
	c.pitch = math.Clamp(pitch, -PitchLimit, PitchLimit)
	c.deriveFrontFromAngles()
}

// Resize records new viewport dimensions for later projections.
func (c *Camera) Resize(width, height int) error {
	if err := checkViewport(width, height); err != nil {
		return err
	}
	c.width = width
	c.height = height
	return nil
}

// ViewMatrix returns the look-at matrix for the current state.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the perspective matrix for the current zoom and
// viewport. The zoom is used as the vertical field of view in degrees,
// limited to [MinZoom, MaxZoom].
func (c *Camera) ProjectionMatrix() (math.Mat4, error) {
	if err := checkViewport(c.width, c.height); err != nil {
		return math.Mat4{}, err
	}
	fov := math.Radians(math.Clamp(c.zoom, MinZoom, MaxZoom))
	aspect := float32(c.width) / float32(c.height)
	return math.Perspective(fov, aspect, c.settings.Near, c.settings.Far), nil
}

// Position returns the eye location.
func (c *Camera) Position() math.Vec3 { return c.position }

// Focus returns the look-at target.
func (c *Camera) Focus() math.Vec3 { return c.focus }

// Front returns the unit view direction.
func (c *Camera) Front() math.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *Camera) Right() math.Vec3 { return c.right }

// Up returns the unit camera up vector.
func (c *Camera) Up() math.Vec3 { return c.up }

// WorldUp returns the reference up vector.
func (c *Camera) WorldUp() math.Vec3 { return c.worldUp }

// Yaw returns the heading in degrees, in (-180, 180].
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the elevation in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// PitchYaw returns pitch and yaw in degrees.
func (c *Camera) PitchYaw() (pitch, yaw float32) { return c.pitch, c.yaw }

// Zoom returns the field of view proxy in degrees.
func (c *Camera) Zoom() float32 { return c.zoom }

// Viewport returns the stored viewport dimensions.
func (c *Camera) Viewport() (width, height int) { return c.width, c.height }

// Settings returns the construction-time settings.
func (c *Camera) Settings() Settings { return c.settings }

func vecField(key string, v math.Vec3) zap.Field {
	return zap.Float32s(key, []float32{v.X, v.Y, v.Z})
}

func finite(v float32) bool {
	f := float64(v)
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}
