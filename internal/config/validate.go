package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidViewport is returned for a non-positive window size.
	ErrInvalidViewport = errors.New("config: invalid viewport")

	// ErrInvalid is wrapped by every other validation failure.
	ErrInvalid = errors.New("config: invalid value")
)

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		add("graphics.fps_limit %d is negative", c.Graphics.FPSLimit)
	}

	if c.Camera.Zoom < 1 || c.Camera.Zoom > 90 {
		add("camera.zoom %v outside [1, 90]", c.Camera.Zoom)
	}
	if c.Camera.Position == c.Camera.Focus {
		add("camera.focus equals camera.position")
	}
	if !(c.Camera.Near > 0) || !(c.Camera.Far > c.Camera.Near) {
		add("camera clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}

	if c.Scene.Copies < 1 {
		add("scene.copies %d must be at least 1", c.Scene.Copies)
	}
	if !(c.Scene.Bound > 0) {
		add("scene.bound %v must be positive", c.Scene.Bound)
	}
	if c.Scene.MinSeparation < 0 {
		add("scene.min_separation %v is negative", c.Scene.MinSeparation)
	}
	if c.Scene.MaxAttempts <= 0 {
		add("scene.max_attempts %d must be positive", c.Scene.MaxAttempts)
	}
	if !(c.Scene.SkyboxScale > 0) {
		add("scene.skybox_scale %v must be positive", c.Scene.SkyboxScale)
	}

	if len(c.Assets.CubeImages) < 2 {
		add("assets.cube_images needs a background and at least one face image, got %d", len(c.Assets.CubeImages))
	}
	if len(c.Assets.Skybox) != 6 {
		add("assets.skybox needs 6 faces, got %d", len(c.Assets.Skybox))
	}

	if c.Lighting.Ambient < 0 || c.Lighting.Ambient > 1 {
		add("lighting.ambient %v outside [0, 1]", c.Lighting.Ambient)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		add("audio.volume %v outside [0, 1]", c.Audio.Volume)
	}
	return errs
}
