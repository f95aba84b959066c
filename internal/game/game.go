// Package game implements the main demo loop.
package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/config"
	"github.com/Faultbox/multicube/internal/engine/audio"
	"github.com/Faultbox/multicube/internal/engine/input"
	"github.com/Faultbox/multicube/internal/engine/lighting"
	"github.com/Faultbox/multicube/internal/engine/renderer"
	"github.com/Faultbox/multicube/internal/engine/screenshot"
	"github.com/Faultbox/multicube/internal/engine/window"
	"github.com/Faultbox/multicube/internal/game/controls"
	"github.com/Faultbox/multicube/internal/game/scene"
	"github.com/Faultbox/multicube/internal/logger"
)

// Title is the window title.
const Title = "Multicube"

// Game is the main demo instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	music    *audio.Music
	sound    []byte
	sun      lighting.Sun
	lit      bool

	screenshots *screenshot.Capture
	capture     bool
}

// New creates the window, GL resources, scene and audio worker.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing demo",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("instances", cfg.InstanceCount()),
	)

	// Decode assets before opening a window so bad paths fail fast.
	assets, err := scene.LoadAssets(cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	g := &Game{
		config: cfg,
		sun:    lighting.NewSun(cfg.Lighting.Longitude, cfg.Lighting.Latitude, cfg.Lighting.Ambient),
		lit:    cfg.Lighting.Enabled,

		screenshots: screenshot.New(cfg.Graphics.ScreenshotDir, "multicube"),
	}

	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := g.window.GetSize()

	g.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		VSync:       cfg.Graphics.VSync,
		SkyboxScale: cfg.Scene.SkyboxScale,
		Sun:         g.activeSun(),
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if err := multierr.Combine(
		g.renderer.LoadFaceTextures(assets.Faces),
		g.renderer.LoadSkybox(assets.Skybox),
	); err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to upload textures: %w", err)
	}

	g.scene, err = scene.New(cfg, width, height, scene.Seed(cfg))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	g.sound, err = scene.LoadSound(cfg.Assets)
	if err != nil {
		logger.Warn("background music disabled", zap.Error(err))
	}
	g.music = audio.NewMusic(audio.SpeakerOutput{}, float64(cfg.Audio.Volume))
	g.music.SetMuted(cfg.Audio.Muted)

	g.input = input.New()

	logger.Info("demo initialized", zap.Uint64("seed", g.scene.Seed))
	return g, nil
}

// activeSun returns the sun, or nil while lighting is off.
func (g *Game) activeSun() *lighting.Sun {
	if !g.lit {
		return nil
	}
	return &g.sun
}

// toggleLighting switches the cube lighting on or off.
func (g *Game) toggleLighting() {
	g.lit = !g.lit
	g.renderer.SetSun(g.activeSun())
	logger.Info("lighting toggled", zap.Bool("lit", g.lit))
}

// Run drives the frame loop until the window closes, Esc is pressed or ctx
// is cancelled.
func (g *Game) Run(ctx context.Context) error {
	g.running = true

	g.music.Run(ctx)
	if len(g.sound) > 0 {
		g.music.Start(g.sound, g.config.Assets.Sound)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for g.running {
		if err := ctx.Err(); err != nil {
			logger.Info("frame loop cancelled", zap.Error(err))
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		g.scene.Update(dt)

		if err := g.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if g.capture {
			g.capture = false
			g.saveScreenshot()
		}
		g.window.SwapBuffers()

		g.limitFrameRate(now)

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
				zap.Uint64("frames", g.scene.Field.Frames()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents dispatches the events of the last input poll.
func (g *Game) handleEvents() {
	ctl := g.scene.Controls
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.resize()
		case input.EventFocusLost:
			ctl.ReleaseAll()
			ctl.ResetMouse()
		case input.EventKeyDown:
			switch ctl.KeyDown(keyFor(event.Key), event.Alt, event.Repeat) {
			case controls.CommandQuit:
				g.running = false
			case controls.CommandToggleFullscreen:
				if err := g.window.ToggleFullscreen(); err != nil {
					logger.Warn("fullscreen toggle failed", zap.Error(err))
				}
				ctl.ResetMouse()
			case controls.CommandToggleLighting:
				g.toggleLighting()
			case controls.CommandScreenshot:
				g.capture = true
			}
		case input.EventKeyUp:
			ctl.KeyUp(keyFor(event.Key))
		case input.EventMouseMove:
			ctl.MouseMotion(event.MouseX, event.MouseY)
		case input.EventMouseWheel:
			ctl.Wheel(event.WheelY)
		}
	}
}

// resize propagates a drawable size change to the renderer and camera.
// Event sizes are in window points, so the drawable size is queried.
func (g *Game) resize() {
	width, height := g.window.GetSize()
	if width <= 0 || height <= 0 {
		logger.Debug("ignoring degenerate resize", zap.Int("width", width), zap.Int("height", height))
		return
	}
	g.renderer.Resize(width, height)
	g.scene.Resize(width, height)
}

// render draws the sky box, then the cubes, then advances their spin.
func (g *Game) render() error {
	projection, err := g.scene.Camera.ProjectionMatrix()
	if err != nil {
		return err
	}
	view := g.scene.Camera.ViewMatrix()

	g.renderer.Begin()
	g.renderer.DrawSkybox(view, projection)
	if err := g.renderer.DrawField(g.scene.Field, view, projection); err != nil {
		return err
	}
	g.scene.Field.Advance()
	return nil
}

// saveScreenshot writes the frame just drawn.
func (g *Game) saveScreenshot() {
	pixels, width, height := g.renderer.ReadPixels()
	path, err := g.screenshots.Save(pixels, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// limitFrameRate sleeps out the rest of the frame when vsync is off and a
// limit is configured.
func (g *Game) limitFrameRate(frameStart time.Time) {
	limit := g.config.Graphics.FPSLimit
	if g.config.Graphics.VSync || limit <= 0 {
		return
	}
	budget := time.Second / time.Duration(limit)
	if spent := time.Since(frameStart); spent < budget {
		time.Sleep(budget - spent)
	}
}

// Close releases every resource in reverse creation order.
func (g *Game) Close() {
	logger.Info("closing demo")

	if g.music != nil {
		g.music.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
