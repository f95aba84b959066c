// Package config handles demo configuration loading and management.
package config

import (
	"path/filepath"

	"github.com/Faultbox/multicube/pkg/math"
)

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Assets   AssetsConfig   `yaml:"assets"`
	Lighting LightingConfig `yaml:"lighting"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the starting view and input scaling.
type CameraConfig struct {
	Position         math.Vec3 `yaml:"position"`
	Focus            math.Vec3 `yaml:"focus"`
	MovementSpeed    float32   `yaml:"movement_speed"`
	MouseSensitivity float32   `yaml:"mouse_sensitivity"`
	Zoom             float32   `yaml:"zoom"`
	// KeySpeed is multiplied by the frame time in seconds to get the
	// magnitude of one keyboard move.
	KeySpeed float32 `yaml:"key_speed"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
}

// SceneConfig controls the cube field.
type SceneConfig struct {
	// Copies is the number of cubes per face texture.
	Copies        int     `yaml:"copies"`
	Bound         float32 `yaml:"bound"`
	MinSeparation float32 `yaml:"min_separation"`
	ZOffset       float32 `yaml:"z_offset"`
	MaxAttempts   int     `yaml:"max_attempts"`
	// Seed fixes the layout; 0 picks one from the clock.
	Seed        uint64  `yaml:"seed"`
	SkyboxScale float32 `yaml:"skybox_scale"`
}

// AssetsConfig holds asset file names, relative to Root unless absolute.
type AssetsConfig struct {
	Root string `yaml:"root"`
	// CubeImages[0] is the background drawn behind every face image.
	CubeImages []string `yaml:"cube_images"`
	// Skybox lists six faces in +X, -X, +Y, -Y, +Z, -Z order.
	Skybox []string `yaml:"skybox"`
	Sound  string   `yaml:"sound"`
}

// LightingConfig places an optional sun over the cube field. Angles are in
// degrees.
type LightingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
	Ambient   float32 `yaml:"ambient"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Volume float32 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         800,
			Height:        600,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:         math.Vec3{Z: 20},
			MovementSpeed:    0.1,
			MouseSensitivity: 1.0,
			Zoom:             45,
			KeySpeed:         25,
			Near:             0.1,
			Far:              10000,
		},
		Scene: SceneConfig{
			Copies:        2,
			Bound:         10,
			MinSeparation: 1.5,
			ZOffset:       -15,
			MaxAttempts:   10000,
			SkyboxScale:   2000,
		},
		Assets: AssetsConfig{
			Root: "assets",
			CubeImages: []string{
				"images/planks.jpg",
				"images/abstract.png",
				"images/awesomeface.png",
				"images/grapes.png",
				"images/lemon.png",
				"images/panda.png",
				"images/sunflowers.png",
			},
			Skybox: []string{
				"images/skybox/scene_right.tga",
				"images/skybox/scene_left.tga",
				"images/skybox/scene_up.tga",
				"images/skybox/scene_down.tga",
				"images/skybox/scene_front.tga",
				"images/skybox/scene_back.tga",
			},
			Sound: "sounds/theme.wav",
		},
		Lighting: LightingConfig{
			Longitude: 45,
			Latitude:  50,
			Ambient:   0.45,
		},
		Audio: AudioConfig{
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path resolves an asset name against Root.
func (a AssetsConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Root, name)
}

// Paths resolves every name against Root.
func (a AssetsConfig) Paths(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = a.Path(n)
	}
	return out
}

// InstanceCount returns the number of cubes the scene will hold.
func (c *Config) InstanceCount() int {
	n := len(c.Assets.CubeImages) - 1
	if n < 0 {
		return 0
	}
	return c.Scene.Copies * n
}
