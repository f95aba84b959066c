// Package scene assembles the demo state from configuration: the camera,
// the cube field, the input controller and the textures they are drawn with.
package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/config"
	"github.com/Faultbox/multicube/internal/engine/camera"
	"github.com/Faultbox/multicube/internal/engine/texture"
	"github.com/Faultbox/multicube/internal/game/controls"
	"github.com/Faultbox/multicube/internal/game/world"
	"github.com/Faultbox/multicube/internal/logger"
)

// Scene is the mutable per-frame state of the demo.
type Scene struct {
	Camera   *camera.Camera
	Field    *world.Field
	Controls *controls.Controller
	Seed     uint64
}

// CameraSettings converts the camera section of the config.
func CameraSettings(c config.CameraConfig) camera.Settings {
	return camera.Settings{
		MovementSpeed:    c.MovementSpeed,
		MouseSensitivity: c.MouseSensitivity,
		Zoom:             c.Zoom,
		Near:             c.Near,
		Far:              c.Far,
	}
}

// LayoutConfig converts the scene section of the config for a face pool
// built from cfg.Assets.CubeImages.
func LayoutConfig(cfg *config.Config) world.LayoutConfig {
	return world.LayoutConfig{
		Count:         cfg.InstanceCount(),
		Bound:         cfg.Scene.Bound,
		MinSeparation: cfg.Scene.MinSeparation,
		ZOffset:       cfg.Scene.ZOffset,
		MaxAttempts:   cfg.Scene.MaxAttempts,
		PoolSize:      len(cfg.Assets.CubeImages),
	}
}

// Seed returns the configured layout seed, or one taken from the clock
// when the config leaves it at 0.
func Seed(cfg *config.Config) uint64 {
	if cfg.Scene.Seed != 0 {
		return cfg.Scene.Seed
	}
	return uint64(time.Now().UnixNano())
}

// NewRand returns the layout random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New builds a scene for a viewport of width x height pixels using the
// layout seed seed.
func New(cfg *config.Config, width, height int, seed uint64) (*Scene, error) {
	cam, err := camera.NewWithSettings(CameraSettings(cfg.Camera), width, height, cfg.Camera.Position, cfg.Camera.Focus)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	field, err := world.NewField(NewRand(seed), LayoutConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	logger.Info("scene created",
		zap.Uint64("seed", seed),
		zap.Int("instances", field.Len()),
	)
	return &Scene{
		Camera:   cam,
		Field:    field,
		Controls: controls.New(cam, cfg.Camera.KeySpeed),
		Seed:     seed,
	}, nil
}

// Update applies held input for a frame of dt seconds.
func (s *Scene) Update(dt float64) {
	s.Controls.Update(dt)
}

// Resize updates the camera viewport. Degenerate sizes, as reported while a
// window is minimized, are logged and ignored.
func (s *Scene) Resize(width, height int) {
	if err := s.Camera.Resize(width, height); err != nil {
		logger.Warn("resize ignored", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

// Assets are the decoded images a scene is drawn with.
type Assets struct {
	Faces  []*texture.Image
	Skybox [texture.SkyboxFaceCount]*texture.Image
}

// LoadAssets loads the face pool and the sky box, reporting every failure.
func LoadAssets(a config.AssetsConfig) (*Assets, error) {
	faces, faceErr := texture.LoadFacePool(a.Paths(a.CubeImages))
	sky, skyErr := texture.LoadSkybox(a.Paths(a.Skybox))
	if err := multierr.Combine(faceErr, skyErr); err != nil {
		return nil, err
	}
	logger.Info("assets loaded",
		zap.Int("faces", len(faces)),
		zap.String("root", a.Root),
	)
	return &Assets{Faces: faces, Skybox: sky}, nil
}

// LoadSound reads the background music file. A missing or empty sound
// setting yields nil data and no error so the demo can run silent.
func LoadSound(a config.AssetsConfig) ([]byte, error) {
	if a.Sound == "" {
		return nil, nil
	}
	path := a.Path(a.Sound)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("sound file not found, running silent", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sound: %w", err)
	}
	return data, nil
}
