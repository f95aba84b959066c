// Package world holds the field of spinning cubes: where each cube sits,
// how it turns and which textures cover its faces.
package world

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/logger"
	"github.com/Faultbox/multicube/pkg/math"
)

// Instance is one rendered cube. Only the angles change after generation.
type Instance struct {
	Location math.Vec3 `yaml:"location"`

	// Current spin angles in degrees, in [0, 360).
	AngleX float32 `yaml:"angle_x"`
	AngleY float32 `yaml:"angle_y"`

	// Per-frame increments in degrees, in [0, MaxIncrement).
	IncX float32 `yaml:"inc_x"`
	IncY float32 `yaml:"inc_y"`

	// Unit spin axes.
	AxisX math.Vec3 `yaml:"axis_x"`
	AxisY math.Vec3 `yaml:"axis_y"`

	// Texture pool index per cube face.
	Faces [FacesPerCube]int `yaml:"faces,flow"`
}

// Advance steps both spin angles by their increments, wrapping at 360.
func (in *Instance) Advance() {
	in.AngleX = float32(gomath.Mod(float64(in.AngleX+in.IncX), 360))
	in.AngleY = float32(gomath.Mod(float64(in.AngleY+in.IncY), 360))
}

// Model returns the model matrix: translate to Location, then rotate by
// AngleX about AxisX and AngleY about AxisY, the Y spin applied first.
func (in *Instance) Model() math.Mat4 {
	spin := math.QuatFromAxisDegrees(in.AxisX, in.AngleX).
		Mul(math.QuatFromAxisDegrees(in.AxisY, in.AngleY))
	return math.TranslateVec3(in.Location).Mul(spin.ToMat4())
}

// Field is the set of instances shared by the render loop.
type Field struct {
	Instances []Instance
	frames    uint64
}

// NewField generates a field with the given layout.
func NewField(rng Rand, cfg LayoutConfig) (*Field, error) {
	instances, err := Generate(rng, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("cube field generated",
		zap.Int("instances", len(instances)),
		zap.Int("textures", cfg.PoolSize),
	)
	return &Field{Instances: instances}, nil
}

// Advance steps every instance by one frame.
func (f *Field) Advance() {
	for i := range f.Instances {
		f.Instances[i].Advance()
	}
	f.frames++
}

// Frames returns how many times Advance has run.
func (f *Field) Frames() uint64 {
	return f.frames
}

// Len returns the number of instances.
func (f *Field) Len() int {
	return len(f.Instances)
}
