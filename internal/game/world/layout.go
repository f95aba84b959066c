package world

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/logger"
	"github.com/Faultbox/multicube/pkg/math"
)

// FacesPerCube is the number of texture slots per instance.
const FacesPerCube = 6

// MaxIncrement bounds the per-frame spin increment, in degrees.
const MaxIncrement = 2.0

var (
	// ErrLayoutUnsatisfiable is returned when an instance cannot be placed
	// within MaxAttempts draws.
	ErrLayoutUnsatisfiable = errors.New("world: layout unsatisfiable")

	// ErrInvalidLayout is returned for a configuration Generate cannot use.
	ErrInvalidLayout = errors.New("world: invalid layout config")
)

// Rand is the random source used for layout. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
	Float32() float32
}

// LayoutConfig controls instance placement.
type LayoutConfig struct {
	// Count is the number of instances to place.
	Count int
	// Bound limits each location component to [-Bound, Bound] before
	// ZOffset is applied.
	Bound float32
	// MinSeparation is the smallest allowed distance between two locations.
	MinSeparation float32
	// ZOffset shifts every location along Z.
	ZOffset float32
	// MaxAttempts caps the draws spent on a single instance.
	MaxAttempts int
	// PoolSize is the number of textures, including the background at
	// index 0 which is never assigned to a face.
	PoolSize int
}

// DefaultLayoutConfig returns the stock layout for a texture pool of the
// given size: two instances per face texture.
func DefaultLayoutConfig(poolSize int) LayoutConfig {
	return LayoutConfig{
		Count:         2 * (poolSize - 1),
		Bound:         10,
		MinSeparation: 1.5,
		ZOffset:       -15,
		MaxAttempts:   10000,
		PoolSize:      poolSize,
	}
}

// Validate reports every problem with the configuration.
func (c LayoutConfig) Validate() error {
	var errs error
	if c.Count < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: negative count %d", ErrInvalidLayout, c.Count))
	}
	if !(c.Bound > 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: bound must be positive, got %v", ErrInvalidLayout, c.Bound))
	}
	if c.MinSeparation < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: negative separation %v", ErrInvalidLayout, c.MinSeparation))
	}
	if c.MaxAttempts <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidLayout, c.MaxAttempts))
	}
	if c.PoolSize < 2 {
		errs = multierr.Append(errs, fmt.Errorf("%w: need a background and at least one face texture, got %d", ErrInvalidLayout, c.PoolSize))
	}
	return errs
}

// RandomMagnitude draws a non-zero value in [-bound, bound]. The value is a
// signed ratio of two random integers scaled by a random integer and halved
// until it fits, so small magnitudes are more likely than large ones.
// A non-positive bound yields 0.
func RandomMagnitude(rng Rand, bound float32) float32 {
	if !(bound > 0) {
		return 0
	}
	scaleMax := max(1, int(bound))
	for {
		dividend := float32(rng.IntN(101))
		divisor := float32(rng.IntN(100) + 1)
		sign := float32(1)
		if rng.IntN(11) < 5 {
			sign = -1
		}
		item := sign * dividend / (divisor + 1) * float32(rng.IntN(scaleMax+1))
		for item > bound || item < -bound {
			item /= 2
		}
		if item != 0 {
			return item
		}
	}
}

// Generate places cfg.Count instances. Each location is redrawn until it is
// at least cfg.MinSeparation from every earlier one; only the newest
// candidate is redrawn. Face textures are assigned round-robin over
// indices 1..PoolSize-1.
func Generate(rng Rand, cfg LayoutConfig) ([]Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, cfg.Count)
	next := 0
	for i := 0; i < cfg.Count; i++ {
		loc, attempts, err := place(rng, cfg, instances)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}

		in := Instance{
			Location: loc,
			AxisX:    randomAxis(rng, cfg.Bound),
			AxisY:    randomAxis(rng, cfg.Bound),
			IncX:     rng.Float32() * MaxIncrement,
			IncY:     rng.Float32() * MaxIncrement,
		}
		for f := range in.Faces {
			in.Faces[f] = 1 + next%(cfg.PoolSize-1)
			next++
		}
		instances = append(instances, in)

		logger.Debug("instance placed",
			zap.Int("index", i),
			zap.Int("attempts", attempts),
			zap.Float32s("location", []float32{loc.X, loc.Y, loc.Z}),
			zap.Ints("faces", in.Faces[:]),
		)
	}
	return instances, nil
}

func place(rng Rand, cfg LayoutConfig, placed []Instance) (math.Vec3, int, error) {
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		candidate := math.Vec3{
			X: RandomMagnitude(rng, cfg.Bound),
			Y: RandomMagnitude(rng, cfg.Bound),
			Z: RandomMagnitude(rng, cfg.Bound) + cfg.ZOffset,
		}
		if isClear(candidate, placed, cfg.MinSeparation) {
			return candidate, attempt, nil
		}
	}
	return math.Vec3{}, cfg.MaxAttempts, fmt.Errorf("%w: no location at least %v apart after %d attempts",
		ErrLayoutUnsatisfiable, cfg.MinSeparation, cfg.MaxAttempts)
}

func isClear(p math.Vec3, placed []Instance, minSep float32) bool {
	for i := range placed {
		if p.Distance(placed[i].Location) < minSep {
			return false
		}
	}
	return true
}

// randomAxis returns a unit vector. Components are never zero, so the
// vector always has length.
func randomAxis(rng Rand, bound float32) math.Vec3 {
	return math.Vec3{
		X: RandomMagnitude(rng, bound),
		Y: RandomMagnitude(rng, bound),
		Z: RandomMagnitude(rng, bound),
	}.Normalize()
}
