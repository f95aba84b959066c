// Package lighting provides the directional sun light applied to the cubes.
package lighting

import (
	"github.com/Faultbox/multicube/pkg/math"
)

// Sun is a directional light with an ambient floor.
type Sun struct {
	// Direction points from the scene towards the sun, unit length.
	Direction math.Vec3
	// Ambient is the light a face receives when turned away, in [0, 1].
	Ambient float32
}

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude rotates around Y starting at
// +Z, latitude is the elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	cosLat := math.Cos(latitude)
	return math.Vec3{
		X: cosLat * math.Sin(longitude),
		Y: math.Sin(latitude),
		Z: cosLat * math.Cos(longitude),
	}
}

// NewSun returns a sun at the given position in the sky.
func NewSun(longitude, latitude, ambient float32) Sun {
	return Sun{
		Direction: SunDirection(longitude, latitude).Normalize(),
		Ambient:   math.Clamp(ambient, 0, 1),
	}
}

// Intensity returns the brightness of a surface with the given unit normal.
// The cube fragment shader computes the same value per face.
func (s Sun) Intensity(normal math.Vec3) float32 {
	diffuse := max(normal.Dot(s.Direction), 0)
	return s.Ambient + (1-s.Ambient)*diffuse
}
