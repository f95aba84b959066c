package world

import (
	"testing"

	"github.com/Faultbox/multicube/pkg/math"
)

func TestInstanceAdvanceWraps(t *testing.T) {
	in := Instance{AngleX: 359, AngleY: 10, IncX: 1.5, IncY: 0.25}
	in.Advance()
	if in.AngleX != 0.5 {
		t.Errorf("AngleX = %v, want 0.5", in.AngleX)
	}
	if in.AngleY != 10.25 {
		t.Errorf("AngleY = %v, want 10.25", in.AngleY)
	}
}

func TestInstanceModel(t *testing.T) {
	in := Instance{
		Location: math.Vec3{X: 1, Y: -2, Z: -15},
		AngleX:   30,
		AngleY:   75,
		AxisX:    math.Vec3{X: 1, Y: 1}.Normalize(),
		AxisY:    math.Vec3{Y: 1, Z: -1}.Normalize(),
	}

	want := math.TranslateVec3(in.Location).
		Mul(math.RotateAxis(in.AxisX, math.Radians(in.AngleX))).
		Mul(math.RotateAxis(in.AxisY, math.Radians(in.AngleY)))
	if got := in.Model(); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Model() = %v, want %v", got, want)
	}

	// The cube center lands on the location.
	if c := in.Model().TransformVec3(math.Vec3{}); !c.ApproxEqual(in.Location, 1e-5) {
		t.Errorf("center = %v, want %v", c, in.Location)
	}
}

func TestFieldAdvance(t *testing.T) {
	f, err := NewField(newRand(5), DefaultLayoutConfig(3))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if f.Len() != 4 {
		t.Fatalf("Len = %d, want 4", f.Len())
	}

	for i := 0; i < 1000; i++ {
		f.Advance()
	}
	if f.Frames() != 1000 {
		t.Errorf("Frames = %d, want 1000", f.Frames())
	}
	for i, in := range f.Instances {
		if in.AngleX < 0 || in.AngleX >= 360 || in.AngleY < 0 || in.AngleY >= 360 {
			t.Errorf("instance %d angles %v, %v out of [0, 360)", i, in.AngleX, in.AngleY)
		}
	}
}
