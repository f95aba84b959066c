package texture

import (
	"testing"
)

var (
	red         = [4]byte{255, 0, 0, 255}
	green       = [4]byte{0, 255, 0, 255}
	blue        = [4]byte{0, 0, 255, 255}
	white       = [4]byte{255, 255, 255, 255}
	transparent = [4]byte{}
)

// grid builds an image from rows of pixels.
func grid(rows ...[][4]byte) *Image {
	m := NewImage(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, px := range row {
			m.set(x, y, px)
		}
	}
	return m
}

// near allows for resampling round-off.
func near(a, b [4]byte) bool {
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < -3 || d > 3 {
			return false
		}
	}
	return true
}

func checkImage(t *testing.T, name string, got, want *Image) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("%s: size %dx%d, want %dx%d", name, got.Width, got.Height, want.Width, want.Height)
	}
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			if got.At(x, y) != want.At(x, y) {
				t.Errorf("%s: pixel (%d,%d) = %v, want %v", name, x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestTransforms(t *testing.T) {
	// R G
	// B W
	src := grid(
		[][4]byte{red, green},
		[][4]byte{blue, white},
	)
	// 3x1 strip to check dimension swaps.
	strip := grid([][4]byte{red, green, blue})

	tests := []struct {
		name string
		got  *Image
		want *Image
	}{
		{"rotate180", src.Rotate180(), grid([][4]byte{white, blue}, [][4]byte{green, red})},
		{"rotate90", src.Rotate90(), grid([][4]byte{green, white}, [][4]byte{red, blue})},
		{"rotate270", src.Rotate270(), grid([][4]byte{blue, red}, [][4]byte{white, green})},
		{"flip", src.FlipHorizontal(), grid([][4]byte{green, red}, [][4]byte{white, blue})},
		{"strip rotate90", strip.Rotate90(), grid([][4]byte{blue}, [][4]byte{green}, [][4]byte{red})},
		{"strip rotate270", strip.Rotate270(), grid([][4]byte{red}, [][4]byte{green}, [][4]byte{blue})},
	}
	for _, tt := range tests {
		checkImage(t, tt.name, tt.got, tt.want)
	}

	// The source is never modified.
	checkImage(t, "source", src, grid([][4]byte{red, green}, [][4]byte{blue, white}))
}

func TestRotationsCompose(t *testing.T) {
	src := grid(
		[][4]byte{red, green, blue},
		[][4]byte{white, transparent, red},
	)
	checkImage(t, "90+270", src.Rotate90().Rotate270(), src)
	checkImage(t, "90+90", src.Rotate90().Rotate90(), src.Rotate180())
	checkImage(t, "flip twice", src.FlipHorizontal().FlipHorizontal(), src)
}

func TestResize(t *testing.T) {
	src := grid([][4]byte{red, red}, [][4]byte{red, red})
	if got := src.Resize(2, 2); got != src {
		t.Error("same-size resize should return the source")
	}

	got := src.Resize(8, 4)
	if got.Width != 8 || got.Height != 4 || len(got.Pix) != 8*4*4 {
		t.Fatalf("resized to %dx%d with %d bytes", got.Width, got.Height, len(got.Pix))
	}
	if px := got.At(3, 2); !near(px, red) {
		t.Errorf("uniform image resampled to %v", px)
	}
}

func TestComposite(t *testing.T) {
	bg := grid([][4]byte{blue, blue}, [][4]byte{blue, blue})
	fg := grid([][4]byte{red, transparent}, [][4]byte{transparent, green})

	got, err := Composite(bg, fg)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	checkImage(t, "composite", got, grid([][4]byte{red, blue}, [][4]byte{blue, green}))
	checkImage(t, "background untouched", bg, grid([][4]byte{blue, blue}, [][4]byte{blue, blue}))

	if _, err := Composite(nil, fg); err == nil {
		t.Error("expected error for nil background")
	}
}

func TestCompositeScalesForeground(t *testing.T) {
	bg := NewImage(4, 4)
	fg := grid([][4]byte{white})

	got, err := Composite(bg, fg)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("size %dx%d, want background size", got.Width, got.Height)
	}
	if px := got.At(2, 2); !near(px, white) {
		t.Errorf("pixel = %v, want white", px)
	}
}
