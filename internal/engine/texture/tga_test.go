package texture

import (
	"errors"
	"testing"
)

// tgaHeader builds an 18-byte header.
func tgaHeader(imageType, width, height, bpp int, descriptor byte) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = byte(imageType)
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = byte(bpp)
	h[17] = descriptor
	return h
}

func rgbaAt(t *testing.T, data []byte, x, y int) [4]byte {
	t.Helper()
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	i := img.PixOffset(x, y)
	return [4]byte(img.Pix[i : i+4])
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2, 32-bit BGRA, stored bottom row first.
	data := tgaHeader(TGATypeTrueColor, 2, 2, 32, 0)
	data = append(data,
		0, 0, 255, 255, // bottom-left red
		0, 255, 0, 255, // bottom-right green
		255, 0, 0, 255, // top-left blue
		255, 255, 255, 128, // top-right white
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("size = %v, want 2x2", img.Bounds())
	}

	tests := []struct {
		x, y int
		want [4]byte
	}{
		{0, 0, [4]byte{0, 0, 255, 255}},
		{1, 0, [4]byte{255, 255, 255, 128}},
		{0, 1, [4]byte{255, 0, 0, 255}},
		{1, 1, [4]byte{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		i := img.PixOffset(tt.x, tt.y)
		if got := [4]byte(img.Pix[i : i+4]); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeTGAOrigin(t *testing.T) {
	// 2x1, 24-bit: red then green in file order.
	pixels := []byte{0, 0, 255, 0, 255, 0}

	tests := []struct {
		name       string
		descriptor byte
		left       [4]byte
	}{
		{"left to right", 0x20, [4]byte{255, 0, 0, 255}},
		{"right to left", 0x30, [4]byte{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append(tgaHeader(TGATypeTrueColor, 2, 1, 24, tt.descriptor), pixels...)
			if got := rgbaAt(t, data, 0, 0); got != tt.left {
				t.Errorf("left pixel = %v, want %v", got, tt.left)
			}
		})
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 top-down: a run of two red pixels, then one raw blue pixel.
	data := tgaHeader(TGATypeTrueColorRLE, 3, 1, 24, 0x20)
	data = append(data,
		0x81, 0, 0, 255,
		0x00, 255, 0, 0,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	want := []byte{
		255, 0, 0, 255,
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	if string(img.Pix) != string(want) {
		t.Errorf("pixels = %v, want %v", img.Pix, want)
	}
}

func TestDecodeTGAGray(t *testing.T) {
	data := append(tgaHeader(TGATypeGray, 1, 1, 8, 0), 77)
	if got := rgbaAt(t, data, 0, 0); got != [4]byte{77, 77, 77, 255} {
		t.Errorf("pixel = %v", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeTrueColor, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"bad type", tgaHeader(1, 1, 1, 24, 0)},
		{"bad depth", tgaHeader(TGATypeTrueColor, 1, 1, 16, 0)},
		{"empty", tgaHeader(TGATypeTrueColor, 0, 1, 24, 0)},
		{"truncated raw", append(tgaHeader(TGATypeTrueColor, 2, 2, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(TGATypeTrueColorRLE, 4, 1, 24, 0), 0x81, 1, 2, 3)},
		{"oversized raw", append(tgaHeader(TGATypeTrueColor, 65535, 65535, 32, 0), 1, 2, 3, 4)},
		{"oversized rle", append(tgaHeader(TGATypeGrayRLE, 65535, 65535, 8, 0), 0xff, 9)},
		{"truncated id", func() []byte { h := tgaHeader(TGATypeTrueColor, 1, 1, 24, 0); h[0] = 40; return h }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, ErrTGA) {
				t.Errorf("err = %v, want ErrTGA", err)
			}
		})
	}
}
