package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/multicube/internal/logger"
)

// SkyboxFaceCount is the number of cube map faces, in +X, -X, +Y, -Y, +Z,
// -Z order.
const SkyboxFaceCount = 6

// SkyboxFaceSize is the edge length every sky box face is scaled to.
const SkyboxFaceSize = 512

// Decode decodes an encoded image. TGA has no magic number, so the caller
// names it through ext.
func Decode(data []byte, ext string) (*Image, error) {
	if strings.EqualFold(ext, ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		return fromRGBA(img), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	logger.Debug("image decoded", zap.String("format", format))
	return FromImage(img), nil
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("image loaded",
		zap.String("path", path),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)
	return img, nil
}

// LoadAll loads every path. All failures are reported together.
func LoadAll(paths []string) ([]*Image, error) {
	images := make([]*Image, len(paths))
	var errs error
	for i, p := range paths {
		img, err := LoadFile(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		images[i] = img
	}
	if errs != nil {
		return nil, errs
	}
	return images, nil
}

// FacePool builds the cube face textures. images[0] is the background;
// entry i of the result is images[i] turned upside down and drawn over the
// background.
func FacePool(images []*Image) ([]*Image, error) {
	if len(images) < 2 {
		return nil, fmt.Errorf("texture: need a background and at least one face image, got %d", len(images))
	}
	pool := make([]*Image, len(images))
	for i, img := range images {
		c, err := Composite(images[0], img.Rotate180())
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		pool[i] = c
	}
	return pool, nil
}

// SkyboxFaces orients and scales six faces for a cube map. The top face is
// turned counter-clockwise and the bottom clockwise so their seams line up
// with the sides, then every face is mirrored for viewing from inside.
func SkyboxFaces(faces []*Image) ([SkyboxFaceCount]*Image, error) {
	var out [SkyboxFaceCount]*Image
	if len(faces) != SkyboxFaceCount {
		return out, fmt.Errorf("texture: sky box needs %d faces, got %d", SkyboxFaceCount, len(faces))
	}
	for i, f := range faces {
		switch i {
		case 2:
			f = f.Rotate90()
		case 3:
			f = f.Rotate270()
		}
		out[i] = f.FlipHorizontal().Resize(SkyboxFaceSize, SkyboxFaceSize)
	}
	return out, nil
}

// LoadFacePool loads the cube images and builds the face textures.
func LoadFacePool(paths []string) ([]*Image, error) {
	images, err := LoadAll(paths)
	if err != nil {
		return nil, err
	}
	return FacePool(images)
}

// LoadSkybox loads and prepares the six sky box faces.
func LoadSkybox(paths []string) ([SkyboxFaceCount]*Image, error) {
	if len(paths) != SkyboxFaceCount {
		return [SkyboxFaceCount]*Image{}, fmt.Errorf("texture: sky box needs %d files, got %d", SkyboxFaceCount, len(paths))
	}
	faces, err := LoadAll(paths)
	if err != nil {
		return [SkyboxFaceCount]*Image{}, err
	}
	return SkyboxFaces(faces)
}
