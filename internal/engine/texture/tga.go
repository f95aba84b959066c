// Package texture decodes image files into tightly packed RGBA8 buffers and
// prepares them for upload: face composites for the cubes and the six
// sky box faces.
package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeTrueColor    = 2
	TGATypeGray         = 3
	TGATypeTrueColorRLE = 10
	TGATypeGrayRLE      = 11
)

const tgaHeaderSize = 18

// ErrTGA is wrapped by every TGA decoding error.
var ErrTGA = errors.New("texture: bad TGA")

// DecodeTGA decodes a TGA image. True-color (24/32 bit) and grayscale
// (8 bit) images are supported, raw or run-length encoded. The result is
// always top-to-bottom, left-to-right.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header truncated", ErrTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}
	gray := imageType == TGATypeGray || imageType == TGATypeGrayRLE
	switch imageType {
	case TGATypeTrueColor, TGATypeTrueColorRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("%w: unsupported true-color depth %d", ErrTGA, bpp)
		}
	case TGATypeGray, TGATypeGrayRLE:
		if bpp != 8 {
			return nil, fmt.Errorf("%w: unsupported grayscale depth %d", ErrTGA, bpp)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported image type %d", ErrTGA, imageType)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrTGA, width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field truncated", ErrTGA)
	}

	// Every pixel needs depth bytes raw, and an RLE packet of at most 128
	// pixels needs 1+depth. Reject short input before allocating the image.
	depth := bpp / 8
	rle := imageType == TGATypeTrueColorRLE || imageType == TGATypeGrayRLE
	need := width * height * depth
	if rle {
		need = (width*height + 127) / 128 * (1 + depth)
	}
	if len(data)-offset < need {
		return nil, fmt.Errorf("%w: %dx%d image needs at least %d bytes, have %d",
			ErrTGA, width, height, need, len(data)-offset)
	}

	d := &tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		depth:       depth,
		gray:        gray,
		topToBottom: descriptor&0x20 != 0,
		rightToLeft: descriptor&0x10 != 0,
	}

	var err error
	if rle {
		err = d.decodeRLE()
	} else {
		err = d.decodeRaw()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img    *image.RGBA
	src    []byte
	pos    int
	width  int
	height int
	depth  int
	gray   bool

	topToBottom bool
	rightToLeft bool
}

// pixel reads one BGR(A) or gray pixel from the source.
func (d *tgaDecoder) pixel() ([4]byte, error) {
	if d.pos+d.depth > len(d.src) {
		return [4]byte{}, fmt.Errorf("%w: pixel data truncated", ErrTGA)
	}
	p := d.src[d.pos : d.pos+d.depth]
	d.pos += d.depth

	if d.gray {
		return [4]byte{p[0], p[0], p[0], 255}, nil
	}
	px := [4]byte{p[2], p[1], p[0], 255}
	if d.depth == 4 {
		px[3] = p[3]
	}
	return px, nil
}

// put stores the n-th pixel in file order at its image position.
func (d *tgaDecoder) put(n int, px [4]byte) {
	x, y := n%d.width, n/d.width
	if d.rightToLeft {
		x = d.width - 1 - x
	}
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	i := d.img.PixOffset(x, y)
	copy(d.img.Pix[i:i+4], px[:])
}

func (d *tgaDecoder) decodeRaw() error {
	for n := 0; n < d.width*d.height; n++ {
		px, err := d.pixel()
		if err != nil {
			return err
		}
		d.put(n, px)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for n := 0; n < total; {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: RLE stream ended after %d of %d pixels", ErrTGA, n, total)
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			px, err := d.pixel()
			if err != nil {
				return err
			}
			for i := 0; i < count && n < total; i++ {
				d.put(n, px)
				n++
			}
			continue
		}
		for i := 0; i < count && n < total; i++ {
			px, err := d.pixel()
			if err != nil {
				return err
			}
			d.put(n, px)
			n++
		}
	}
	return nil
}
