// Package imaging prepares uploaded images for embedding in the report
// documents: decode, EXIF orientation, optional downscale, flatten onto white
// and re-encode as an opaque JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultQuality is the JPEG quality used when Options.Quality is zero.
	DefaultQuality = 95
)

// ErrEmpty is returned for zero-length blobs.
var ErrEmpty = errors.New("imaging: empty image")

// Options tune Prepare.
type Options struct {
	// Quality is the JPEG quality, 1..100. Zero selects DefaultQuality.
	Quality int
	// MaxDimension bounds the longest side in pixels. Zero keeps the source
	// size.
	MaxDimension int
}

// Image is an opaque JPEG ready to embed.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// AspectRatio returns height divided by width.
func (i Image) AspectRatio() float64 {
	if i.Width == 0 {
		return 0
	}
	return float64(i.Height) / float64(i.Width)
}

// Prepare decodes blob and returns it as an opaque JPEG. Transparent pixels
// are composited over white.
func Prepare(blob []byte, opts Options) (Image, error) {
	if len(blob) == 0 {
		return Image{}, ErrEmpty
	}

	src, format, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return Image{}, fmt.Errorf("imaging: decode: %w", err)
	}
	if format == "jpeg" {
		if orientation := Orientation(blob); orientation != 1 {
			src = Orient(src, orientation)
		}
	}

	bounds := src.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxDimension)
	if width == 0 || height == 0 {
		return Image{}, fmt.Errorf("imaging: invalid dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, bounds, draw.Over, nil)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return Image{}, fmt.Errorf("imaging: encode: %w", err)
	}

	return Image{Data: buf.Bytes(), Width: width, Height: height}, nil
}

func fitWithin(width, height, limit int) (int, int) {
	if limit <= 0 || (width <= limit && height <= limit) {
		return width, height
	}
	scale := float64(limit) / float64(width)
	if s := float64(limit) / float64(height); s < scale {
		scale = s
	}
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Orientation reads the EXIF orientation tag, defaulting to 1 when the blob
// carries no usable EXIF data.
func Orientation(blob []byte) int {
	x, err := exif.Decode(bytes.NewReader(blob))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := tag.Int(0)
	if err != nil || value < 1 || value > 8 {
		return 1
	}
	return value
}

// Orient applies an EXIF orientation (2..8) to img.
func Orient(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var mapPoint func(x, y int) (int, int)

	switch orientation {
	case 2:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapPoint = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapPoint = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapPoint = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapPoint = func(x, y int) (int, int) { return y, x }
	case 6:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapPoint = func(x, y int) (int, int) { return h - 1 - y, x }
	case 7:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapPoint = func(x, y int) (int, int) { return h - 1 - y, w - 1 - x }
	case 8:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapPoint = func(x, y int) (int, int) { return y, w - 1 - x }
	default:
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := mapPoint(x, y)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
