package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bruvrocketry/sdf"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Options controls how an image is binarised into a Field.
type Options struct {
	// Threshold is the grey level at or above which a pixel is foreground.
	// Zero selects 128.
	Threshold uint8
	// Invert makes dark pixels foreground.
	Invert bool
	// FlipY makes the first image row the largest y. Images are stored top
	// row first, so set this to keep text upright in the field.
	FlipY bool
	// Oversample is the number of mask pixels per image pixel along each
	// axis. Zero selects 1.
	Oversample int
	// Pad is the background margin in image pixels. A negative value
	// selects the default of 4 plus a tenth of the larger image side.
	Pad int
}

func (o Options) threshold() uint8 {
	if o.Threshold == 0 {
		return 128
	}
	return o.Threshold
}

func (o Options) oversample() int {
	if o.Oversample <= 0 {
		return 1
	}
	return o.Oversample
}

func (o Options) pad(w, h int) int {
	if o.Pad < 0 {
		return 4 + max(w, h)/10
	}
	return o.Pad
}

// DefaultOptions flips rows so the field reads upright and pads by the
// default margin.
func DefaultOptions() Options {
	return Options{FlipY: true, Pad: -1}
}

// LoadImage decodes a PNG, JPEG, GIF, BMP or TIFF file.
func LoadImage(path string) (image.Image, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	img, format, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	sdf.Logger().Debug("image loaded", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// FromImage binarises img and builds its distance field. Distances are in
// image pixels regardless of oversampling.
func FromImage(img image.Image, opt Options) (*Field, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}
	k := opt.oversample()
	src := img
	if k > 1 {
		src = resize.Resize(uint(w*k), uint(h*k), img, resize.Bilinear)
	}
	mask := Binarise(src, opt.threshold(), opt.Invert, opt.FlipY)
	return NewField(mask, w*k, h*k, k, opt.pad(w, h))
}

// Binarise converts img to grey and returns its row-major foreground mask.
// Row 0 of the mask is the first image row unless flipY is set.
func Binarise(img image.Image, threshold uint8, invert, flipY bool) []bool {
	b := img.Bounds()
	grey, ok := img.(*image.Gray)
	if !ok || grey.Rect.Min != (image.Point{}) {
		grey = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(grey, grey.Rect, img, b.Min, draw.Src)
	}
	w, h := b.Dx(), b.Dy()
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := y
		if flipY {
			row = h - 1 - y
		}
		for x := 0; x < w; x++ {
			g := grey.GrayAt(x, y).Y
			mask[row*w+x] = (g >= threshold) != invert
		}
	}
	return mask
}

// Mask renders a foreground mask back to a black and white image. It is
// the inverse of Binarise with flipY unset.
func Mask(mask []bool, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y*w+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
