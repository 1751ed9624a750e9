package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyRegion is returned when the selected region has no pixels inside
// the image.
var ErrEmptyRegion = errors.New("selected region is empty")

// Region is a selection in viewport coordinates.
type Region struct {
	Left, Top, Width, Height int
}

// Crop cuts region out of a screenshot and returns it as PNG. When viewport
// is non-zero, region is given in viewport coordinates and is scaled to the
// image size, as for a selection made on a high-DPI screen. The output is
// at least 1x1 pixels.
func Crop(screenshot []byte, region Region, viewport image.Point) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if viewport.X > 0 && viewport.Y > 0 {
		scaleX = float64(bounds.Dx()) / float64(viewport.X)
		scaleY = float64(bounds.Dy()) / float64(viewport.Y)
	}

	if region.Width <= 0 || region.Height <= 0 {
		return nil, ErrEmptyRegion
	}
	x := int(math.Round(float64(region.Left) * scaleX))
	y := int(math.Round(float64(region.Top) * scaleY))
	w := max(1, int(math.Round(float64(region.Width)*scaleX)))
	h := max(1, int(math.Round(float64(region.Height)*scaleY)))

	r := image.Rect(x, y, x+w, y+h).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, ErrEmptyRegion
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out.Bytes(), nil
}

// ToPNG re-encodes any supported image format as PNG.
func ToPNG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, src); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out.Bytes(), nil
}
