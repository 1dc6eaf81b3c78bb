// Package texture decodes bundle texture images and uploads them to OpenGL.
// Decoding is pure and testable; the GL upload lives separately so headless
// tools can decode without a context.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// MaxDimension caps texture size. Larger images are downscaled before upload
// to keep memory bounded on weak GPUs.
const MaxDimension = 2048

// Decode sniffs and decodes one texture image, converts it to RGBA and
// downscales it when a side exceeds MaxDimension.
func Decode(name string, data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	rgba := toRGBA(img)
	if w, h := rgba.Rect.Dx(), rgba.Rect.Dy(); w > MaxDimension || h > MaxDimension {
		rgba = downscale(rgba, MaxDimension)
	}
	return rgba, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Rect, img, b.Min, xdraw.Src)
	return rgba
}

// downscale resizes so the longer side equals limit, preserving aspect.
func downscale(src *image.RGBA, limit int) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}
