// Package imageio decodes host-supplied images into the raw RGBA
// buffers the Engine consumes, and resizes them to a target
// resolution. Decode/encode and rendering are explicitly out of scope
// for the core (§1, "Out of scope: external collaborators"); this
// package is the host-side adapter that bridges the two.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("webp", "RIFF????WEBP", webp.Decode, webp.DecodeConfig)
}

// Load decodes the image at path and returns it as a row-major RGBA
// byte buffer, ready to hand to voronoi.Engine.SetImage.
func Load(path string) (pix []uint8, w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads any registered image format (PNG, JPEG, BMP, WebP; no
// GIF decoder is registered) from r and returns it as RGBA.
func Decode(r io.Reader) (pix []uint8, w, h int, err error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("imageio: decode: %w", err)
	}
	return ToRGBA(img)
}

// ToRGBA flattens any image.Image into a row-major RGBA buffer.
func ToRGBA(img image.Image) (pix []uint8, w, h int, err error) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba.Pix, w, h, nil
}

// Resize scales a row-major RGBA buffer of size w*h to newW*newH using
// a Catmull-Rom resampler, suitable for fitting a source image to the
// Engine's working resolution before SetImage.
func Resize(pix []uint8, w, h, newW, newH int) []uint8 {
	src := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst.Pix
}

// SavePNG writes pix (row-major RGBA, w*h) to path as a PNG, used by
// the video pipeline for each rendered frame.
func SavePNG(path string, pix []uint8, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	img := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	return png.Encode(f, img)
}

// SaveJPEG writes pix to path as a JPEG at the given quality
// (1-100). The video pipeline writes PNG frames and does not call it.
func SaveJPEG(path string, pix []uint8, w, h int, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	img := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
}
