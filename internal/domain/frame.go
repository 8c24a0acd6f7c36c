package domain

import (
	"image"

	"golang.org/x/image/draw"
)

type PixelFormat string

const (
	FormatRGB PixelFormat = "rgb"
	FormatBGR PixelFormat = "bgr"
)

// Frame is a single decoded raster image with its zero-based position in
// the original stream. Pixels are row-major, 3 bytes per pixel.
type Frame struct {
	Index  int
	Width  int
	Height int
	Format PixelFormat
	Pixels []uint8
}

// NormalizedFrame is a Frame resized to the scoring engine's fixed square
// input and rescaled to RGB float32 channels in [0, 1].
type NormalizedFrame struct {
	Index  int
	Size   int
	Pixels []float32
}

// FrameSource yields decoded frames in stream order. Next returns false
// once the stream is exhausted; a non-nil error means the decode primitive
// failed mid-stream.
type FrameSource interface {
	Next() (Frame, bool, error)
	Close() error
}

// Normalize converts the frame to the engine input encoding: RGB channel
// order, bilinear resize to size x size, channels scaled from [0, 255] to
// [0, 1]. Pure and deterministic for a given frame and size.
func (f Frame) Normalize(size int) NormalizedFrame {
	src := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			in := (y*f.Width + x) * 3
			out := y*src.Stride + x*4
			r, g, b := f.Pixels[in], f.Pixels[in+1], f.Pixels[in+2]
			if f.Format == FormatBGR {
				r, b = b, r
			}
			src.Pix[out] = r
			src.Pix[out+1] = g
			src.Pix[out+2] = b
			src.Pix[out+3] = 0xff
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([]float32, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			in := y*dst.Stride + x*4
			out := (y*size + x) * 3
			pixels[out] = float32(dst.Pix[in]) / 255
			pixels[out+1] = float32(dst.Pix[in+1]) / 255
			pixels[out+2] = float32(dst.Pix[in+2]) / 255
		}
	}
	return NormalizedFrame{Index: f.Index, Size: size, Pixels: pixels}
}
