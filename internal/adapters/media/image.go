package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// ImageDecoder decodes still images with the standard image registry.
type ImageDecoder struct{}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

func (d *ImageDecoder) Decode(data []byte) (domain.Frame, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Frame{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return domain.Frame{}, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	pixels := make([]uint8, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := decoded.At(x, y).RGBA()
			pixels = append(pixels, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return domain.Frame{
		Width:  width,
		Height: height,
		Format: domain.FormatRGB,
		Pixels: pixels,
	}, nil
}
