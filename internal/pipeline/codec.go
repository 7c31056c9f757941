package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	// Register WebP decoding for sources; imaging registers BMP and TIFF.
	_ "golang.org/x/image/webp"

	"github.com/nao1215/imgsaveas/internal/model"
)

// decodeBitmap decodes image bytes and applies the EXIF orientation, as a
// browser does when it creates a bitmap from a fetched image.
func decodeBitmap(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// drawSurface paints img onto a new off-screen surface of the same size.
func drawSurface(img image.Image) *image.NRGBA {
	b := img.Bounds()
	surface := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(surface, surface.Bounds(), img, b.Min, draw.Src)
	return surface
}

// jpegQuality maps a quality in [0.1, 1.0] to the encoder's 1..100 scale.
func jpegQuality(q float64) int {
	return max(1, min(100, int(math.Round(model.ClampQuality(q)*100))))
}

// encodeImage writes img in the target format. quality is only honored by
// lossy JPEG; PNG and WebP are written losslessly.
func encodeImage(w io.Writer, img image.Image, format model.FormatDescriptor, quality float64) error {
	switch format.Key {
	case model.FormatJPEG:
		// JPEG has no alpha channel; transparent pixels come out black,
		// matching a canvas export.
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality(quality)})
	case model.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	case model.FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format.Key)
	}
}
