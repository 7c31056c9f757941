package pipeline

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"

	"github.com/nao1215/imgsaveas/internal/fetch"
	"github.com/nao1215/imgsaveas/internal/platform"
)

// testImage returns a w x h image with a gradient so encoders have work to do.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x ^ y) * 5), A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// jpegWithOrientation returns a JPEG whose APP1 block sets the EXIF
// Orientation tag and the camera Make.
func jpegWithOrientation(t *testing.T, w, h int, orientation uint16) []byte {
	t.Helper()

	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, testImage(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	le := binary.LittleEndian
	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, le, uint16(42))
	_ = binary.Write(&tiff, le, uint32(8))

	maker := []byte("Canon\x00")
	_ = binary.Write(&tiff, le, uint16(2))
	_ = binary.Write(&tiff, le, uint16(0x010f))
	_ = binary.Write(&tiff, le, uint16(2))
	_ = binary.Write(&tiff, le, uint32(len(maker)))
	_ = binary.Write(&tiff, le, uint32(8+2+2*12+4))
	_ = binary.Write(&tiff, le, uint16(0x0112))
	_ = binary.Write(&tiff, le, uint16(3))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, orientation)
	_ = binary.Write(&tiff, le, uint16(0))
	_ = binary.Write(&tiff, le, uint32(0))
	tiff.Write(maker)

	var out bytes.Buffer
	out.Write(plain.Bytes()[:2]) // SOI
	out.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&out, binary.BigEndian, uint16(2+6+tiff.Len()))
	out.WriteString("Exif\x00\x00")
	out.Write(tiff.Bytes())
	out.Write(plain.Bytes()[2:])
	return out.Bytes()
}

type fakeFetcher struct {
	body        []byte
	contentType string
	err         error

	mu   sync.Mutex
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*fetch.Result, error) {
	f.mu.Lock()
	f.urls = append(f.urls, rawURL)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &fetch.Result{URL: rawURL, ContentType: f.contentType, Body: f.body}, nil
}

type fakeDownloads struct {
	err error

	mu    sync.Mutex
	calls []platform.DownloadOptions
}

func (d *fakeDownloads) Download(_ context.Context, opts platform.DownloadOptions) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return 0, d.err
	}
	d.calls = append(d.calls, opts)
	return int64(len(d.calls)), nil
}
