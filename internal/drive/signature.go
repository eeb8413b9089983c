package drive

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/jpeg"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const maxSignatureWidth = 600

// NormalizeSignature decodes an uploaded signature image (PNG, JPEG or WebP),
// scales it down when wider than maxSignatureWidth, and re-encodes it as PNG
// so the drive service only ever sees one format.
func NormalizeSignature(data []byte) ([]byte, error) {
	img, err := decodeSignature(data)
	if err != nil {
		return nil, fmt.Errorf("decode signature image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSignatureWidth {
		scale := float64(maxSignatureWidth) / float64(bounds.Dx())
		height := int(float64(bounds.Dy()) * scale)
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxSignatureWidth, height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode signature png: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSignature(data []byte) (image.Image, error) {
	if isWebP(data) {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP"))
}
