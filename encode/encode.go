// Package encode turns a finished ImageFrame's bitmap into the encoded
// blob a run returns, per SPEC_FULL.md §6: PNG (lossless), JPEG and WebP
// (both quality 0..1). Grounded on the teacher's internal/image/io.go
// Encode*/Save* family, generalized from file-path saves to an in-memory
// []byte return since the core has no filesystem of its own — the CLI
// wrapper (cmd/pipemagic) is the only thing that ever touches a path.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
)

// Format is the output container an output node declares.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// Encode renders img into the requested container. quality is in [0,1] and
// ignored for PNG (lossless, per SPEC_FULL.md §6).
func Encode(img image.Image, format Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatPNG, "":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode: png: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: qualityToJPEG(quality)}); err != nil {
			return nil, fmt.Errorf("encode: jpeg: %w", err)
		}
	case FormatWebP:
		opts := &webp.Options{Lossless: false, Quality: float32(qualityToPercent(quality))}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode: webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("encode: unsupported format %q", format)
	}

	return buf.Bytes(), nil
}

// qualityToJPEG maps a [0,1] quality to the stdlib jpeg package's [1,100]
// scale, clamping out-of-range input rather than erroring (the scheduler
// treats a missing/zero quality as "use a sane default", matching the
// teacher's permissive-parameter style elsewhere, e.g. color.go's Hex).
func qualityToJPEG(q float64) int {
	if q <= 0 {
		return 90
	}
	return qualityToPercent(q)
}

func qualityToPercent(q float64) int {
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	v := int(q*100 + 0.5)
	if v < 1 {
		v = 1
	}
	return v
}
