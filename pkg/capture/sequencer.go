// Package capture rasterizes scene surfaces into exact-dimension pixel
// buffers for the encoder.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

// CaptureError reports an unready or unusable render surface. It aborts the
// render.
type CaptureError struct {
	Reason string
}

func (e *CaptureError) Error() string {
	return "capture: " + e.Reason
}

// Sequencer captures one frame at a time as an exact-dimension buffer in the
// configured frame format.
type Sequencer struct {
	logger ports.Logger
}

// New creates a Sequencer.
func New(logger ports.Logger) *Sequencer {
	return &Sequencer{logger: logger.WithComponent("capture")}
}

// PixelRatio computes the scale between the measured surface size and the
// configured target size. Computed once per render, on the first frame. An
// aspect-ratio mismatch between surface and target is logged as a warning
// but does not abort; raw output downstream may then be malformed.
func (s *Sequencer) PixelRatio(surface ports.Surface, targetWidth, targetHeight int) float64 {
	width, height := surface.Size()
	if width <= 0 || height <= 0 {
		return 1
	}

	horizontal := float64(targetWidth) / float64(width)
	vertical := float64(targetHeight) / float64(height)
	if math.Abs(horizontal-vertical) > 1e-3 {
		s.logger.Warn("Surface %dx%d does not match target aspect %dx%d, raw frames may be distorted",
			width, height, targetWidth, targetHeight)
	}
	return horizontal
}

// CaptureFrameRawExact captures the rasterized surface at exactly
// targetWidth x targetHeight. Raw RGBA output is row-major, top-to-bottom,
// targetWidth*targetHeight*4 bytes, no padding.
func (s *Sequencer) CaptureFrameRawExact(surface ports.Surface, pixelRatio float64, targetWidth, targetHeight int, format timeline.FrameFormat) ([]byte, error) {
	if surface == nil {
		return nil, &CaptureError{Reason: "render surface is not attached"}
	}
	width, height := surface.Size()
	if width <= 0 || height <= 0 {
		return nil, &CaptureError{Reason: fmt.Sprintf("render surface has zero size (%dx%d)", width, height)}
	}

	img, err := surface.Image()
	if err != nil {
		return nil, &CaptureError{Reason: fmt.Sprintf("rasterize surface: %v", err)}
	}

	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	rgba := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	bounds := img.Bounds()
	if bounds.Dx() == targetWidth && bounds.Dy() == targetHeight && pixelRatio == 1 {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		// The pixel ratio maps output pixels to surface pixels, so the
		// surface region covering the target is target/ratio in size. A
		// surface larger than that region is cropped, not squashed.
		srcW := int(math.Round(float64(targetWidth) / pixelRatio))
		srcH := int(math.Round(float64(targetHeight) / pixelRatio))
		src := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+srcW, bounds.Min.Y+srcH).Intersect(bounds)
		if src.Empty() {
			src = bounds
		}
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, src, xdraw.Src, nil)
	}

	switch format {
	case timeline.FormatPNG:
		var buf bytes.Buffer
		if err := png.Encode(&buf, rgba); err != nil {
			return nil, fmt.Errorf("encode png frame: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return rgba.Pix, nil
	}
}
