// Package ggscene provides a procedural scene evaluator used by the CLI
// demo mode and by tests. Each frame is drawn deterministically from its
// index, so renders are reproducible.
package ggscene

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/user/rendercast/pkg/ports"
)

// Scene is a deterministic test-card scene evaluator.
type Scene struct {
	width  int
	height int
	fps    int
}

// New creates a Scene rasterizing at the given surface size.
func New(width, height, fps int) *Scene {
	return &Scene{width: width, height: height, fps: fps}
}

// EvaluateFrame draws the scene state for the given frame index and returns
// the rasterized surface.
func (s *Scene) EvaluateFrame(ctx context.Context, index int) (ports.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(s.width, s.height)

	// Background hue cycles once per 10 seconds.
	t := float64(index) / float64(s.fps*10)
	r, g, b := hsv(math.Mod(t, 1), 0.35, 0.22)
	dc.SetRGB(r, g, b)
	dc.Clear()

	// Orbiting marker, one revolution per 4 seconds.
	angle := 2 * math.Pi * float64(index) / float64(s.fps*4)
	cx := float64(s.width) / 2
	cy := float64(s.height) / 2
	radius := math.Min(cx, cy) * 0.6
	dc.SetRGB(0.95, 0.85, 0.3)
	dc.DrawCircle(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle), math.Min(cx, cy)*0.12)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%06d", index), cx, cy, 0.5, 0.5)

	return &surface{img: dc.Image()}, nil
}

// Close implements ports.SceneEvaluator; the scene holds no resources.
func (s *Scene) Close() error {
	return nil
}

type surface struct {
	img image.Image
}

func (s *surface) Image() (image.Image, error) {
	return s.img, nil
}

func (s *surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// hsv converts a hue/saturation/value triple to rgb in [0, 1].
func hsv(h, s, v float64) (float64, float64, float64) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

var _ ports.SceneEvaluator = (*Scene)(nil)
