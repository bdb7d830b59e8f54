// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"image"
	"time"

	"github.com/user/rendercast/pkg/ports"
)

// Surface is a mock implementation of ports.Surface backed by an image.
type Surface struct {
	Img      image.Image
	ImageErr error
	W, H     int
}

// NewSurface creates a Surface of the given size filled with zero pixels.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Img: image.NewRGBA(image.Rect(0, 0, width, height)),
		W:   width,
		H:   height,
	}
}

func (s *Surface) Image() (image.Image, error) {
	if s.ImageErr != nil {
		return nil, s.ImageErr
	}
	return s.Img, nil
}

func (s *Surface) Size() (int, int) {
	return s.W, s.H
}

// SceneEvaluator is a mock implementation of ports.SceneEvaluator.
type SceneEvaluator struct {
	EvaluateFrameFunc func(ctx context.Context, index int) (ports.Surface, error)
	CloseFunc         func() error

	// EvaluatedFrames records every index passed to EvaluateFrame.
	EvaluatedFrames []int
}

func (m *SceneEvaluator) EvaluateFrame(ctx context.Context, index int) (ports.Surface, error) {
	m.EvaluatedFrames = append(m.EvaluatedFrames, index)
	if m.EvaluateFrameFunc != nil {
		return m.EvaluateFrameFunc(ctx, index)
	}
	return NewSurface(4, 4), nil
}

func (m *SceneEvaluator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// FrameReadyNotifier is a mock implementation of ports.FrameReadyNotifier.
type FrameReadyNotifier struct {
	WaitForAllFramesFunc func(ctx context.Context, timeout time.Duration) bool

	// WaitCalls counts invocations.
	WaitCalls int
}

func (m *FrameReadyNotifier) WaitForAllFrames(ctx context.Context, timeout time.Duration) bool {
	m.WaitCalls++
	if m.WaitForAllFramesFunc != nil {
		return m.WaitForAllFramesFunc(ctx, timeout)
	}
	return true
}
