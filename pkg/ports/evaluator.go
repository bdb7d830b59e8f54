package ports

import (
	"context"
	"image"
	"time"
)

// SceneEvaluator abstracts the scene/animation description system.
// It re-evaluates scene state for a frame index and returns the rasterized
// surface once the rasterization pass for that index has completed.
type SceneEvaluator interface {
	// EvaluateFrame advances scene state to the given frame index and
	// blocks until the surface for that index is rasterized.
	EvaluateFrame(ctx context.Context, index int) (Surface, error)

	// Close releases the evaluator's resources.
	Close() error
}

// Surface is a rasterized scene at its measured size.
type Surface interface {
	// Image returns the rasterized pixels.
	Image() (image.Image, error)

	// Size returns the measured surface dimensions in pixels.
	Size() (width, height int)
}

// FrameReadyNotifier covers asynchronous side-channel work that must settle
// before a frame is captured, such as lazily materialized embedded media.
type FrameReadyNotifier interface {
	// WaitForAllFrames blocks until the side channel reports ready or the
	// timeout elapses. Returns false on timeout.
	WaitForAllFrames(ctx context.Context, timeout time.Duration) bool
}
