package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/rendercast/pkg/adapters/logger"
	"github.com/user/rendercast/pkg/capture"
	"github.com/user/rendercast/pkg/mocks"
	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

func testConfig(frames int) timeline.RenderConfig {
	return timeline.RenderConfig{
		Timeline: timeline.TimelineConfig{FPS: 30, DurationInFrames: frames, Width: 4, Height: 4},
		Encoding: timeline.EncodingConfig{Quality: timeline.QualityMedium, FrameFormat: timeline.FormatRawRGBA},
	}
}

func newTestOrchestrator(evaluator ports.SceneEvaluator, encoder ports.Encoder, opts Options) *Orchestrator {
	log := logger.NewNoop()
	return New(evaluator, capture.New(log), encoder, log, opts)
}

func TestExecute_WritesEveryFrameInOrder(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	encoder := &mocks.Encoder{}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	path, err := orch.Execute(context.Background(), testConfig(10), "out.mp4", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "out.mp4" {
		t.Errorf("expected output path out.mp4, got %q", path)
	}

	session := encoder.Session
	if session.WrittenFrames() != 10 {
		t.Errorf("expected 10 sink writes, got %d", session.WrittenFrames())
	}
	if len(evaluator.EvaluatedFrames) != 10 {
		t.Fatalf("expected 10 evaluations, got %d", len(evaluator.EvaluatedFrames))
	}
	for i, idx := range evaluator.EvaluatedFrames {
		if idx != i {
			t.Errorf("evaluation %d: expected frame %d, got %d", i, i, idx)
		}
	}
	if !session.Closed {
		t.Error("expected session to be closed after the final frame")
	}
	if session.CancelCalls != 0 {
		t.Errorf("successful render must not cancel, got %d cancel calls", session.CancelCalls)
	}
}

func TestExecute_ExactFrameBytes(t *testing.T) {
	// 3 frames at 4x4 RGBA: exactly 3 writes of 64 bytes each.
	evaluator := &mocks.SceneEvaluator{}
	encoder := &mocks.Encoder{}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	if _, err := orch.Execute(context.Background(), testConfig(3), "out.mp4", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := encoder.Session
	if session.WrittenFrames() != 3 {
		t.Fatalf("expected 3 writes, got %d", session.WrittenFrames())
	}
	for i, buf := range session.Writes {
		if len(buf) != 64 {
			t.Errorf("write %d: expected 64 bytes, got %d", i, len(buf))
		}
	}
}

func TestExecute_ZeroFrames(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	encoder := &mocks.Encoder{}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	if _, err := orch.Execute(context.Background(), testConfig(0), "out.mp4", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoder.Session.WrittenFrames() != 0 {
		t.Errorf("expected no writes, got %d", encoder.Session.WrittenFrames())
	}
	if !encoder.Session.Closed {
		t.Error("expected session closed even with zero frames")
	}
}

func TestExecute_CaptureErrorCancelsSession(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{
		EvaluateFrameFunc: func(ctx context.Context, index int) (ports.Surface, error) {
			if index == 2 {
				return &mocks.Surface{W: 0, H: 0}, nil
			}
			return mocks.NewSurface(4, 4), nil
		},
	}
	encoder := &mocks.Encoder{}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	_, err := orch.Execute(context.Background(), testConfig(5), "out.mp4", nil)

	var capErr *capture.CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CaptureError, got %v", err)
	}
	if encoder.Session.CancelCalls == 0 {
		t.Error("expected session canceled on capture failure")
	}
}

func TestExecute_SinkFailureCancelsSession(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	session := &mocks.EncoderSession{OutputPath: "out.mp4"}
	sinkErr := errors.New("broken pipe")
	session.WriteFrameFunc = func(buf []byte) error {
		if session.WrittenFrames() >= 2 {
			return sinkErr
		}
		return nil
	}
	encoder := &mocks.Encoder{Session: session}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	_, err := orch.Execute(context.Background(), testConfig(8), "out.mp4", nil)

	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error to propagate, got %v", err)
	}
	if session.CancelCalls == 0 {
		t.Error("expected session canceled on sink failure")
	}
}

func TestExecute_ProcessFailureCancelsSession(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	waitErr := errors.New("exit status 1")
	session := &mocks.EncoderSession{
		WaitFunc: func() (string, error) { return "", waitErr },
	}
	encoder := &mocks.Encoder{Session: session}

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	_, err := orch.Execute(context.Background(), testConfig(2), "out.mp4", nil)

	if !errors.Is(err, waitErr) {
		t.Fatalf("expected process error to propagate, got %v", err)
	}
	if session.CancelCalls == 0 {
		t.Error("expected session canceled on process failure")
	}
}

func TestExecute_NotifierTimeoutProceeds(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	encoder := &mocks.Encoder{}
	notifier := &mocks.FrameReadyNotifier{
		// Side channel never becomes ready.
		WaitForAllFramesFunc: func(ctx context.Context, timeout time.Duration) bool {
			return false
		},
	}

	orch := newTestOrchestrator(evaluator, encoder, Options{NotifierTimeout: 10 * time.Millisecond})
	_, err := orch.Execute(context.Background(), testConfig(3), "out.mp4", notifier)
	if err != nil {
		t.Fatalf("stalled notifier must not fail the render: %v", err)
	}
	if encoder.Session.WrittenFrames() != 3 {
		t.Errorf("expected 3 writes despite notifier timeouts, got %d", encoder.Session.WrittenFrames())
	}
	if notifier.WaitCalls != 3 {
		t.Errorf("expected the notifier consulted once per frame, got %d", notifier.WaitCalls)
	}
}

func TestExecute_InvalidConfig(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	encoder := &mocks.Encoder{}

	cfg := testConfig(3)
	cfg.Timeline.Width = 0

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	_, err := orch.Execute(context.Background(), cfg, "out.mp4", nil)
	if !errors.Is(err, timeline.ErrInvalidConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if encoder.Session != nil {
		t.Error("encoder must not start for an invalid configuration")
	}
}

func TestExecute_ContextCancellation(t *testing.T) {
	blockForever := make(chan struct{})
	evaluator := &mocks.SceneEvaluator{
		EvaluateFrameFunc: func(ctx context.Context, index int) (ports.Surface, error) {
			if index == 1 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-blockForever:
				}
			}
			return mocks.NewSurface(4, 4), nil
		},
	}
	encoder := &mocks.Encoder{}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	orch := newTestOrchestrator(evaluator, encoder, Options{})
	_, err := orch.Execute(ctx, testConfig(5), "out.mp4", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if encoder.Session.CancelCalls == 0 {
		t.Error("expected session canceled on context cancellation")
	}
}

func TestExecute_BackpressureBoundsInFlightFrames(t *testing.T) {
	evaluator := &mocks.SceneEvaluator{}
	session := &mocks.EncoderSession{OutputPath: "out.mp4"}
	// A slow sink forces the producer to run ahead into the pipeline.
	session.WriteFrameFunc = func(buf []byte) error {
		time.Sleep(2 * time.Millisecond)
		return nil
	}
	encoder := &mocks.Encoder{Session: session}

	orch := newTestOrchestrator(evaluator, encoder, Options{MaxBufferSize: 2})
	if _, err := orch.Execute(context.Background(), testConfig(20), "out.mp4", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.WrittenFrames() != 20 {
		t.Errorf("expected 20 writes, got %d", session.WrittenFrames())
	}
	// All buffers must be identical 64-byte frames, delivered completely.
	for i, buf := range session.Writes {
		if !bytes.Equal(buf, session.Writes[0]) {
			t.Errorf("write %d differs from first frame", i)
		}
	}
}
