// Package orchestrator drives the per-frame render loop: scene evaluation,
// capture, pipelined delivery to the encoder, and cleanup.
package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/rendercast/pkg/capture"
	"github.com/user/rendercast/pkg/framepipe"
	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

// DefaultNotifierTimeout bounds the per-frame side-channel wait. On timeout
// the frame proceeds; the render never blocks indefinitely on a stalled
// side channel.
const DefaultNotifierTimeout = 5 * time.Second

// Options tune the render loop.
type Options struct {
	// MaxBufferSize is the frame pipeline capacity. Zero selects
	// framepipe.DefaultMaxBufferSize.
	MaxBufferSize int

	// NotifierTimeout bounds each wait on the frame-ready notifier.
	// Zero selects DefaultNotifierTimeout.
	NotifierTimeout time.Duration
}

// Orchestrator renders a resolved configuration to a media file.
type Orchestrator struct {
	evaluator ports.SceneEvaluator
	sequencer *capture.Sequencer
	encoder   ports.Encoder
	logger    ports.Logger
	opts      Options
}

// New creates an Orchestrator.
func New(evaluator ports.SceneEvaluator, sequencer *capture.Sequencer, encoder ports.Encoder, logger ports.Logger, opts Options) *Orchestrator {
	if opts.NotifierTimeout <= 0 {
		opts.NotifierTimeout = DefaultNotifierTimeout
	}
	return &Orchestrator{
		evaluator: evaluator,
		sequencer: sequencer,
		encoder:   encoder,
		logger:    logger,
		opts:      opts,
	}
}

// Execute renders every frame in [0, DurationInFrames) and returns the
// output path. Captures, enqueues, and encoder writes all happen strictly
// in ascending frame order. Any failure cancels the encoding session and
// propagates; there is no partial-success result.
func (o *Orchestrator) Execute(ctx context.Context, cfg timeline.RenderConfig, outputPath string, notifier ports.FrameReadyNotifier) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	session, err := o.encoder.StartEncoding(ctx, cfg, outputPath)
	if err != nil {
		return "", err
	}

	o.logger.Info("Rendering %d frames at %dx%d @%d fps",
		cfg.Timeline.DurationInFrames, cfg.Timeline.Width, cfg.Timeline.Height, cfg.Timeline.FPS)

	pipe := framepipe.New(o.opts.MaxBufferSize)
	stats := frameStats{}

	g, gctx := errgroup.WithContext(ctx)

	// Consumer: drain the pipeline into the encoder in arrival order.
	g.Go(func() error {
		for buf := range pipe.Frames() {
			if err := session.WriteFrame(buf); err != nil {
				return err
			}
			pipe.FrameConsumed()
		}
		return nil
	})

	// Producer: evaluate, capture, enqueue, one frame index at a time.
	g.Go(func() error {
		// Closing here lets the consumer drain and terminate even when
		// the producer fails mid-loop.
		defer pipe.Close()
		return o.produceFrames(gctx, cfg, pipe, notifier, &stats)
	})

	if err := g.Wait(); err != nil {
		session.Cancel()
		return "", err
	}

	if err := session.Close(); err != nil {
		session.Cancel()
		return "", err
	}
	path, err := session.Wait()
	if err != nil {
		session.Cancel()
		return "", err
	}

	o.logStats(&stats)
	return path, nil
}

func (o *Orchestrator) produceFrames(ctx context.Context, cfg timeline.RenderConfig, pipe *framepipe.Pipeline, notifier ports.FrameReadyNotifier, stats *frameStats) error {
	format := cfg.Encoding.EffectiveFrameFormat()
	width, height := cfg.Timeline.Width, cfg.Timeline.Height
	pixelRatio := 1.0

	for i := 0; i < cfg.Timeline.DurationInFrames; i++ {
		started := time.Now()

		// Returns once the rasterization pass for frame i has completed,
		// so capture never observes a stale surface.
		surface, err := o.evaluator.EvaluateFrame(ctx, i)
		if err != nil {
			return err
		}

		if notifier != nil {
			if !notifier.WaitForAllFrames(ctx, o.opts.NotifierTimeout) {
				o.logger.Warn("Frame %d: side channel not ready after %s, capturing anyway", i, o.opts.NotifierTimeout)
			}
		}

		if i == 0 {
			pixelRatio = o.sequencer.PixelRatio(surface, width, height)
			o.logger.Debug("Pixel ratio %.3f for %dx%d target", pixelRatio, width, height)
		}

		buf, err := o.sequencer.CaptureFrameRawExact(surface, pixelRatio, width, height, format)
		if err != nil {
			return err
		}

		// May block under backpressure when the encoder falls behind.
		if err := pipe.AddFrame(ctx, buf); err != nil {
			return err
		}

		stats.record(i, time.Since(started))
	}
	return nil
}

// frameStats tracks per-frame timing for observability only; it never
// affects control flow.
type frameStats struct {
	frames     int
	total      time.Duration
	slowest    time.Duration
	slowestIdx int
}

func (s *frameStats) record(index int, d time.Duration) {
	s.frames++
	s.total += d
	if d > s.slowest {
		s.slowest = d
		s.slowestIdx = index
	}
}

func (o *Orchestrator) logStats(s *frameStats) {
	if s.frames == 0 {
		o.logger.Info("Render completed (no frames)")
		return
	}
	avg := s.total / time.Duration(s.frames)
	o.logger.Info("Render completed: %d frames, avg %s/frame, slowest frame %d at %s",
		s.frames, avg.Round(time.Microsecond), s.slowestIdx, s.slowest.Round(time.Microsecond))
}
