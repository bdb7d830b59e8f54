package ports

import (
	"context"

	"github.com/user/rendercast/pkg/timeline"
)

// Encoder starts external encoding sessions.
type Encoder interface {
	// StartEncoding launches an external encoder process parameterized by
	// the render configuration, writing the finished file to outputPath.
	StartEncoding(ctx context.Context, cfg timeline.RenderConfig, outputPath string) (EncoderSession, error)
}

// EncoderSession is the lifecycle handle for one external encode invocation.
// Frames are accepted strictly in capture order; no reordering or
// interleaving across sessions.
type EncoderSession interface {
	// WriteFrame delivers one raw frame buffer to the encoder.
	// Returns an error once the session is closed or canceled.
	WriteFrame(buf []byte) error

	// Close signals end of input. Must follow delivery of the last frame.
	Close() error

	// Wait blocks until the process exits after Close and returns the
	// output path. Fails with an encoding process error on nonzero exit.
	Wait() (string, error)

	// Cancel terminates the process immediately. Idempotent, and safe to
	// call whether or not Close was ever called.
	Cancel() error
}
