package ffmpegencoder

import (
	"errors"
	"fmt"
)

var (
	// ErrFFmpegNotFound indicates ffmpeg was not found on the system.
	ErrFFmpegNotFound = errors.New("ffmpeg not found: install ffmpeg, set FFMPEG_PATH, or pass an explicit path")

	// ErrSessionClosed is returned by WriteFrame after Close or Cancel.
	ErrSessionClosed = errors.New("encoder session is closed")
)

// ProcessError reports an external encoder process failure: nonzero exit,
// a stdin write failure, or cancellation.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("encoder process failed (exit %d): %v\nstderr: %s", e.ExitCode, e.Err, e.Stderr)
	}
	return fmt.Sprintf("encoder process failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
