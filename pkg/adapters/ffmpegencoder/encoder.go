// Package ffmpegencoder implements the encoder session over an external
// ffmpeg process fed raw frames on stdin.
package ffmpegencoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

// State is the encoder session lifecycle state.
type State int

const (
	StateStarting State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Encoder starts ffmpeg encoding sessions.
type Encoder struct {
	ffmpegPath string
	logger     ports.Logger
}

// New creates an Encoder. ffmpegPath may be empty, in which case ffmpeg is
// located via FFMPEG_PATH, PATH, and common install locations.
func New(ffmpegPath string, logger ports.Logger) *Encoder {
	return &Encoder{
		ffmpegPath: ffmpegPath,
		logger:     logger.WithComponent("encoder"),
	}
}

// StartEncoding launches ffmpeg for one render invocation.
func (e *Encoder) StartEncoding(ctx context.Context, cfg timeline.RenderConfig, outputPath string) (ports.EncoderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := FindFFmpeg(e.ffmpegPath)
	if err != nil {
		return nil, err
	}

	args := BuildArgs(cfg, outputPath)

	s := &Session{
		id:         uuid.NewString()[:8],
		outputPath: outputPath,
		logger:     e.logger,
		stderr:     newTailBuffer(4096),
		state:      StateStarting,
		done:       make(chan struct{}),
	}

	cmd := exec.Command(path, args...)
	// Stderr and stdout go through in-process writers, so os/exec keeps
	// both pipes drained and ffmpeg can never block on them.
	cmd.Stderr = s.stderr
	cmd.Stdout = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open encoder stdin: %w", err)
	}
	s.cmd = cmd
	s.stdin = stdin

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	s.setState(StateStreaming)
	e.logger.Debug("Encoder session %s started: ffmpeg %dx%d @%d fps -> %s",
		s.id, cfg.Timeline.Width, cfg.Timeline.Height, cfg.Timeline.FPS, outputPath)
	return s, nil
}

// Session wraps one live ffmpeg process.
type Session struct {
	id         string
	outputPath string
	logger     ports.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *tailBuffer

	mu       sync.Mutex
	state    State
	closed   bool
	canceled bool

	waitOnce sync.Once
	waitErr  error
	done     chan struct{}
}

// WriteFrame writes one raw frame buffer to the encoder's stdin. Frames
// must arrive in capture order; the session never reorders them.
func (s *Session) WriteFrame(buf []byte) error {
	s.mu.Lock()
	if s.closed || s.state != StateStreaming {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	stdin := s.stdin
	s.mu.Unlock()

	if _, err := stdin.Write(buf); err != nil {
		s.setState(StateFailed)
		return &ProcessError{
			ExitCode: -1,
			Stderr:   s.stderr.String(),
			Err:      fmt.Errorf("write frame: %w", err),
		}
	}
	return nil
}

// Close signals end of input by closing stdin. Safe to call once after the
// final WriteFrame; subsequent calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.stdin.Close()
}

// Wait blocks until the process exits and returns the output path. It
// settles exactly once; repeated calls return the same result.
func (s *Session) Wait() (string, error) {
	err := s.reap()
	if err != nil {
		s.setState(StateFailed)
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &ProcessError{
			ExitCode: exitCode,
			Stderr:   s.stderr.String(),
			Err:      err,
		}
	}

	s.mu.Lock()
	canceled := s.canceled
	s.mu.Unlock()
	if canceled {
		return "", &ProcessError{ExitCode: -1, Err: fmt.Errorf("session canceled")}
	}

	s.setState(StateCompleted)
	return s.outputPath, nil
}

// Cancel terminates the process immediately. Idempotent, and safe whether
// or not Close was called or the process already exited. A session is never
// left running after Cancel.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return nil
	}
	s.canceled = true
	s.closed = true
	alreadyDone := s.state == StateCompleted
	s.mu.Unlock()

	s.stdin.Close()
	if !alreadyDone && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	// Reap so the process table entry is released.
	s.reap()
	s.setState(StateFailed)
	s.logger.Debug("Encoder session %s canceled", s.id)
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Completed and Failed are terminal.
	if s.state == StateCompleted || s.state == StateFailed {
		return
	}
	s.state = st
}

func (s *Session) reap() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
		close(s.done)
	})
	<-s.done
	return s.waitErr
}

// tailBuffer keeps the last limit bytes written to it. ffmpeg's stderr is
// chatty; only the tail matters for diagnostics.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
