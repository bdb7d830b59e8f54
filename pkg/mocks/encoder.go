package mocks

import (
	"context"
	"sync"

	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

// Encoder is a mock implementation of ports.Encoder.
type Encoder struct {
	StartEncodingFunc func(ctx context.Context, cfg timeline.RenderConfig, outputPath string) (ports.EncoderSession, error)

	// Session is returned by StartEncoding when StartEncodingFunc is nil.
	Session *EncoderSession
}

func (m *Encoder) StartEncoding(ctx context.Context, cfg timeline.RenderConfig, outputPath string) (ports.EncoderSession, error) {
	if m.StartEncodingFunc != nil {
		return m.StartEncodingFunc(ctx, cfg, outputPath)
	}
	if m.Session == nil {
		m.Session = &EncoderSession{OutputPath: outputPath}
	}
	return m.Session, nil
}

// EncoderSession is a mock implementation of ports.EncoderSession that
// records every interaction.
type EncoderSession struct {
	mu sync.Mutex

	WriteFrameFunc func(buf []byte) error
	CloseFunc      func() error
	WaitFunc       func() (string, error)

	OutputPath string

	// Writes holds a copy of every buffer delivered via WriteFrame.
	Writes [][]byte

	Closed      bool
	CancelCalls int
}

func (m *EncoderSession) WriteFrame(buf []byte) error {
	m.mu.Lock()
	cp := make([]byte, len(buf))
	copy(cp, buf)
	m.Writes = append(m.Writes, cp)
	m.mu.Unlock()
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(buf)
	}
	return nil
}

func (m *EncoderSession) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *EncoderSession) Wait() (string, error) {
	if m.WaitFunc != nil {
		return m.WaitFunc()
	}
	return m.OutputPath, nil
}

func (m *EncoderSession) Cancel() error {
	m.mu.Lock()
	m.CancelCalls++
	m.mu.Unlock()
	return nil
}

// WrittenFrames returns the number of frames delivered so far.
func (m *EncoderSession) WrittenFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Writes)
}
