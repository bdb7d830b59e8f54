// Package framepipe provides a bounded, ordered frame buffer decoupling
// frame capture from encode writes, with backpressure.
package framepipe

import (
	"context"
	"errors"
	"sync"
)

// DefaultMaxBufferSize is the pipeline capacity when none is given.
const DefaultMaxBufferSize = 5

var (
	// ErrClosed is returned by AddFrame after Close.
	ErrClosed = errors.New("frame pipeline is closed")

	// ErrAlreadyClosed is returned by a second Close.
	ErrAlreadyClosed = errors.New("frame pipeline already closed")
)

// Pipeline is a bounded FIFO buffer between a single frame producer and a
// single consumer. A slot stays occupied from AddFrame until FrameConsumed,
// so occupancy bounds frames in flight, not just frames still queued. When
// every slot is occupied, AddFrame blocks until the consumer frees one,
// which keeps memory bounded when the encoder falls behind capture.
type Pipeline struct {
	slots chan struct{}
	queue chan []byte

	mu     sync.Mutex
	closed bool
}

// New creates a pipeline holding at most maxBufferSize frames. A size of
// zero or less selects DefaultMaxBufferSize.
func New(maxBufferSize int) *Pipeline {
	if maxBufferSize <= 0 {
		maxBufferSize = DefaultMaxBufferSize
	}
	return &Pipeline{
		slots: make(chan struct{}, maxBufferSize),
		queue: make(chan []byte, maxBufferSize),
	}
}

// AddFrame enqueues one frame, blocking while all slots are occupied.
// Frames are delivered to the consumer in the order they were added.
func (p *Pipeline) AddFrame(ctx context.Context, buf []byte) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		<-p.slots
		return ErrClosed
	}
	// Never blocks: queue capacity equals slot capacity.
	p.queue <- buf
	return nil
}

// Frames returns the ordered stream of buffered frames. The channel is
// closed once Close has been called and all buffered frames are drained.
// Single consumer only.
func (p *Pipeline) Frames() <-chan []byte {
	return p.queue
}

// FrameConsumed releases one occupied slot, waking a blocked producer if
// any. The consumer calls it after it has finished with a dequeued frame.
func (p *Pipeline) FrameConsumed() {
	select {
	case <-p.slots:
	default:
	}
}

// Close signals that no further frames will be added. Called exactly once,
// after the final AddFrame.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrAlreadyClosed
	}
	p.closed = true
	close(p.queue)
	return nil
}

// BufferedFrames reports current occupancy: frames added but not yet marked
// consumed. Always within [0, maxBufferSize].
func (p *Pipeline) BufferedFrames() int {
	return len(p.slots)
}
