// Package telemetry reports test runs and test files as OpenTelemetry spans.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultSizeLimit is the buffered size that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the interval after which buffered lines are flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

var errBatcherClosed = zerr.New("batcher is closed")

// Batcher coalesces command output into line-aligned chunks.
//
// Only complete lines are flushed while the batcher is open, so a chunk never
// ends in the middle of a line. A trailing partial line is flushed by Close,
// or by a size flush when it alone exceeds the limit. Batcher is safe for
// concurrent use.
type Batcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewBatcher returns a Batcher that calls onFlush with every chunk.
// Non-positive limits select the defaults. Call Close to stop the ticker.
func NewBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *Batcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &Batcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		stopCh:    make(chan struct{}),
		ticker:    time.NewTicker(timeLimit),
	}
	go b.run()
	return b
}

// Write buffers p and flushes when the size limit is reached.
func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	n, _ := b.buffer.Write(p)
	if b.buffer.Len() >= b.sizeLimit {
		if !b.flushLinesLocked() {
			b.flushAllLocked()
		}
		b.ticker.Reset(b.timeLimit)
	}
	return n, nil
}

// Flush sends every complete buffered line.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.flushLinesLocked()
}

// Close stops the ticker and flushes everything, including a partial line.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.stopCh)
	b.flushAllLocked()
	return nil
}

func (b *Batcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLinesLocked reports whether anything was flushed. mu must be held.
func (b *Batcher) flushLinesLocked() bool {
	i := bytes.LastIndexByte(b.buffer.Bytes(), '\n')
	if i < 0 {
		return false
	}
	b.emit(b.buffer.Next(i + 1))
	return true
}

func (b *Batcher) flushAllLocked() {
	if b.buffer.Len() == 0 {
		return
	}
	b.emit(b.buffer.Next(b.buffer.Len()))
}

func (b *Batcher) emit(chunk []byte) {
	data := make([]byte, len(chunk))
	copy(data, chunk)
	if b.onFlush != nil {
		b.onFlush(data)
	}
}
