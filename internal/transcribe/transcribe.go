package transcribe

import (
	"context"
	"time"
)

// RawSegment is one timed span of recognized text as emitted by an engine.
type RawSegment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Engine produces an ordered stream of segments from a 16 kHz mono PCM
// waveform file.
type Engine interface {
	Transcribe(ctx context.Context, wavPath, language string) (*Stream, error)
}

// Stream is a lazy ordered sequence of segments. Consumers range over
// Segments; once the channel closes, Err reports how the stream ended.
// Close abandons the stream early and releases the producer.
type Stream struct {
	segments chan RawSegment
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		segments: make(chan RawSegment),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Segments returns the segment channel. It closes when the engine is
// drained, fails, or the stream is closed.
func (s *Stream) Segments() <-chan RawSegment {
	return s.segments
}

// Err returns the terminal error, valid after Segments has closed.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Close stops the producer and discards any undelivered segments.
func (s *Stream) Close() {
	s.cancel()
	<-s.done
}

// emit delivers one segment unless the producer context was canceled.
// It reports whether the consumer is still listening.
func (s *Stream) emit(ctx context.Context, seg RawSegment) bool {
	select {
	case s.segments <- seg:
		return true
	case <-ctx.Done():
		return false
	}
}

// finish settles the terminal error and closes the stream.
func (s *Stream) finish(err error) {
	s.err = err
	close(s.segments)
	close(s.done)
}
