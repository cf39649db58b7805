package audio

import (
	"context"
	"errors"
	"io"
	"sync"

	"coldmic/internal/ports"
)

// PipelineState is one of the three states the audio pipeline can occupy,
// disjoint from recording session state.
type PipelineState string

const (
	StateCold    PipelineState = "cold"
	StateStandby PipelineState = "standby"
	StateLive    PipelineState = "live"
)

// ErrCaptureDied is surfaced to a session's consumer when the capture
// subprocess exits unexpectedly while the pipeline is Live.
var ErrCaptureDied = errors.New("capture subprocess died")

// Pipeline owns the capture subprocess, the byte accumulator, and the
// pre-warm ring. It converts a continuous capture byte stream into
// fixed-size chunks and routes them to either the ring (Standby) or the
// active session's consumer (Live).
type Pipeline struct {
	capture   ports.AudioCapture
	cfg       ports.AudioConfig
	chunkSize int
	ring      *PrewarmRing

	mu          sync.Mutex
	state       PipelineState
	session     ports.AudioSession
	accumulator []byte
	consumer    chan<- []byte
	onDied      func()
	readerDone  chan struct{}
}

// NewPipeline constructs a Cold pipeline. Warm must be called to begin
// pre-warming the capture subprocess.
func NewPipeline(capture ports.AudioCapture, cfg ports.AudioConfig, chunkSize, ringCapacity int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = 16000
	}
	return &Pipeline{
		capture:   capture,
		cfg:       cfg,
		chunkSize: chunkSize,
		ring:      NewPrewarmRing(ringCapacity),
		state:     StateCold,
	}
}

// State reports the pipeline's current state.
func (p *Pipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Warm starts the capture subprocess in the background and transitions
// Cold -> Standby so the next session starts with zero process-launch
// latency. It is a no-op if already warm.
func (p *Pipeline) Warm(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCold {
		return nil
	}
	return p.launchLocked(ctx)
}

// launchLocked starts the subprocess and the reader goroutine. Caller must
// hold p.mu.
func (p *Pipeline) launchLocked(ctx context.Context) error {
	session, err := p.capture.Start(ctx, p.cfg)
	if err != nil {
		return err
	}
	p.session = session
	p.state = StateStandby
	p.readerDone = make(chan struct{})
	go p.readLoop(session, p.readerDone)
	return nil
}

// StartSession transitions Standby -> Live (draining the pre-warm ring
// first) or Cold -> Live (cold-start fallback). No chunk is delivered to
// consumer until the ring-drain step has completed, so chunks are never
// reordered.
func (p *Pipeline) StartSession(ctx context.Context, consumer chan<- []byte, onDied func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateStandby:
		for _, chunk := range p.ring.Drain() {
			consumer <- chunk
		}
		p.consumer = consumer
		p.onDied = onDied
		p.state = StateLive
		return nil
	case StateCold:
		if err := p.launchLocked(ctx); err != nil {
			return err
		}
		p.consumer = consumer
		p.onDied = onDied
		p.state = StateLive
		return nil
	case StateLive:
		return errors.New("audio pipeline already has a live session")
	default:
		return errors.New("audio pipeline in unknown state")
	}
}

// StopSession flushes the accumulator's remainder as a final short chunk,
// detaches the consumer, and returns the pipeline to Standby. The
// subprocess is left running. Calling StopSession while already in
// Standby is a no-op and preserves the ring.
func (p *Pipeline) StopSession() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateLive {
		return
	}

	if len(p.accumulator) > 0 && p.consumer != nil {
		p.consumer <- p.accumulator
		p.accumulator = nil
	}
	p.consumer = nil
	p.onDied = nil
	p.state = StateStandby
}

// readLoop consumes the subprocess's byte stream, slices it into
// TargetChunkBytes-sized chunks, and routes each to the ring or the
// active consumer depending on the pipeline's current state.
func (p *Pipeline) readLoop(session ports.AudioSession, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 32*1024)
	for {
		n, err := session.Read(buf)
		if n > 0 {
			p.absorb(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.handleDeath()
			} else {
				p.handleDeath()
			}
			return
		}
	}
}

// absorb slices newly-read bytes into chunkSize pieces and routes each to
// the ring or the live consumer. The channel send happens after releasing
// p.mu: holding the lock across a send would let a stalled consumer
// deadlock StopSession, which also needs p.mu to detach it.
func (p *Pipeline) absorb(data []byte) {
	p.mu.Lock()
	p.accumulator = append(p.accumulator, data...)

	var toDeliver [][]byte
	var consumer chan<- []byte
	for len(p.accumulator) >= p.chunkSize {
		chunk := p.accumulator[:p.chunkSize]
		p.accumulator = append([]byte(nil), p.accumulator[p.chunkSize:]...)

		switch p.state {
		case StateLive:
			if p.consumer != nil {
				toDeliver = append(toDeliver, append([]byte(nil), chunk...))
				consumer = p.consumer
			}
		case StateStandby:
			p.ring.Push(chunk)
		}
	}
	p.mu.Unlock()

	for _, chunk := range toDeliver {
		consumer <- chunk
	}
}

func (p *Pipeline) handleDeath() {
	p.mu.Lock()
	wasLive := p.state == StateLive
	onDied := p.onDied
	p.session = nil
	p.consumer = nil
	p.onDied = nil
	p.accumulator = nil
	p.state = StateCold
	p.mu.Unlock()

	if wasLive && onDied != nil {
		onDied()
	}
}
