package usecase

import (
	"sync"

	"coldmic/internal/domain"
	"coldmic/internal/ports"
)

// activeSession is the single Recording Session the controller may own at
// once. All fields past construction are either immutable or guarded by
// their own mutex/once, so the controller's own mutex only ever protects
// the *pointer* in SessionController.current.
type activeSession struct {
	cancel func()
	stream ports.StreamingSession

	consumer chan []byte
	pumpStop chan struct{}
	stopOnce sync.Once

	tracker *transcriptTracker

	audioDone  chan struct{}
	eventsDone chan struct{}

	// resultCh carries the single terminal TranscriptEvent (Final, or a
	// synthesized Error) that ends a Processing wait. Buffered 1 and
	// written at most once, so a plain non-blocking send is race-free.
	resultCh chan domain.TranscriptEvent

	stateMu sync.Mutex
	state   domain.SessionState
}

func newActiveSession(stream ports.StreamingSession, consumer chan []byte) *activeSession {
	return &activeSession{
		stream:     stream,
		consumer:   consumer,
		pumpStop:   make(chan struct{}),
		tracker:    newTranscriptTracker(),
		audioDone:  make(chan struct{}),
		eventsDone: make(chan struct{}),
		resultCh:   make(chan domain.TranscriptEvent, 1),
		state:      domain.SessionStateRecording,
	}
}

// trySendResult delivers event to resultCh without blocking; at most one of
// Final/Error/closed-early ever reaches this call per session, so the
// buffer is never full when it matters.
func (s *activeSession) trySendResult(event domain.TranscriptEvent) {
	select {
	case s.resultCh <- event:
	default:
	}
}

func (s *activeSession) setState(state domain.SessionState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = state
}

func (s *activeSession) getState() domain.SessionState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// stopPump signals pumpAudio to return without closing the consumer
// channel, which the pipeline may still hold a reference to.
func (s *activeSession) stopPump() {
	s.stopOnce.Do(func() { close(s.pumpStop) })
}

// transcriptTracker retains the latest confirmed/partial pair for a
// session's live display. The confirmed prefix is monotonic: a server
// glitch that would shrink it is ignored, since spec guarantees
// confirmed text never changes once delivered.
type transcriptTracker struct {
	mu        sync.Mutex
	confirmed string
	partial   string
}

func newTranscriptTracker() *transcriptTracker {
	return &transcriptTracker{}
}

func (t *transcriptTracker) Add(event domain.TranscriptEvent) (confirmed, partial string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(event.Confirmed) >= len(t.confirmed) {
		t.confirmed = event.Confirmed
	}
	t.partial = event.Partial
	return t.confirmed, t.partial
}
