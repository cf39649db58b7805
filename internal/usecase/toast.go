package usecase

import (
	"sync"
	"time"

	"coldmic/internal/domain"
	"coldmic/internal/ports"
)

// doneAutoHideDelay and errorAutoHideDelay match spec's "transient toast
// ... auto-dismiss after 1.5s" behavior for both terminal toast kinds.
const (
	doneAutoHideDelay  = 1500 * time.Millisecond
	errorAutoHideDelay = 1500 * time.Millisecond
)

// ToastController owns the Toast State and mirrors every change to the
// frontend overlay through ports.EventSink. The Set* methods and Hide
// replace the whole state and emit it; UpdateLive changes only the live
// (confirmed, partial) pair of a Recording toast.
type ToastController struct {
	events ports.EventSink

	mu    sync.Mutex
	state domain.ToastState
	timer *time.Timer
}

func NewToastController(events ports.EventSink) *ToastController {
	return &ToastController{events: events, state: domain.ToastState{Kind: domain.ToastHidden}}
}

func (t *ToastController) set(state domain.ToastState) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.state = state
	t.mu.Unlock()
	t.events.ToastStateChanged(state)
}

func (t *ToastController) SetRecording(confirmed, partial string) {
	t.set(domain.ToastState{Kind: domain.ToastRecording, Confirmed: confirmed, Partial: partial})
}

// UpdateLive updates the live (confirmed, partial) pair without otherwise
// disturbing the toast; a no-op if the toast isn't currently Recording.
func (t *ToastController) UpdateLive(confirmed, partial string) {
	t.mu.Lock()
	if t.state.Kind != domain.ToastRecording {
		t.mu.Unlock()
		return
	}
	t.state.Confirmed = confirmed
	t.state.Partial = partial
	state := t.state
	t.mu.Unlock()
	t.events.ToastStateChanged(state)
}

func (t *ToastController) SetProcessing(message string) {
	t.set(domain.ToastState{Kind: domain.ToastProcessing, Message: message})
}

// SetDone shows a completion toast that hides itself after
// doneAutoHideDelay, per spec's auto-dismiss contract.
func (t *ToastController) SetDone(message string) {
	t.set(domain.ToastState{Kind: domain.ToastDone, Message: message})
	t.scheduleAutoHide(doneAutoHideDelay)
}

// SetError shows an error toast that hides itself after
// errorAutoHideDelay. A 15s safety timeout is armed separately by the
// caller via ArmSafetyTimeout for toasts that might otherwise never
// resolve (e.g. a stuck Processing state).
func (t *ToastController) SetError(message string) {
	t.set(domain.ToastState{Kind: domain.ToastError, Message: message})
	t.scheduleAutoHide(errorAutoHideDelay)
}

func (t *ToastController) Hide() {
	t.set(domain.ToastState{Kind: domain.ToastHidden})
}

func (t *ToastController) scheduleAutoHide(delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, t.Hide)
}

// ArmSafetyTimeout forces the toast to Hidden after d if its Kind still
// equals kind at that moment, guarding against a stuck Processing toast
// outliving its session.
func (t *ToastController) ArmSafetyTimeout(d time.Duration, kind domain.ToastKind) {
	time.AfterFunc(d, func() {
		t.mu.Lock()
		stillShowing := t.state.Kind == kind
		t.mu.Unlock()
		if stillShowing {
			t.Hide()
		}
	})
}
