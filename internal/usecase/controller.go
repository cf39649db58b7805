package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"coldmic/internal/audio"
	"coldmic/internal/domain"
	"coldmic/internal/ports"
)

// Config carries the timing knobs the controller needs that aren't owned
// by any single collaborator.
type Config struct {
	SampleRate         int
	Channels           int
	ConnectTimeout     time.Duration
	FinalTimeout       time.Duration
	ToastSafetyTimeout time.Duration
}

// SessionController is the sole owner of the Recording Session, the Toast
// State, and the transitions between them. Every external callback - hook
// edges, transport events, pipeline death, timers - funnels through its
// methods. SessionController.mu guards only the current-session pointer;
// per-session state is guarded by activeSession's own locks.
type SessionController struct {
	pipeline   *audio.Pipeline
	capture    ports.AudioCapture
	provider   ports.TranscriptionProvider
	classifier ports.ContextClassifier
	foreground ports.ForegroundReader
	injector   *Injector
	toast      *ToastController
	events     ports.EventSink
	cfg        Config

	mu      sync.Mutex
	current *activeSession
}

func NewSessionController(
	pipeline *audio.Pipeline,
	capture ports.AudioCapture,
	provider ports.TranscriptionProvider,
	classifier ports.ContextClassifier,
	foreground ports.ForegroundReader,
	injector *Injector,
	toast *ToastController,
	events ports.EventSink,
	cfg Config,
) *SessionController {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = domain.TransportConnectTimeout
	}
	if cfg.FinalTimeout <= 0 {
		cfg.FinalTimeout = domain.FinalTimeout
	}
	if cfg.ToastSafetyTimeout <= 0 {
		cfg.ToastSafetyTimeout = domain.ToastSafetyTimeout
	}
	return &SessionController{
		pipeline:   pipeline,
		capture:    capture,
		provider:   provider,
		classifier: classifier,
		foreground: foreground,
		injector:   injector,
		toast:      toast,
		events:     events,
		cfg:        cfg,
	}
}

// Start handles a hotkey-engaged edge. A Start while already Recording (or
// Processing) is ignored: key-down events outside Idle do nothing.
func (c *SessionController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if _, err := c.capture.EnumerateDefaultInput(ctx); err != nil {
		c.events.SessionError(domain.ErrorCodeNoDevice, err.Error())
		c.toast.SetError("No microphone")
		return err
	}

	consumer := make(chan []byte, 8)
	sess := newActiveSession(nil, consumer)

	if err := c.pipeline.StartSession(ctx, consumer, func() { c.handleCaptureDied(sess) }); err != nil {
		c.events.SessionError(domain.ErrorCodeCaptureStartFailed, err.Error())
		c.toast.SetError("Couldn't start microphone")
		return err
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	contextCh := make(chan domain.CapturedContext, 1)
	go c.captureContext(contextCh)

	connectCtx, connectCancel := context.WithTimeout(sessionCtx, c.cfg.ConnectTimeout)
	stream, err := c.provider.StartStreaming(connectCtx, ports.StreamingConfig{
		SampleRate: c.cfg.SampleRate,
		Channels:   c.cfg.Channels,
		Context:    firstReady(contextCh),
	})
	connectCancel()
	if err != nil {
		c.pipeline.StopSession()
		cancel()
		code := domain.ErrorCodeTransportConnect
		message := "Connection failed"
		if !errors.Is(connectCtx.Err(), context.DeadlineExceeded) {
			code = domain.ErrorCodeTokenFetchFailed
		}
		c.events.SessionError(code, err.Error())
		c.toast.SetError(message)
		return err
	}
	sess.stream = stream

	go c.pumpAudio(sess)
	go c.consumeEvents(sess)

	c.mu.Lock()
	c.current = sess
	c.mu.Unlock()

	c.toast.SetRecording("", "")
	c.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	return nil
}

// captureContext runs C4 in the background. Start checks for its result
// once, without waiting, just before calling StartStreaming (before the
// token fetch and dial); a result that lands after that check is
// discarded and the auth message carries domain.DefaultContext().
func (c *SessionController) captureContext(out chan<- domain.CapturedContext) {
	processName, windowTitle, err := c.foreground.ForegroundWindow(context.Background())
	if err != nil {
		return
	}
	tag, tone := c.classifier.Classify(processName, windowTitle)
	out <- domain.CapturedContext{
		AppName:       processName,
		WindowTitle:   windowTitle,
		AppContextTag: tag,
		SuggestedTone: tone,
	}
}

func firstReady(ch <-chan domain.CapturedContext) domain.CapturedContext {
	select {
	case captured := <-ch:
		return captured
	default:
		return domain.DefaultContext()
	}
}

// Stop handles a hotkey-disengaged edge. A Stop while not Recording is
// ignored.
func (c *SessionController) Stop(ctx context.Context) (domain.StopResult, error) {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()
	if sess == nil || sess.getState() != domain.SessionStateRecording {
		return domain.StopResult{}, nil
	}

	sess.setState(domain.SessionStateProcessing)
	c.pipeline.StopSession()
	sess.stopPump()

	select {
	case <-time.After(domain.StopGraceInterval):
	case <-ctx.Done():
	}
	_ = sess.stream.SendStop()

	c.toast.SetProcessing("Transcribing…")
	c.events.SessionStateChanged(domain.SessionStateProcessing, domain.SessionReasonTranscribing)
	c.toast.ArmSafetyTimeout(c.cfg.ToastSafetyTimeout, domain.ToastProcessing)

	timer := time.NewTimer(c.cfg.FinalTimeout)
	defer timer.Stop()

	select {
	case event := <-sess.resultCh:
		if event.Kind == domain.TranscriptKindError {
			return c.finishWithError(sess, event.Message), nil
		}
		return c.finishWithFinal(ctx, sess, event), nil
	case <-timer.C:
		return c.finishWithTimeout(sess), nil
	}
}

// Abort handles the Esc key: the session is dropped with no injection
// attempt and the overlay is hidden rather than shown an error.
func (c *SessionController) Abort() error {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()
	if sess == nil || sess.getState() != domain.SessionStateRecording {
		return nil
	}
	c.teardown(sess)
	c.toast.Hide()
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonRecordingDiscarded)
	return nil
}

func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()
	if sess == nil {
		return domain.Status{State: domain.SessionStateIdle}
	}
	return domain.Status{State: sess.getState(), Active: true}
}

// pumpAudio relays chunks from the pipeline's consumer channel to the
// transport until stopPump fires. It never closes consumer: the pipeline
// may still hold the same reference and a send on a closed channel would
// panic.
func (c *SessionController) pumpAudio(sess *activeSession) {
	defer close(sess.audioDone)
	for {
		select {
		case chunk, ok := <-sess.consumer:
			if !ok {
				return
			}
			if err := sess.stream.SendAudio(chunk); err != nil {
				return
			}
		case <-sess.pumpStop:
			return
		}
	}
}

// consumeEvents relays ASR events to the toast while Recording and
// resolves the session's terminal outcome exactly once, whether that's a
// Final, a service Error, or the stream closing without either.
func (c *SessionController) consumeEvents(sess *activeSession) {
	defer close(sess.eventsDone)
	for event := range sess.stream.Events() {
		switch event.Kind {
		case domain.TranscriptKindPartial:
			confirmed, partial := sess.tracker.Add(event)
			if sess.getState() == domain.SessionStateRecording {
				c.toast.UpdateLive(confirmed, partial)
			}
		case domain.TranscriptKindFinal:
			sess.trySendResult(event)
			return
		case domain.TranscriptKindError:
			c.handleTerminalEvent(sess, event)
			return
		}
	}
	c.handleStreamClosed(sess)
}

func (c *SessionController) handleTerminalEvent(sess *activeSession, event domain.TranscriptEvent) {
	switch sess.getState() {
	case domain.SessionStateRecording:
		c.abortSession(sess, domain.ErrorCodeTransportClosed, event.Message, "Connection lost")
	case domain.SessionStateProcessing:
		sess.trySendResult(event)
	}
}

func (c *SessionController) handleStreamClosed(sess *activeSession) {
	const detail = "stream closed before a final transcript arrived"
	switch sess.getState() {
	case domain.SessionStateRecording:
		c.abortSession(sess, domain.ErrorCodeTransportClosed, detail, "Connection lost")
	case domain.SessionStateProcessing:
		sess.trySendResult(domain.TranscriptEvent{Kind: domain.TranscriptKindError, Message: detail})
	}
}

func (c *SessionController) handleCaptureDied(sess *activeSession) {
	if sess.getState() != domain.SessionStateRecording {
		return
	}
	c.abortSession(sess, domain.ErrorCodeCaptureDied, "capture subprocess died", "Microphone disconnected")
}

// abortSession tears down a Recording session with no injection attempt,
// used by the CaptureDied and TransportClosedEarly transitions.
func (c *SessionController) abortSession(sess *activeSession, code domain.ErrorCode, detail, toastMessage string) {
	if !c.teardown(sess) {
		return
	}
	c.events.SessionError(code, detail)
	c.toast.SetError(toastMessage)
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonRecordingDiscarded)
}

// teardown detaches sess as the current session and releases its
// resources. Returns false if sess had already been replaced or cleared,
// so callers racing against Stop/Abort don't double-report completion.
func (c *SessionController) teardown(sess *activeSession) bool {
	c.mu.Lock()
	if c.current != sess {
		c.mu.Unlock()
		return false
	}
	c.current = nil
	c.mu.Unlock()

	sess.stopPump()
	c.pipeline.StopSession()
	if sess.cancel != nil {
		sess.cancel()
	}
	if sess.stream != nil {
		_ = sess.stream.Close()
	}
	return true
}

func (c *SessionController) finishWithFinal(ctx context.Context, sess *activeSession, event domain.TranscriptEvent) domain.StopResult {
	c.teardown(sess)

	text := strings.TrimSpace(event.Text)
	if text == "" {
		c.toast.SetDone("No speech detected")
		c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonNoSpeechDetected)
		return domain.StopResult{}
	}

	c.toast.SetProcessing("Injecting…")
	outcome := c.injector.Deliver(ctx, text)
	result := domain.StopResult{FinalText: text, Injected: outcome.OK, Method: outcome.Method}

	if !outcome.OK {
		c.events.SessionError(domain.ErrorCodeInjection, outcome.Reason)
		c.toast.SetError("Couldn't insert text")
		c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonInjectionFailed)
		return result
	}

	message := "Injected"
	if outcome.Method == domain.InjectMethodClipboardFallback {
		message = "Copied to clipboard"
	}
	c.toast.SetDone(message)
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonTranscriptInjected)
	return result
}

func (c *SessionController) finishWithError(sess *activeSession, detail string) domain.StopResult {
	c.teardown(sess)
	c.events.SessionError(domain.ErrorCodeTransportClosed, detail)
	c.toast.SetError("Connection lost")
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonTranscriptionFailed)
	return domain.StopResult{}
}

func (c *SessionController) finishWithTimeout(sess *activeSession) domain.StopResult {
	c.teardown(sess)
	c.events.SessionError(domain.ErrorCodeFinalTimeout, "final transcript did not arrive in time")
	c.toast.SetError("Processing timed out")
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonFinalTimeout)
	return domain.StopResult{}
}
