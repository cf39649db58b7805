package ports

import (
	"context"
	"io"

	"coldmic/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session, backed by a subprocess pipe.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions and can probe the
// default input device ahead of time.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
	EnumerateDefaultInput(ctx context.Context) (string, error)
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate int
	Channels   int
	Context    domain.CapturedContext
}

// StreamingSession is an active ASR websocket session for one recording.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	SendStop() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// TranscriptionProvider starts streaming transcription sessions against the
// configured ASR service.
type TranscriptionProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}

// TokenSource fetches and caches auth tokens for the streaming endpoint.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Clipboard reads and writes the system clipboard. Reads never mutate it.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
	GetText(ctx context.Context) (string, error)
}

// TextInjector delivers a finalized transcript to the foreground
// application as a single logical input event.
type TextInjector interface {
	Inject(ctx context.Context, text string) domain.InjectOutcome
}

// ForegroundReader inspects the currently-focused application.
type ForegroundReader interface {
	ForegroundWindow(ctx context.Context) (processName string, windowTitle string, err error)
}

// KeyboardHook is a global, low-level keyboard listener that fires before
// focused-window processing.
type KeyboardHook interface {
	Install(onDown func(key string), onUp func(key string)) error
	Snapshot() domain.PressedKeySnapshot
	Close() error
}

// ContextClassifier derives an app-context tag and tone from a foreground
// window snapshot.
type ContextClassifier interface {
	Classify(processName, windowTitle string) (domain.AppContextTag, domain.SuggestedTone)
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	ToastStateChanged(toast domain.ToastState)
	SessionError(code domain.ErrorCode, detail string)
}
