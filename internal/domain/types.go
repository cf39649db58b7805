package domain

import "time"

// SessionState models the push-to-talk lifecycle.
type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateRecording  SessionState = "recording"
	SessionStateProcessing SessionState = "processing"
	SessionStateError      SessionState = "error"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonMicCold                        SessionStateReason = "mic_cold"
	SessionReasonRecordingStarted                SessionStateReason = "recording_started"
	SessionReasonRecordingRestarted              SessionStateReason = "recording_restarted"
	SessionReasonTranscribing                    SessionStateReason = "transcribing"
	SessionReasonInjecting                       SessionStateReason = "injecting"
	SessionReasonTranscriptInjected              SessionStateReason = "transcript_injected"
	SessionReasonTranscriptReadyClipboardFailed  SessionStateReason = "transcript_clipboard_failed"
	SessionReasonRecordingDiscarded              SessionStateReason = "recording_discarded"
	SessionReasonNoSpeechDetected                SessionStateReason = "no_speech_detected"
	SessionReasonTranscriptionFailed             SessionStateReason = "transcription_failed"
	SessionReasonInjectionFailed                 SessionStateReason = "injection_failed"
	SessionReasonFinalTimeout                    SessionStateReason = "final_timeout"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup            ErrorCode = "startup"
	ErrorCodeNoDevice           ErrorCode = "no_device"
	ErrorCodeCaptureStartFailed ErrorCode = "capture_start_failed"
	ErrorCodeCaptureDied        ErrorCode = "capture_died"
	ErrorCodeTokenFetchFailed   ErrorCode = "token_fetch_failed"
	ErrorCodeTransportConnect   ErrorCode = "transport_connect_timeout"
	ErrorCodeTransportClosed    ErrorCode = "transport_closed_early"
	ErrorCodeASRProtocol        ErrorCode = "asr_protocol_error"
	ErrorCodeFinalTimeout       ErrorCode = "final_timeout"
	ErrorCodeInjection          ErrorCode = "injection_failed"
	ErrorCodeClipboard          ErrorCode = "clipboard"
	ErrorCodeHookInstallFailed  ErrorCode = "hook_install_failed"
)

// TranscriptKind identifies the variant of a TranscriptEvent.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
	TranscriptKindError   TranscriptKind = "error"
)

// TranscriptEvent is a message from the ASR service for one session.
//
// Partial carries a stable Confirmed prefix and an unstable Partial tail.
// Final carries the canonical terminal text and ends the session's event
// stream. Error carries a human-readable failure message.
type TranscriptEvent struct {
	Kind      TranscriptKind
	Partial   string
	Confirmed string
	Text      string
	Message   string
}

// AppContextTag is a coarse classification of the foreground application.
type AppContextTag string

const (
	AppContextEmail   AppContextTag = "email"
	AppContextChat    AppContextTag = "chat"
	AppContextCode    AppContextTag = "code"
	AppContextDocument AppContextTag = "document"
	AppContextBrowser AppContextTag = "browser"
	AppContextGeneral AppContextTag = "general"
)

// SuggestedTone accompanies an AppContextTag to condition server-side text
// polishing.
type SuggestedTone string

const (
	ToneFormal   SuggestedTone = "formal"
	ToneCasual   SuggestedTone = "casual"
	ToneTechnical SuggestedTone = "technical"
)

// CapturedContext is the immutable snapshot taken once per session.
type CapturedContext struct {
	AppName        string
	WindowTitle    string
	AppContextTag  AppContextTag
	SuggestedTone  SuggestedTone
	SelectedText   *string
	ClipboardText  *string
	ModeID         string
}

// DefaultContext is used when context capture has not finished by the time
// the auth message must be sent; capture is informational only.
func DefaultContext() CapturedContext {
	return CapturedContext{AppContextTag: AppContextGeneral, SuggestedTone: ToneFormal}
}

// Modifier is one of the recognized hotkey modifier tokens, normalized to
// its canonical form.
type Modifier string

const (
	ModifierCtrl  Modifier = "Ctrl"
	ModifierAlt   Modifier = "Alt"
	ModifierShift Modifier = "Shift"
	ModifierMeta  Modifier = "Meta"
)

// HotkeyBinding is the parsed form of a user-supplied chord string.
type HotkeyBinding struct {
	Modifiers map[Modifier]bool
	Key       string // canonical uppercase non-modifier token, "" if none
}

// PressedKeySnapshot is the current set of physically-held keys tracked by
// the low-level keyboard hook.
type PressedKeySnapshot struct {
	Modifiers map[Modifier]bool
	Keys      map[string]bool
}

// Engaged reports whether binding b is satisfied by the snapshot.
func (s PressedKeySnapshot) Engaged(b HotkeyBinding) bool {
	for mod, required := range b.Modifiers {
		if required && !s.Modifiers[mod] {
			return false
		}
	}
	if b.Key != "" && !s.Keys[b.Key] {
		return false
	}
	return true
}

// ToastKind is one of the five overlay display states.
type ToastKind string

const (
	ToastHidden     ToastKind = "hidden"
	ToastRecording  ToastKind = "recording"
	ToastProcessing ToastKind = "processing"
	ToastDone       ToastKind = "done"
	ToastError      ToastKind = "error"
)

// ToastState is the overlay's entire render input; the overlay is a pure
// function of this value.
type ToastState struct {
	Kind      ToastKind
	Message   string
	Confirmed string
	Partial   string
}

// InjectMethod identifies how a Final transcript reached the foreground app.
type InjectMethod string

const (
	InjectMethodDirect            InjectMethod = "direct"
	InjectMethodClipboardFallback InjectMethod = "clipboard_fallback"
)

// InjectOutcome is the result of one injection attempt.
type InjectOutcome struct {
	OK     bool
	Method InjectMethod
	Reason string
}

// StopResult is returned once recording has stopped and injection, if any,
// has been attempted.
type StopResult struct {
	FinalText string
	Injected  bool
	Method    InjectMethod
}

// Status summarizes the current runtime status.
type Status struct {
	State   SessionState
	Active  bool
	Message string
}

// Size constants from the audio pipeline contract.
const (
	TargetChunkBytes   = 16000
	PreWarmBufferMS    = 1500
	PreWarmBufferBytes = TargetChunkBytes * 3 // ~1.5s at 500ms/chunk

	FinalTimeout          = 30 * time.Second
	ToastSafetyTimeout    = 15 * time.Second
	TransportConnectTimeout = 5 * time.Second
	StopGraceInterval     = 300 * time.Millisecond
	FocusYieldInterval    = 100 * time.Millisecond

	// ModifierReleaseWait gives the user's hotkey chord one human
	// key-release cycle to clear before a direct keystroke injection
	// fires, so the injected input doesn't land while the binding's own
	// modifiers are still physically held.
	ModifierReleaseWait = 600 * time.Millisecond
)
