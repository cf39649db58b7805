package main

import (
	"errors"
	"testing"

	"coldmic/internal/domain"
)

func TestErrorMessageKnownCodes(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:            "Startup failed",
		domain.ErrorCodeNoDevice:           "No microphone",
		domain.ErrorCodeCaptureStartFailed: "Couldn't start microphone",
		domain.ErrorCodeCaptureDied:        "Microphone disconnected",
		domain.ErrorCodeTransportConnect:   "Connection failed",
		domain.ErrorCodeTransportClosed:    "Connection lost",
		domain.ErrorCodeFinalTimeout:       "Processing timed out",
		domain.ErrorCodeInjection:          "Couldn't insert text",
		domain.ErrorCodeHookInstallFailed:  "Global hotkey unavailable",
	}
	for code, want := range cases {
		code, want := code, want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code); got != want {
				t.Fatalf("errorMessage(%q) = %q, want %q", code, got, want)
			}
		})
	}

	if got := errorMessage("unknown"); got != "Unknown error" {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestRequireReadyReportsBootErrorBeforeNilController(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected an error for an uninitialized app")
	}

	bootErr := errors.New("boot exploded")
	app = &App{bootErr: bootErr}
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected requireReady to surface the boot error, got %v", err)
	}
}

func TestGetStatusReflectsBootFailure(t *testing.T) {
	t.Parallel()

	app := &App{bootErr: errors.New("no audio backend")}
	status := app.GetStatus()
	if status.State != domain.SessionStateError || status.Message == "" {
		t.Fatalf("unexpected status for a failed boot: %+v", status)
	}
}

func TestGetStatusIdleBeforeStartup(t *testing.T) {
	t.Parallel()

	app := &App{}
	status := app.GetStatus()
	if status.State != domain.SessionStateIdle || status.Active {
		t.Fatalf("expected idle/inactive status before startup, got %+v", status)
	}
}

func TestEmitsAreNoOpsBeforeStartup(t *testing.T) {
	t.Parallel()

	app := &App{}
	// None of these should panic even though app.ctx is nil: every Wails
	// event emitter guards on a nil context before calling runtime.EventsEmit.
	app.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	app.ToastStateChanged(domain.ToastState{Kind: domain.ToastRecording})
	app.SessionError(domain.ErrorCodeNoDevice, "no input devices")
}
