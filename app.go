package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"coldmic/internal/bootstrap"
	"coldmic/internal/config"
	"coldmic/internal/domain"
	"coldmic/internal/hotkey"
	"coldmic/internal/usecase"
)

const (
	eventSession = "coldmic:session"
	eventToast   = "coldmic:toast"
	eventError   = "coldmic:error"
)

// App is the Wails application root. Recording itself is driven by the
// global hotkey watcher wired in bootstrap.Build, not by these methods;
// they exist as a manual-trigger affordance for the frontend (e.g. a
// settings-panel "test it" button) and for GetStatus/GetRuntimeInfo
// polling.
type App struct {
	ctx context.Context

	controller *usecase.SessionController
	watcher    *hotkey.Watcher
	cfg        config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.watcher = services.Watcher
}

func (a *App) shutdown(_ context.Context) {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
}

// StartPTT starts push-to-talk recording.
func (a *App) StartPTT() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.Start(a.ctx); err != nil {
		return domain.Status{}, err
	}
	return a.controller.Status(), nil
}

// StopPTT stops recording and returns the result of any injection attempt.
func (a *App) StopPTT() (domain.StopResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.StopResult{}, err
	}
	return a.controller.Stop(a.ctx)
}

// AbortPTT discards an in-progress recording without injecting anything.
func (a *App) AbortPTT() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.Abort()
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.SessionStateError, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.SessionStateIdle}
	}
	return a.controller.Status()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"apiBaseURL":    a.cfg.Transport.APIBaseURL,
		"hotkey":        a.cfg.Hotkey.Binding,
		"typeTool":      a.cfg.Injection.TypeTool,
		"clipboardTool": a.cfg.Injection.ClipboardTool,
		"audioInput":    a.cfg.Audio.InputDevice,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":  string(state),
		"reason": string(reason),
	})
}

// ToastStateChanged mirrors the overlay's Toast State to the frontend.
func (a *App) ToastStateChanged(toast domain.ToastState) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventToast, map[string]string{
		"kind":      string(toast.Kind),
		"message":   toast.Message,
		"confirmed": toast.Confirmed,
		"partial":   toast.Partial,
	})
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code),
		"detail":  detail,
	})
}

func errorMessage(code domain.ErrorCode) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeNoDevice:
		return "No microphone"
	case domain.ErrorCodeCaptureStartFailed:
		return "Couldn't start microphone"
	case domain.ErrorCodeCaptureDied:
		return "Microphone disconnected"
	case domain.ErrorCodeTokenFetchFailed:
		return "Couldn't authenticate with the transcription service"
	case domain.ErrorCodeTransportConnect:
		return "Connection failed"
	case domain.ErrorCodeTransportClosed:
		return "Connection lost"
	case domain.ErrorCodeASRProtocol:
		return "Transcription service error"
	case domain.ErrorCodeFinalTimeout:
		return "Processing timed out"
	case domain.ErrorCodeInjection:
		return "Couldn't insert text"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	case domain.ErrorCodeHookInstallFailed:
		return "Global hotkey unavailable"
	default:
		return "Unknown error"
	}
}
