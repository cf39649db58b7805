//go:build !linux

package hotkey

import (
	"fmt"

	"coldmic/internal/domain"
)

// EvdevHook is unavailable outside Linux; Install always fails so the
// caller can fall back to whatever platform-specific hook it wires in
// its place.
type EvdevHook struct{}

// NewEvdevHook constructs a stub hook for non-Linux builds.
func NewEvdevHook() *EvdevHook {
	return &EvdevHook{}
}

func (h *EvdevHook) Install(_ func(key string), _ func(key string)) error {
	return fmt.Errorf("%s: evdev hook is linux-only", domain.ErrorCodeHookInstallFailed)
}

func (h *EvdevHook) Snapshot() domain.PressedKeySnapshot {
	return domain.PressedKeySnapshot{
		Modifiers: map[domain.Modifier]bool{},
		Keys:      map[string]bool{},
	}
}

func (h *EvdevHook) Close() error {
	return nil
}
