//go:build linux

package hotkey

import (
	"fmt"
	"path/filepath"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"

	"coldmic/internal/domain"
)

// evKeyType is the evdev event type value for keyboard events (EV_KEY).
const evKeyType = 1

// EvdevHook is a global low-level keyboard hook backed by Linux evdev
// device nodes. It fires before focused-window processing and tracks a
// Pressed-Key Snapshot of every physically-held key across all enumerated
// keyboard devices.
type EvdevHook struct {
	mu       sync.Mutex
	devices  []*evdev.InputDevice
	stop     chan struct{}
	onDown   func(key string)
	onUp     func(key string)

	snapMu   sync.Mutex
	snapshot domain.PressedKeySnapshot
}

// NewEvdevHook constructs an uninstalled hook.
func NewEvdevHook() *EvdevHook {
	return &EvdevHook{
		snapshot: domain.PressedKeySnapshot{
			Modifiers: map[domain.Modifier]bool{},
			Keys:      map[string]bool{},
		},
	}
}

// Install enumerates keyboard-capable input devices and starts one reader
// goroutine per device. Returns domain.ErrorCodeHookInstallFailed wrapped
// in an error if no devices could be opened.
func (h *EvdevHook) Install(onDown func(key string), onUp func(key string)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	devices, err := findKeyboardDevices()
	if err != nil {
		return fmt.Errorf("%s: %w", domain.ErrorCodeHookInstallFailed, err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("%s: no keyboard devices found", domain.ErrorCodeHookInstallFailed)
	}

	h.devices = devices
	h.onDown = onDown
	h.onUp = onUp
	h.stop = make(chan struct{})

	for _, dev := range devices {
		go h.readLoop(dev)
	}
	return nil
}

// Snapshot returns the currently-held keys.
func (h *EvdevHook) Snapshot() domain.PressedKeySnapshot {
	h.snapMu.Lock()
	defer h.snapMu.Unlock()

	out := domain.PressedKeySnapshot{
		Modifiers: make(map[domain.Modifier]bool, len(h.snapshot.Modifiers)),
		Keys:      make(map[string]bool, len(h.snapshot.Keys)),
	}
	for k, v := range h.snapshot.Modifiers {
		out.Modifiers[k] = v
	}
	for k, v := range h.snapshot.Keys {
		out.Keys[k] = v
	}
	return out
}

// Close stops all reader goroutines and releases the device handles.
func (h *EvdevHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stop == nil {
		return nil
	}
	close(h.stop)
	for _, dev := range h.devices {
		_ = dev.File.Close()
	}
	h.devices = nil
	h.stop = nil
	return nil
}

func (h *EvdevHook) readLoop(dev *evdev.InputDevice) {
	for {
		select {
		case <-h.stop:
			return
		default:
		}

		events, err := dev.Read()
		if err != nil {
			continue
		}
		for _, event := range events {
			if event.Type != evKeyType {
				continue
			}
			h.handle(event)
		}
	}
}

func (h *EvdevHook) handle(event evdev.InputEvent) {
	name, ok := keyNames[int(event.Code)]
	if !ok {
		return
	}
	down := event.Value == 1
	if event.Value == 2 { // autorepeat: treat as still-down, no edge
		return
	}

	h.snapMu.Lock()
	if mod, isMod := modifierKeyNames[name]; isMod {
		h.snapshot.Modifiers[mod] = down
	} else {
		h.snapshot.Keys[name] = down
	}
	h.snapMu.Unlock()

	if down && h.onDown != nil {
		h.onDown(name)
	}
	if !down && h.onUp != nil {
		h.onUp(name)
	}
}

func findKeyboardDevices() ([]*evdev.InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}

	var devices []*evdev.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if hasKeyEvents(dev) {
			devices = append(devices, dev)
		} else {
			_ = dev.File.Close()
		}
	}
	return devices, nil
}

func hasKeyEvents(dev *evdev.InputDevice) bool {
	for evType := range dev.Capabilities {
		if evType.Type == evKeyType {
			return len(dev.Capabilities[evType]) > 0
		}
	}
	return false
}

// modifierKeyNames maps the canonical key names this hook emits to their
// domain.Modifier, for the subset that are modifiers.
var modifierKeyNames = map[string]domain.Modifier{
	"LEFTCTRL":   domain.ModifierCtrl,
	"RIGHTCTRL":  domain.ModifierCtrl,
	"LEFTALT":    domain.ModifierAlt,
	"RIGHTALT":   domain.ModifierAlt,
	"LEFTSHIFT":  domain.ModifierShift,
	"RIGHTSHIFT": domain.ModifierShift,
	"LEFTMETA":   domain.ModifierMeta,
	"RIGHTMETA":  domain.ModifierMeta,
}

// keyNames maps Linux evdev keycodes to canonical key names. Modifier keys
// use their evdev-specific LEFT/RIGHT names so modifierKeyNames can collapse
// them; everything else uses the uppercase token spec's hotkey binding
// strings expect.
var keyNames = map[int]string{
	1:  "ESC",
	14: "BACKSPACE",
	15: "TAB",
	28: "ENTER",
	57: "SPACE",
	111: "DELETE",
	103: "UP",
	108: "DOWN",
	105: "LEFT",
	106: "RIGHT",
	29:  "LEFTCTRL",
	97:  "RIGHTCTRL",
	56:  "LEFTALT",
	100: "RIGHTALT",
	42:  "LEFTSHIFT",
	54:  "RIGHTSHIFT",
	125: "LEFTMETA",
	126: "RIGHTMETA",
	59:  "F1", 60: "F2", 61: "F3", 62: "F4", 63: "F5", 64: "F6",
	65: "F7", 66: "F8", 67: "F9", 68: "F10", 87: "F11", 88: "F12",
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	16: "Q", 17: "W", 18: "E", 19: "R", 20: "T", 21: "Y", 22: "U", 23: "I", 24: "O", 25: "P",
	30: "A", 31: "S", 32: "D", 33: "F", 34: "G", 35: "H", 36: "J", 37: "K", 38: "L",
	44: "Z", 45: "X", 46: "C", 47: "V", 48: "B", 49: "N", 50: "M",
}
