package hotkey

import (
	"errors"
	"strings"

	"coldmic/internal/domain"
)

var modifierTokens = map[string]domain.Modifier{
	"ctrl":            domain.ModifierCtrl,
	"control":         domain.ModifierCtrl,
	"commandorcontrol": domain.ModifierCtrl,
	"command":         domain.ModifierMeta,
	"cmd":             domain.ModifierMeta,
	"meta":            domain.ModifierMeta,
	"alt":             domain.ModifierAlt,
	"option":          domain.ModifierAlt,
	"shift":           domain.ModifierShift,
}

// ParseBinding parses a plus-separated, case-insensitive hotkey chord
// string into a HotkeyBinding. It requires at least one modifier, and at
// least two when no non-modifier key is present.
func ParseBinding(s string) (domain.HotkeyBinding, error) {
	tokens := strings.Split(s, "+")
	binding := domain.HotkeyBinding{Modifiers: map[domain.Modifier]bool{}}

	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		lower := strings.ToLower(token)
		if mod, ok := modifierTokens[lower]; ok {
			binding.Modifiers[mod] = true
			continue
		}
		if binding.Key != "" {
			return domain.HotkeyBinding{}, errors.New("hotkey binding may contain at most one non-modifier key")
		}
		binding.Key = strings.ToUpper(token)
	}

	modifierCount := len(binding.Modifiers)
	if binding.Key == "" && modifierCount < 2 {
		return domain.HotkeyBinding{}, errors.New("hotkey binding without a non-modifier key needs at least two modifiers")
	}
	if modifierCount < 1 {
		return domain.HotkeyBinding{}, errors.New("hotkey binding needs at least one modifier")
	}

	return binding, nil
}

// FormatBinding renders a HotkeyBinding back into its canonical string
// form: Ctrl, Alt, Shift, Meta (in that order) followed by the
// non-modifier key.
func FormatBinding(b domain.HotkeyBinding) string {
	order := []domain.Modifier{domain.ModifierCtrl, domain.ModifierAlt, domain.ModifierShift, domain.ModifierMeta}
	var parts []string
	for _, mod := range order {
		if b.Modifiers[mod] {
			parts = append(parts, string(mod))
		}
	}
	if b.Key != "" {
		parts = append(parts, b.Key)
	}
	return strings.Join(parts, "+")
}
