package hotkey

import "testing"

func TestParseBindingRequiresModifier(t *testing.T) {
	t.Parallel()

	if _, err := ParseBinding("Space"); err == nil {
		t.Fatalf("expected error for binding with no modifiers")
	}
}

func TestParseBindingRequiresTwoModifiersWithoutKey(t *testing.T) {
	t.Parallel()

	if _, err := ParseBinding("Ctrl"); err == nil {
		t.Fatalf("expected error for single modifier with no key")
	}
	if _, err := ParseBinding("Ctrl+Shift"); err != nil {
		t.Fatalf("expected two modifiers without a key to be valid: %v", err)
	}
}

func TestParseBindingRejectsTwoNonModifierKeys(t *testing.T) {
	t.Parallel()

	if _, err := ParseBinding("Ctrl+A+B"); err == nil {
		t.Fatalf("expected error for two non-modifier keys")
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{"Ctrl+Shift+Space", "Alt+Space", "CommandOrControl+Shift+S"}
	for _, s := range cases {
		b, err := ParseBinding(s)
		if err != nil {
			t.Fatalf("parse(%q) failed: %v", s, err)
		}
		formatted := FormatBinding(b)
		b2, err := ParseBinding(formatted)
		if err != nil {
			t.Fatalf("parse(format(%q)) failed: %v", s, err)
		}
		if FormatBinding(b2) != formatted {
			t.Fatalf("round trip unstable for %q: %q vs %q", s, formatted, FormatBinding(b2))
		}
	}
}

func TestParseBindingCaseInsensitive(t *testing.T) {
	t.Parallel()

	b, err := ParseBinding("ctrl+shift+space")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if b.Key != "SPACE" {
		t.Fatalf("expected uppercase key, got %q", b.Key)
	}
}
