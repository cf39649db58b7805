package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesContextRulesFallback(t *testing.T) {
	home := t.TempDir()
	rulesPath := filepath.Join(home, ".config", "coldmic", "context.rules")

	if err := os.MkdirAll(filepath.Dir(rulesPath), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(rulesPath, []byte("slack.com => chat,casual\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("COLDMIC_CONTEXT_RULES_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Context.RulesFile != rulesPath {
		t.Fatalf("expected discovered rules path, got %q", cfg.Context.RulesFile)
	}
}

func TestLoadRespectsOverridesAndFallbacks(t *testing.T) {
	home := t.TempDir()
	rules := filepath.Join(home, "my.rules")
	if err := os.WriteFile(rules, []byte("code.com => code,technical\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("API_BASE_URL", "https://example.com")
	t.Setenv("COLDMIC_FFMPEG_COMMAND", "my-ffmpeg")
	t.Setenv("COLDMIC_AUDIO_INPUT_FORMAT", "alsa")
	t.Setenv("COLDMIC_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("COLDMIC_SAMPLE_RATE", "22050")
	t.Setenv("COLDMIC_CHANNELS", "2")
	t.Setenv("COLDMIC_HOTKEY", "Alt+Space")
	t.Setenv("COLDMIC_TYPE_TOOL", "xdotool")
	t.Setenv("COLDMIC_CLIPBOARD_TOOL", "xclip")
	t.Setenv("COLDMIC_CONTEXT_RULES_FILE", rules)
	t.Setenv("COLDMIC_AUDIO_CHUNK_SIZE", "512")
	t.Setenv("COLDMIC_STOP_GRACE_MS", "25")
	t.Setenv("COLDMIC_FINAL_TIMEOUT_MS", "1000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Transport.APIBaseURL != "https://example.com" {
		t.Fatalf("unexpected transport config: %+v", cfg.Transport)
	}
	if cfg.Audio.RecorderCommand != "my-ffmpeg" || cfg.Audio.InputFormat != "alsa" || cfg.Audio.InputDevice != "mic0" {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Audio.SampleRate != 22050 || cfg.Audio.Channels != 2 {
		t.Fatalf("unexpected sample/channels: %+v", cfg.Audio)
	}
	if cfg.Hotkey.Binding != "Alt+Space" {
		t.Fatalf("unexpected hotkey binding: %q", cfg.Hotkey.Binding)
	}
	if cfg.Injection.TypeTool != "xdotool" || cfg.Injection.ClipboardTool != "xclip" {
		t.Fatalf("unexpected injection config: %+v", cfg.Injection)
	}
	if cfg.Context.RulesFile != rules {
		t.Fatalf("unexpected context rules path: %q", cfg.Context.RulesFile)
	}
	if cfg.Session.ChunkSize != 512 || cfg.Session.StopGrace != 25*time.Millisecond {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Session.FinalTimeout != time.Second {
		t.Fatalf("unexpected final timeout: %s", cfg.Session.FinalTimeout)
	}
}

func TestLoadInvalidNumericValuesFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("COLDMIC_SAMPLE_RATE", "bad")
	t.Setenv("COLDMIC_CHANNELS", "-1")
	t.Setenv("COLDMIC_AUDIO_CHUNK_SIZE", "5")
	t.Setenv("COLDMIC_STOP_GRACE_MS", "bad")
	t.Setenv("COLDMIC_FINAL_TIMEOUT_MS", "bad")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Fatalf("expected default channels, got %d", cfg.Audio.Channels)
	}
	if cfg.Session.ChunkSize != 16000 {
		t.Fatalf("expected chunk size fallback, got %d", cfg.Session.ChunkSize)
	}
	if cfg.Session.StopGrace != 300*time.Millisecond {
		t.Fatalf("expected default grace, got %s", cfg.Session.StopGrace)
	}
	if cfg.Session.FinalTimeout != 30*time.Second {
		t.Fatalf("expected default final timeout, got %s", cfg.Session.FinalTimeout)
	}
}
