package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the dictation core.
type Config struct {
	Transport TransportConfig
	Audio     AudioConfig
	Hotkey    HotkeyConfig
	Injection InjectionConfig
	Context   ContextConfig
	Session   SessionConfig
}

type TransportConfig struct {
	APIBaseURL     string
	ConnectTimeout time.Duration
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type HotkeyConfig struct {
	Binding string
}

type InjectionConfig struct {
	TypeTool      string
	ClipboardTool string
}

type ContextConfig struct {
	RulesFile string
}

type SessionConfig struct {
	ChunkSize         int
	PreWarmBufferSize int
	StopGrace         time.Duration
	FinalTimeout      time.Duration
	ToastSafetyTimeout time.Duration
}

// Load resolves configuration from environment variables and sensible
// defaults.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	cfg := Config{
		Transport: TransportConfig{
			APIBaseURL:     envOrDefault("API_BASE_URL", "http://127.0.0.1:8787"),
			ConnectTimeout: time.Duration(envOrDefaultInt("COLDMIC_CONNECT_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("COLDMIC_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("COLDMIC_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice: firstNonEmpty(
				os.Getenv("COLDMIC_AUDIO_INPUT_DEVICE"),
				"default",
			),
			SampleRate: envOrDefaultInt("COLDMIC_SAMPLE_RATE", 16000),
			Channels:   envOrDefaultInt("COLDMIC_CHANNELS", 1),
		},
		Hotkey: HotkeyConfig{
			Binding: envOrDefault("COLDMIC_HOTKEY", "CommandOrControl+Shift+Space"),
		},
		Injection: InjectionConfig{
			TypeTool:      envOrDefault("COLDMIC_TYPE_TOOL", "wtype"),
			ClipboardTool: envOrDefault("COLDMIC_CLIPBOARD_TOOL", "wl-copy"),
		},
		Context: ContextConfig{
			RulesFile: firstNonEmpty(
				os.Getenv("COLDMIC_CONTEXT_RULES_FILE"),
				firstExisting(filepath.Join(home, ".config", "coldmic", "context.rules")),
			),
		},
		Session: SessionConfig{
			ChunkSize:          envOrDefaultInt("COLDMIC_AUDIO_CHUNK_SIZE", 16000),
			PreWarmBufferSize:  envOrDefaultInt("COLDMIC_PREWARM_BUFFER_BYTES", 48000),
			StopGrace:          time.Duration(firstNonNegativeInt("COLDMIC_STOP_GRACE_MS", "COLDMIC_STREAMING_GRACE_MS", 300)) * time.Millisecond,
			FinalTimeout:       time.Duration(envOrDefaultInt("COLDMIC_FINAL_TIMEOUT_MS", 30000)) * time.Millisecond,
			ToastSafetyTimeout: time.Duration(envOrDefaultInt("COLDMIC_TOAST_SAFETY_TIMEOUT_MS", 15000)) * time.Millisecond,
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 16000
	}
	if cfg.Session.PreWarmBufferSize < cfg.Session.ChunkSize {
		cfg.Session.PreWarmBufferSize = cfg.Session.ChunkSize * 3
	}
	if cfg.Session.FinalTimeout <= 0 {
		cfg.Session.FinalTimeout = 30 * time.Second
	}
	if cfg.Session.ToastSafetyTimeout <= 0 {
		cfg.Session.ToastSafetyTimeout = 15 * time.Second
	}
	if cfg.Transport.ConnectTimeout <= 0 {
		cfg.Transport.ConnectTimeout = 5 * time.Second
	}

	return cfg, nil
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstNonNegativeInt(primary string, secondary string, fallback int) int {
	for _, key := range []string{primary, secondary} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}
