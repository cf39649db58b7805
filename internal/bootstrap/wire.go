package bootstrap

import (
	"context"
	"fmt"
	"log"

	"coldmic/internal/audio"
	"coldmic/internal/config"
	"coldmic/internal/contextcapture"
	"coldmic/internal/domain"
	"coldmic/internal/hotkey"
	"coldmic/internal/platform"
	"coldmic/internal/ports"
	"coldmic/internal/transport/asr"
	"coldmic/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Watcher    *hotkey.Watcher
	Config     config.Config
}

// Build wires every backend dependency for the current runtime. Hook
// installation failure is non-fatal per spec's HookInstallFailed row: the
// process logs the failure and keeps running with the controller reachable
// only through its manual Start/Stop/Abort surface.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	log.Printf("coldmic: runtime environment: %s", platform.Describe())

	adapter, err := platform.NewLinuxAdapter(cfg.Injection.TypeTool, cfg.Injection.ClipboardTool)
	if err != nil {
		return Services{}, fmt.Errorf("platform adapter: %w", err)
	}

	classifier, err := contextcapture.NewClassifier(cfg.Context.RulesFile)
	if err != nil {
		return Services{}, fmt.Errorf("context classifier: %w", err)
	}

	capture := audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand)
	pipeline := audio.NewPipeline(
		capture,
		ports.AudioConfig{
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
			InputFormat: cfg.Audio.InputFormat,
			InputDevice: cfg.Audio.InputDevice,
		},
		cfg.Session.ChunkSize,
		cfg.Session.PreWarmBufferSize,
	)

	tokenSource := asr.NewCachedTokenSource(cfg.Transport.APIBaseURL)
	provider := asr.NewProvider(asr.Config{APIBaseURL: cfg.Transport.APIBaseURL}, tokenSource)

	toast := usecase.NewToastController(eventSink)
	injector := usecase.NewInjector(adapter, func() {
		toast.Hide()
	})

	controller := usecase.NewSessionController(
		pipeline,
		capture,
		provider,
		classifier,
		adapter,
		injector,
		toast,
		eventSink,
		usecase.Config{
			SampleRate:         cfg.Audio.SampleRate,
			Channels:           cfg.Audio.Channels,
			ConnectTimeout:     cfg.Transport.ConnectTimeout,
			FinalTimeout:       cfg.Session.FinalTimeout,
			ToastSafetyTimeout: cfg.Session.ToastSafetyTimeout,
		},
	)

	binding, err := hotkey.ParseBinding(cfg.Hotkey.Binding)
	if err != nil {
		return Services{}, fmt.Errorf("hotkey binding: %w", err)
	}

	hook := hotkey.NewEvdevHook()
	watcher := hotkey.NewWatcher(hook, binding,
		func() {
			if err := controller.Start(context.Background()); err != nil {
				log.Printf("coldmic: start failed: %v", err)
			}
		},
		func() {
			if _, err := controller.Stop(context.Background()); err != nil {
				log.Printf("coldmic: stop failed: %v", err)
			}
		},
		func() {
			if err := controller.Abort(); err != nil {
				log.Printf("coldmic: abort failed: %v", err)
			}
		},
	)

	if err := watcher.Install(); err != nil {
		log.Printf("coldmic: %s: %v", cfg.Hotkey.Binding, err)
		eventSink.SessionError(domain.ErrorCodeHookInstallFailed, err.Error())
	}

	if err := pipeline.Warm(context.Background()); err != nil {
		log.Printf("coldmic: pre-warm failed, will cold-start on first use: %v", err)
	}

	return Services{Controller: controller, Watcher: watcher, Config: cfg}, nil
}
