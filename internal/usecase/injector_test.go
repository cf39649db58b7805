package usecase

import (
	"context"
	"testing"
	"time"

	"coldmic/internal/domain"
)

type fakeTextInjector struct {
	outcome domain.InjectOutcome
	gotText string
	calledAt time.Time
}

func (f *fakeTextInjector) Inject(_ context.Context, text string) domain.InjectOutcome {
	f.gotText = text
	f.calledAt = time.Now()
	return f.outcome
}

func TestInjectorHidesOverlayBeforeInjecting(t *testing.T) {
	hideCalledAt := time.Time{}
	hide := func() { hideCalledAt = time.Now() }

	fake := &fakeTextInjector{outcome: domain.InjectOutcome{OK: true, Method: domain.InjectMethodDirect}}
	injector := NewInjector(fake, hide)
	injector.modifierWait = time.Millisecond
	injector.yield = 20 * time.Millisecond

	outcome := injector.Deliver(context.Background(), "hello world")
	if !outcome.OK || outcome.Method != domain.InjectMethodDirect {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if fake.gotText != "hello world" {
		t.Fatalf("unexpected injected text: %q", fake.gotText)
	}
	if hideCalledAt.IsZero() {
		t.Fatalf("expected overlay hide callback to run")
	}
	if !fake.calledAt.After(hideCalledAt) {
		t.Fatalf("expected injection to happen after the overlay was hidden")
	}
}

func TestInjectorPropagatesFallbackOutcome(t *testing.T) {
	fake := &fakeTextInjector{outcome: domain.InjectOutcome{
		OK:     true,
		Method: domain.InjectMethodClipboardFallback,
		Reason: "direct typing unsupported on wayland",
	}}
	injector := NewInjector(fake, nil)
	injector.modifierWait = time.Millisecond
	injector.yield = time.Millisecond

	outcome := injector.Deliver(context.Background(), "text")
	if outcome.Method != domain.InjectMethodClipboardFallback || outcome.Reason == "" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestInjectorRespectsContextCancellation(t *testing.T) {
	fake := &fakeTextInjector{outcome: domain.InjectOutcome{OK: true, Method: domain.InjectMethodDirect}}
	injector := NewInjector(fake, nil)
	injector.yield = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan domain.InjectOutcome, 1)
	go func() { done <- injector.Deliver(ctx, "text") }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Deliver did not return promptly after context cancellation")
	}
}
