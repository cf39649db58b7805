package usecase

import (
	"context"
	"time"

	"coldmic/internal/domain"
	"coldmic/internal/ports"
)

// Injector wraps the platform's TextInjector with the focus discipline a
// direct keystroke injection needs: the overlay must be hidden and focus
// must have settled back on the target application before typing starts,
// or the keystrokes land on the overlay window instead.
type Injector struct {
	inject       ports.TextInjector
	hideOverlay  func()
	modifierWait time.Duration
	yield        time.Duration
}

func NewInjector(inject ports.TextInjector, hideOverlay func()) *Injector {
	return &Injector{
		inject:       inject,
		hideOverlay:  hideOverlay,
		modifierWait: domain.ModifierReleaseWait,
		yield:        domain.FocusYieldInterval,
	}
}

// Deliver hides the overlay, waits for the hotkey's own modifiers to
// release and then for focus to settle, and injects text into whatever
// now has focus.
func (i *Injector) Deliver(ctx context.Context, text string) domain.InjectOutcome {
	if i.hideOverlay != nil {
		i.hideOverlay()
	}

	i.sleep(ctx, i.modifierWait)
	i.sleep(ctx, i.yield)

	return i.inject.Inject(ctx, text)
}

// sleep waits out d, returning early if ctx is canceled.
func (i *Injector) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
