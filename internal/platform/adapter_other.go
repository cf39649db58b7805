//go:build !linux

package platform

import (
	"context"
	"fmt"

	"coldmic/internal/domain"
)

// LinuxAdapter's capabilities are unavailable outside Linux; every method
// reports failure so the caller degrades to UI-only mode.
type LinuxAdapter struct{}

func NewLinuxAdapter(_, _ string) (*LinuxAdapter, error) {
	return nil, fmt.Errorf("platform adapter is linux-only")
}

func (a *LinuxAdapter) ForegroundWindow(_ context.Context) (string, string, error) {
	return "", "", fmt.Errorf("foreground window lookup is linux-only")
}

func (a *LinuxAdapter) SetText(_ context.Context, _ string) error {
	return fmt.Errorf("clipboard access is linux-only")
}

func (a *LinuxAdapter) GetText(_ context.Context) (string, error) {
	return "", fmt.Errorf("clipboard access is linux-only")
}

func (a *LinuxAdapter) Inject(_ context.Context, _ string) domain.InjectOutcome {
	return domain.InjectOutcome{OK: false, Reason: "injection is linux-only"}
}
