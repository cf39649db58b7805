//go:build !linux

package platform

// Describe reports a fixed placeholder outside Linux, where display-server
// and tray detection have no equivalent implemented here.
func Describe() string {
	return "unsupported-platform"
}
