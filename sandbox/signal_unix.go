//go:build unix

package sandbox

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SignalDescription resolves a signal number to its textual description, in
// the manner of strsignal(3). The second return is false when the number
// does not name a defined signal on this platform. Safe for arbitrary input.
func SignalDescription(signal int) (string, bool) {
	if signal <= 0 {
		return "", false
	}
	sig := syscall.Signal(signal)
	if unix.SignalName(sig) == "" {
		return "", false
	}
	desc := sig.String()
	if desc == "" {
		return "", false
	}
	return desc, true
}
