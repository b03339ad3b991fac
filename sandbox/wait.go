//go:build linux || darwin

package sandbox

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Wait blocks until the process identified by pid terminates, reaps it, and
// returns its exit classification together with the usage accounting the
// kernel kept for it. wait4 is issued without WUNTRACED, so stop/continue
// events never surface here; the call only returns on termination.
//
// The wait is not retried on interruption and must not be issued twice for
// the same pid; both policies belong to the caller. A wait that returns a
// different pid than requested is reported as an error, the child's fate is
// then unknown to the caller.
func Wait(pid int) (ExitStatus, ResourceUsage, error) {
	var (
		status unix.WaitStatus
		rusage unix.Rusage
	)
	wpid, err := unix.Wait4(pid, &status, 0, &rusage)
	if err != nil {
		return ExitStatus{}, ResourceUsage{}, fmt.Errorf("wait4 pid %d: %w", pid, err)
	}
	if wpid != pid {
		return ExitStatus{}, ResourceUsage{}, fmt.Errorf("wait4 returned pid %d, want %d", wpid, pid)
	}

	var exit ExitStatus
	switch {
	case status.Exited():
		exit = ExitCode(status.ExitStatus())
	case status.Signaled():
		exit = Signal(int(status.Signal()))
	default:
		return ExitStatus{}, ResourceUsage{}, fmt.Errorf("pid %d terminated with unrecognized wait status %#x", pid, uint32(status))
	}

	usage := ResourceUsage{
		MemoryUsage:   uint64(rusage.Maxrss) * maxRSSUnitBytes,
		UserCPUTime:   timevalSeconds(rusage.Utime),
		SystemCPUTime: timevalSeconds(rusage.Stime),
	}
	return exit, usage, nil
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}
