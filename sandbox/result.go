package sandbox

import "fmt"

// ExitStatus records how a process terminated: a normal exit with a code, or
// death by signal. Exactly one of Exited and Signaled reports true.
type ExitStatus struct {
	code     int
	signal   int
	signaled bool
}

// ExitCode builds the status of a process that exited normally.
func ExitCode(code int) ExitStatus {
	return ExitStatus{code: code}
}

// Signal builds the status of a process terminated by a signal.
func Signal(signal int) ExitStatus {
	return ExitStatus{signal: signal, signaled: true}
}

// Exited returns the exit code of a normally terminated process.
func (s ExitStatus) Exited() (int, bool) {
	if s.signaled {
		return 0, false
	}
	return s.code, true
}

// Signaled returns the signal number that terminated the process.
func (s ExitStatus) Signaled() (int, bool) {
	if !s.signaled {
		return 0, false
	}
	return s.signal, true
}

func (s ExitStatus) String() string {
	if s.signaled {
		return fmt.Sprintf("signal %d", s.signal)
	}
	return fmt.Sprintf("exit code %d", s.code)
}

// ResourceUsage is the accounting snapshot the kernel kept for a terminated
// process. WallTime is never filled in by this package: wall-clock
// measurement needs a timestamp taken at spawn time, which only the spawning
// caller has.
type ResourceUsage struct {
	MemoryUsage   uint64  // peak resident set, bytes
	UserCPUTime   float64 // seconds
	SystemCPUTime float64 // seconds
	WallTime      float64 // seconds, left zero by Wait
}
