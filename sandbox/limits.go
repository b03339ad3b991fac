//go:build linux || darwin

package sandbox

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetupResourceLimits applies cfg to the calling process. Both the soft and
// hard limit are set to the same value so the process cannot raise its own
// ceiling afterwards. Core dumps are disabled unconditionally. Limits are
// applied in a fixed order: address space, CPU time, core size.
//
// This is meant to run in a forked child between fork and exec. The change
// is process-wide and irreversible from inside the sandbox; on error no
// previously applied limit is rolled back, the child must be abandoned.
func SetupResourceLimits(cfg Config) error {
	if cfg.MemoryLimit > 0 {
		if err := setResourceLimit(unix.RLIMIT_AS, cfg.MemoryLimit); err != nil {
			return fmt.Errorf("set address space limit: %w", err)
		}
	}

	if cfg.TimeLimit > 0 {
		if err := setResourceLimit(unix.RLIMIT_CPU, cfg.TimeLimit); err != nil {
			return fmt.Errorf("set cpu time limit: %w", err)
		}
	}

	if err := setResourceLimit(unix.RLIMIT_CORE, 0); err != nil {
		return fmt.Errorf("disable core dumps: %w", err)
	}
	return nil
}

func setResourceLimit(resource int, limit uint64) error {
	return unix.Setrlimit(resource, &unix.Rlimit{Cur: limit, Max: limit})
}
