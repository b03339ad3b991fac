//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// The test binary doubles as the sandboxed child: when PROCBOX_HELPER is
// set it runs the named helper branch instead of the test suite.
func TestMain(m *testing.M) {
	if mode := os.Getenv("PROCBOX_HELPER"); mode != "" {
		runHelper(mode)
		return
	}
	os.Exit(m.Run())
}

func runHelper(mode string) {
	switch mode {
	case "exit":
		code, err := strconv.Atoi(os.Getenv("PROCBOX_HELPER_EXIT_CODE"))
		if err != nil {
			os.Exit(200)
		}
		os.Exit(code)

	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)

	case "baseline-limits":
		if err := checkBaselineLimits(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)

	case "overallocate":
		if err := SetupResourceLimits(Config{MemoryLimit: 1 << 20}); err != nil {
			os.Exit(1)
		}
		if _, err := unix.Mmap(-1, 0, 256<<20, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE); err != nil {
			os.Exit(3)
		}
		os.Exit(0)

	case "spin":
		if err := SetupResourceLimits(Config{TimeLimit: 1}); err != nil {
			os.Exit(1)
		}
		for i := 0; ; i++ {
			if i < 0 {
				os.Exit(0)
			}
		}

	default:
		os.Exit(201)
	}
}

func checkBaselineLimits() error {
	var asBefore, cpuBefore unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &asBefore); err != nil {
		return fmt.Errorf("get RLIMIT_AS: %w", err)
	}
	if err := unix.Getrlimit(unix.RLIMIT_CPU, &cpuBefore); err != nil {
		return fmt.Errorf("get RLIMIT_CPU: %w", err)
	}

	if err := SetupResourceLimits(Config{}); err != nil {
		return fmt.Errorf("setup with empty config: %w", err)
	}

	var asAfter, cpuAfter, core unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &asAfter); err != nil {
		return fmt.Errorf("get RLIMIT_AS: %w", err)
	}
	if err := unix.Getrlimit(unix.RLIMIT_CPU, &cpuAfter); err != nil {
		return fmt.Errorf("get RLIMIT_CPU: %w", err)
	}
	if err := unix.Getrlimit(unix.RLIMIT_CORE, &core); err != nil {
		return fmt.Errorf("get RLIMIT_CORE: %w", err)
	}

	if asAfter != asBefore {
		return fmt.Errorf("address space limit changed: %+v -> %+v", asBefore, asAfter)
	}
	if cpuAfter != cpuBefore {
		return fmt.Errorf("cpu limit changed: %+v -> %+v", cpuBefore, cpuAfter)
	}
	if core.Cur != 0 || core.Max != 0 {
		return fmt.Errorf("core limit not zeroed: %+v", core)
	}
	return nil
}

func spawnHelper(t *testing.T, mode string, extraEnv ...string) int {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), "PROCBOX_HELPER="+mode)
	cmd.Env = append(cmd.Env, extraEnv...)
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Start(), "start helper %q", mode)
	return cmd.Process.Pid
}
