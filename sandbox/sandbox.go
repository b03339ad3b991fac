//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/elastic/go-seccomp-bpf"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const defaultPathEnv = "PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

type Option func(*runOptions)

type runOptions struct {
	policy *seccomp.Policy
	logger *zap.Logger
}

// WithPolicy installs a seccomp filter in the child before exec. The policy
// is loaded verbatim; it must permit the execve of the target itself.
func WithPolicy(policy *seccomp.Policy) Option {
	return func(o *runOptions) { o.policy = policy }
}

// WithLogger enables debug diagnostics on the supervision path.
func WithLogger(logger *zap.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// execImage carries everything the child needs for execve, prepared before
// fork. The child of a multithreaded parent cannot touch the Go allocator,
// so all string conversion happens on the parent side.
type execImage struct {
	argv0 *byte
	argv  []*byte
	envv  []*byte
}

// Run supervises one sandboxed execution of target under cfg: it forks, has
// the child redirect its standard streams, apply the resource limits and the
// optional seccomp filter, and exec the target; the parent reaps the child
// through Wait and stamps wall time from its own fork-time clock. Child-side
// setup failures surface through Exit as the reserved exit codes 125-127.
func Run(cfg Config, target Target, opts ...Option) Status {
	options := runOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}

	img, err := prepareImage(target)
	if err != nil {
		return Status{Code: ExecError, Msg: err.Error()}
	}

	redirs, files, err := openRedirects(target)
	if err != nil {
		return Status{Code: OpenError, Msg: err.Error()}
	}
	defer closeFiles(files)

	start := time.Now()
	syscall.ForkLock.Lock()
	pid, errno := forkProcess()
	if errno != 0 {
		syscall.ForkLock.Unlock()
		return Status{Code: ForkError, Msg: fmt.Sprintf("fork: %v", errno)}
	}
	if pid == 0 {
		childExec(cfg, redirs, options.policy, img)
	}
	syscall.ForkLock.Unlock()

	options.logger.Debug("spawned sandboxed child",
		zap.Int("pid", pid), zap.String("pathname", target.Pathname))

	exit, usage, err := Wait(pid)
	if err != nil {
		return Status{Code: WaitError, Msg: err.Error()}
	}
	usage.WallTime = time.Since(start).Seconds()

	if sig, ok := exit.Signaled(); ok {
		desc, _ := SignalDescription(sig)
		options.logger.Debug("child terminated by signal",
			zap.Int("pid", pid), zap.Int("signal", sig), zap.String("description", desc))
	} else if code, ok := exit.Exited(); ok {
		options.logger.Debug("child exited", zap.Int("pid", pid), zap.Int("code", code))
	}

	return Status{Code: Success, Exit: exit, Usage: usage, Msg: exit.String()}
}

// fork is clone(SIGCHLD) on Linux; there is no fork syscall on arm64.
func forkProcess() (int, syscall.Errno) {
	pid, _, errno := syscall.RawSyscall(unix.SYS_CLONE, uintptr(unix.SIGCHLD), 0, 0)
	return int(pid), errno
}

func prepareImage(target Target) (*execImage, error) {
	argv0, err := syscall.BytePtrFromString(target.Pathname)
	if err != nil {
		return nil, fmt.Errorf("target pathname: %w", err)
	}
	argv, err := syscall.SlicePtrFromStrings(append([]string{target.Pathname}, target.Argv...))
	if err != nil {
		return nil, fmt.Errorf("target argv: %w", err)
	}
	envp := target.Envp
	if len(envp) == 0 {
		envp = []string{defaultPathEnv}
	}
	envv, err := syscall.SlicePtrFromStrings(envp)
	if err != nil {
		return nil, fmt.Errorf("target envp: %w", err)
	}
	return &execImage{argv0: argv0, argv: argv, envv: envv}, nil
}

// openRedirects opens the redirection targets on the parent side; the child
// only duplicates already-open descriptors onto fds 0-2.
func openRedirects(target Target) ([][2]int, []*os.File, error) {
	paths := [3]string{target.InputPath, target.OutputPath, target.ErrorPath}
	flags := [3]int{os.O_RDONLY, os.O_WRONLY | os.O_CREATE, os.O_WRONLY | os.O_CREATE}

	var (
		pairs [][2]int
		files []*os.File
	)
	for fd, path := range paths {
		if path == "" {
			continue
		}
		file, err := os.OpenFile(path, flags[fd], 0644)
		if err != nil {
			closeFiles(files)
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		files = append(files, file)
		pairs = append(pairs, [2]int{int(file.Fd()), fd})
	}
	return pairs, files, nil
}

func closeFiles(files []*os.File) {
	for _, file := range files {
		file.Close()
	}
}

// childExec runs in the forked child. Raw syscalls only until exec; the Go
// runtime cannot be trusted after a bare fork of a multithreaded process.
func childExec(cfg Config, redirs [][2]int, policy *seccomp.Policy, img *execImage) {
	for _, r := range redirs {
		if err := unix.Dup3(r[0], r[1], 0); err != nil {
			syscall.Exit(childExitRedirect)
		}
	}

	if err := SetupResourceLimits(cfg); err != nil {
		syscall.Exit(childExitSetup)
	}

	if policy != nil {
		if err := seccomp.LoadFilter(seccomp.Filter{
			NoNewPrivs: true,
			Flag:       seccomp.FilterFlagTSync,
			Policy:     *policy,
		}); err != nil {
			syscall.Exit(childExitSetup)
		}
	}

	syscall.RawSyscall(unix.SYS_EXECVE,
		uintptr(unsafe.Pointer(img.argv0)),
		uintptr(unsafe.Pointer(&img.argv[0])),
		uintptr(unsafe.Pointer(&img.envv[0])))
	syscall.Exit(childExitExec)
}
