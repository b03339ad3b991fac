package sandbox

type StatusCode int64

const (
	Success StatusCode = iota
	OpenError
	ForkError
	ExecError
	WaitError
)

// Status is the supervisor-level outcome of one sandboxed execution. Success
// means the child was spawned and reaped; whether the child itself behaved is
// recorded in Exit. Exit and Usage are only meaningful when Code is Success.
type Status struct {
	Code  StatusCode
	Exit  ExitStatus
	Usage ResourceUsage
	Msg   string
}

// Child-side setup failures cannot be returned across exec, so they surface
// to the parent as these exit codes, following the shell convention that
// reserves 126 and 127 for exec problems.
const (
	childExitRedirect = 125
	childExitSetup    = 126
	childExitExec     = 127
)
