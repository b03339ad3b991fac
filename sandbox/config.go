package sandbox

// Config holds the resource constraints applied to a process before it execs.
// A zero field leaves that dimension at whatever limit the process inherited.
type Config struct {
	MemoryLimit uint64 `yaml:"memory_limit"` // address space bound, bytes
	TimeLimit   uint64 `yaml:"time_limit"`   // CPU time bound, seconds
}
