package sandbox

// Target describes the program a sandboxed child execs into, with optional
// redirection paths for its standard streams. An empty path leaves the
// corresponding stream inherited.
type Target struct {
	Pathname   string   `yaml:"pathname"`
	Argv       []string `yaml:"argv"`
	Envp       []string `yaml:"envp"`
	InputPath  string   `yaml:"input_path"`
	OutputPath string   `yaml:"output_path"`
	ErrorPath  string   `yaml:"error_path"`
}
