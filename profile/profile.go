// Package profile loads named sandbox run profiles from YAML files.
package profile

import (
	"fmt"
	"os"

	"github.com/elastic/go-seccomp-bpf"
	"gopkg.in/yaml.v3"

	"procbox/sandbox"
)

// Conversion maps a task's abstract limit onto the concrete value handed to
// the sandbox: concrete = abstract*Coef + Extra. A zero Coef counts as 1.
type Conversion struct {
	Coef  float64 `yaml:"coef"`
	Extra float64 `yaml:"extra"`
}

func (c Conversion) Apply(value uint64) uint64 {
	coef := c.Coef
	if coef == 0 {
		coef = 1
	}
	return uint64(float64(value)*coef + c.Extra)
}

// Profile is a reusable set of sandbox constraints, optionally paired with a
// seccomp policy for the run supervisor.
type Profile struct {
	Name        string          `yaml:"name"`
	MemoryLimit uint64          `yaml:"memory_limit"` // bytes, 0 = inherit
	TimeLimit   uint64          `yaml:"time_limit"`   // CPU seconds, 0 = inherit
	Memory      Conversion      `yaml:"memory"`
	Time        Conversion      `yaml:"time"`
	Policy      *seccomp.Policy `yaml:"policy"`
}

// Config produces the sandbox configuration for a task asking for the given
// limits, after applying the profile's conversion coefficients. A zero task
// limit falls back to the profile's own default for that dimension.
func (p Profile) Config(memoryBytes, cpuSeconds uint64) sandbox.Config {
	cfg := sandbox.Config{
		MemoryLimit: p.MemoryLimit,
		TimeLimit:   p.TimeLimit,
	}
	if memoryBytes > 0 {
		cfg.MemoryLimit = p.Memory.Apply(memoryBytes)
	}
	if cpuSeconds > 0 {
		cfg.TimeLimit = p.Time.Apply(cpuSeconds)
	}
	return cfg
}

// Load reads a versioned profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var doc struct {
		Version string  `yaml:"version"`
		Profile Profile `yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &doc.Profile, nil
}
