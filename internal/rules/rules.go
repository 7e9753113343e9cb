// Package rules holds the fixed expectations the validator checks logs
// against. The defaults mirror the memory simulator's build configuration;
// a YAML rules file can override them for other targets.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Set is one complete group of validation expectations.
type Set struct {
	// ExpectedTotalMemory is the physical memory size in bytes that every
	// used_memory/free_memory pair must sum to.
	ExpectedTotalMemory int `yaml:"expected_total_memory"`

	// PowerOfTwoField names the log field whose values must be powers of
	// two (buddy allocator block sizes).
	PowerOfTwoField string `yaml:"power_of_two_field"`

	// PassMarker and FailMarker are the literal substrings counted to
	// report how many test cases passed and failed inside the log.
	PassMarker string `yaml:"pass_marker"`
	FailMarker string `yaml:"fail_marker"`
}

// Default returns the expectations for the memory simulator's test suite.
func Default() Set {
	return Set{
		ExpectedTotalMemory: 1024,
		PowerOfTwoField:     "allocated_size",
		PassMarker:          "PASSED",
		FailMarker:          "FAILED",
	}
}

// Load reads a YAML rules file. Fields absent from the file keep their
// default values.
func Load(path string) (Set, error) {
	set := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if err := set.validate(); err != nil {
		return Set{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return set, nil
}

func (s Set) validate() error {
	if s.ExpectedTotalMemory <= 0 {
		return fmt.Errorf("expected_total_memory must be positive, got %d", s.ExpectedTotalMemory)
	}
	if s.PowerOfTwoField == "" {
		return fmt.Errorf("power_of_two_field must not be empty")
	}
	if s.PassMarker == "" || s.FailMarker == "" {
		return fmt.Errorf("pass_marker and fail_marker must not be empty")
	}
	return nil
}
