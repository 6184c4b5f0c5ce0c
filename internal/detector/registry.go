package detector

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/Pramodsai29/AegisAI/internal/entity"
	"github.com/Pramodsai29/AegisAI/patterns"
)

// RecognizerFile is the top-level YAML structure for a recognizer config file.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig defines one structural PII recognizer.
type RecognizerConfig struct {
	Name     string          `yaml:"name" json:"name"`
	Entity   string          `yaml:"entity" json:"entity"`
	Enabled  *bool           `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Patterns []PatternConfig `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	// DenyList disqualifies a candidate when any of its whitespace-separated
	// tokens equals a listed word (used by the name fallback stop-list).
	DenyList []string `yaml:"deny_list,omitempty" json:"deny_list,omitempty"`
	// NotAfter lists bytes that must not immediately precede a match.
	// Stands in for lookbehind, which RE2 does not support.
	NotAfter string `yaml:"not_after,omitempty" json:"not_after,omitempty"`
	// NotBefore lists bytes that must not immediately follow a match.
	// Stands in for negative lookahead.
	NotBefore string `yaml:"not_before,omitempty" json:"not_before,omitempty"`
}

// PatternConfig is a single regex pattern within a recognizer.
type PatternConfig struct {
	Name  string `yaml:"name" json:"name"`
	Regex string `yaml:"regex" json:"regex"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true when nil).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// ParseRecognizerFile parses recognizer YAML bytes into a RecognizerFile.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a recognizer YAML file from disk.
// Returns nil (not an error) if the file does not exist, so callers can
// treat a missing override file as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// DefaultRecognizers parses the embedded default recognizer definitions.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.PIIDefaultYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded recognizers: %w", err)
	}
	return rf.Recognizers, nil
}

// MergeRecognizers merges recognizer layers: defaults first, then overrides.
// Later layers replace earlier ones by matching Name; new recognizers are
// appended, which places them after the built-in priority chain.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig

	for _, layer := range layers {
		for _, rc := range layer {
			if idx, exists := index[rc.Name]; exists {
				merged[idx] = rc
			} else {
				index[rc.Name] = len(merged)
				merged = append(merged, rc)
			}
		}
	}

	return merged
}

// compile converts recognizer configs into runtime patterns, preserving
// declaration order. Disabled recognizers are skipped. Each regex within a
// recognizer produces one Pattern entry sharing the recognizer's class,
// deny list, and boundary guard.
func compile(recognizers []RecognizerConfig) ([]Pattern, error) {
	var compiled []Pattern

	for _, rec := range recognizers {
		if !rec.isEnabled() {
			continue
		}
		class, ok := entity.ParseClass(rec.Entity)
		if !ok {
			return nil, fmt.Errorf("recognizer %q: unknown entity class %q", rec.Name, rec.Entity)
		}
		deny := make(map[string]bool, len(rec.DenyList))
		for _, w := range rec.DenyList {
			deny[w] = true
		}
		for _, p := range rec.Patterns {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("compiling pattern %q in recognizer %q: %w", p.Name, rec.Name, err)
			}
			compiled = append(compiled, Pattern{
				Recognizer: rec.Name,
				Name:       p.Name,
				Class:      class,
				re:         re,
				notAfter:   rec.NotAfter,
				notBefore:  rec.NotBefore,
				deny:       deny,
			})
		}
	}

	return compiled, nil
}
