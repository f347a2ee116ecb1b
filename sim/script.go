// Package sim provides a scripted stand-in for an ESP-AT WiFi module.
//
// A Device answers each command line it receives with the reply of the
// first matching rule of its Script, optionally echoing the command first
// the way the real firmware does. It is an io.ReadWriteCloser and can be
// used wherever a serial port is expected.
package sim

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScript []byte

// ErrNoRules is returned for a script that could never answer anything.
var ErrNoRules = errors.New("script has no rules")

// Script describes how a Device answers.
type Script struct {
	// Echo repeats every received command line before its reply.
	Echo bool `yaml:"echo"`
	// State is the initial state. Rules may be restricted to a state.
	State string `yaml:"state"`
	// Unknown is sent for a line no rule matches.
	Unknown string `yaml:"unknown"`
	Rules   []Rule `yaml:"rules"`
}

// Rule answers the command lines starting with Match.
type Rule struct {
	Match string `yaml:"match"`
	Reply string `yaml:"reply"`
	// State restricts the rule to one device state. Empty matches any.
	State string `yaml:"state"`
	// Next is the state after the rule fired. Empty keeps the state.
	Next    string `yaml:"next"`
	DelayMs int    `yaml:"delay_ms"`
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// DefaultScript returns the built-in script: an idle station that accepts
// any join and is given 192.168.4.2.
func DefaultScript() *Script {
	s, err := ParseScript(defaultScript)
	if err != nil {
		panic(fmt.Sprintf("sim: built-in script: %v", err))
	}
	return s
}

func (s *Script) validate() error {
	if len(s.Rules) == 0 {
		return ErrNoRules
	}
	for i, r := range s.Rules {
		if r.Match == "" {
			return fmt.Errorf("rule %d: match must not be empty", i)
		}
		if r.DelayMs < 0 {
			return fmt.Errorf("rule %d: delay_ms must not be negative", i)
		}
	}
	return nil
}

// lookup returns the first rule for line in state.
func (s *Script) lookup(line, state string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.State != "" && r.State != state {
			continue
		}
		if strings.HasPrefix(line, r.Match) {
			return r, true
		}
	}
	return Rule{}, false
}
