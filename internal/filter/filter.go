// Package filter switches commands off by name before a run.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bgricker/buildpipe/internal/command"
)

// Pattern represents a compiled filter condition supporting substring and regex matching.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values. A pattern
// wrapped in slashes is a regular expression.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
			re, err := regexp.Compile(raw[1 : len(raw)-1])
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Apply deactivates the commands of c that fail the only patterns or match
// a skip pattern. A command matches through its own name or the name of any
// enclosing group. Already inactive commands are left alone. It returns the
// names it switched off, in execution order.
func Apply(c *command.Container, only, skip []Pattern) []string {
	if c == nil || (len(only) == 0 && len(skip) == 0) {
		return nil
	}
	var off []string
	for _, s := range c.Steps {
		off = applyStep(s, nil, only, skip, off)
	}
	return off
}

func applyStep(s command.Step, path []string, only, skip []Pattern, off []string) []string {
	if g := s.Group(); g != nil {
		path = append(path, g.Name)
		for _, child := range g.Steps {
			off = applyStep(child, path, only, skip, off)
		}
		return off
	}
	cmd := s.Command()
	if cmd == nil || !cmd.Active() {
		return off
	}
	names := append(append([]string(nil), path...), cmd.Name())
	if len(only) > 0 && !matchesAny(names, only) {
		cmd.SetActive(false)
		return append(off, cmd.Name())
	}
	if len(skip) > 0 && matchesAny(names, skip) {
		cmd.SetActive(false)
		return append(off, cmd.Name())
	}
	return off
}

func matchesAny(names []string, patterns []Pattern) bool {
	for _, pattern := range patterns {
		for _, name := range names {
			if pattern.Match(name) {
				return true
			}
		}
	}
	return false
}
