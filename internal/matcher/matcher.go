// Package matcher selects table columns by name using glob or regular
// expression patterns.
package matcher

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/axioparse/axioparse/pkg/errors"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern carries regex-only syntax.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// pattern is one compiled column pattern. Matching ignores case.
type pattern struct {
	glob string
	re   *regexp.Regexp
}

func (p pattern) match(name string) bool {
	if p.re != nil {
		return p.re.MatchString(name)
	}
	ok, _ := filepath.Match(p.glob, strings.ToLower(name))
	return ok
}

// Columns matches a column name against any of several patterns.
// The zero value matches nothing.
type Columns struct {
	patterns []pattern
}

// NewColumns compiles patterns. Regex patterns are anchored to the whole name.
func NewColumns(patternType PatternType, patterns ...string) (*Columns, error) {
	c := &Columns{patterns: make([]pattern, 0, len(patterns))}
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		kind := patternType
		if kind == Auto {
			kind = detectPatternType(raw)
		}

		switch kind {
		case Regex:
			re, err := regexp.Compile("(?i)^(?:" + raw + ")$")
			if err != nil {
				return nil, errors.NewValidationError("pattern", raw, "invalid regex: "+err.Error())
			}
			c.patterns = append(c.patterns, pattern{re: re})
		default:
			glob := strings.ToLower(raw)
			if _, err := filepath.Match(glob, ""); err != nil {
				return nil, errors.NewValidationError("pattern", raw, "invalid glob: "+err.Error())
			}
			c.patterns = append(c.patterns, pattern{glob: glob})
		}
	}
	return c, nil
}

// Match reports whether name matches any pattern.
func (c *Columns) Match(name string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.patterns {
		if p.match(name) {
			return true
		}
	}
	return false
}

// Filter returns the indexes of names that do not match, in order.
func (c *Columns) Filter(names []string) []int {
	kept := make([]int, 0, len(names))
	for i, name := range names {
		if !c.Match(name) {
			kept = append(kept, i)
		}
	}
	return kept
}

// Len returns the number of compiled patterns.
func (c *Columns) Len() int {
	if c == nil {
		return 0
	}
	return len(c.patterns)
}

// detectPatternType reports Regex when pattern uses syntax glob lacks.
func detectPatternType(pattern string) PatternType {
	for _, indicator := range []string{"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")", ".*"} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}
