// Package matcher selects registry keys by glob or regular expression.
package matcher

import (
	"path"
	"regexp"
	"strings"

	"github.com/agentstation/specmap/pkg/errors"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
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

// Matcher tests keys against one pattern. Keys are lower case, so
// matching folds case.
type Matcher struct {
	pattern     string
	patternType PatternType
	compiled    *regexp.Regexp
}

// New compiles pattern. Auto treats patterns with regex metacharacters as
// regular expressions and everything else as a glob.
func New(patternType PatternType, pattern string) (*Matcher, error) {
	m := &Matcher{pattern: pattern, patternType: patternType}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		m.pattern = strings.ToLower(pattern)
		if _, err := path.Match(m.pattern, ""); err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid glob: "+err.Error())
		}
	case Regex:
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid regex: "+err.Error())
		}
		m.compiled = compiled
	default:
		return nil, errors.NewValidationError("pattern", pattern, "unsupported pattern type "+patternType.String())
	}
	return m, nil
}

// Match reports whether key matches the pattern.
func (m *Matcher) Match(key string) bool {
	if m.patternType == Regex {
		return m.compiled.MatchString(key)
	}
	ok, _ := path.Match(m.pattern, strings.ToLower(key))
	return ok
}

// Pattern returns the original pattern string.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *Matcher) Type() PatternType {
	return m.patternType
}

// Any matches a key against several patterns.
type Any []*Matcher

// NewAny compiles every pattern with Auto detection.
func NewAny(patterns ...string) (Any, error) {
	out := make(Any, 0, len(patterns))
	for _, p := range patterns {
		m, err := New(Auto, p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Match reports whether any pattern matches. An empty set matches
// everything.
func (a Any) Match(key string) bool {
	if len(a) == 0 {
		return true
	}
	for _, m := range a {
		if m.Match(key) {
			return true
		}
	}
	return false
}

// Filter returns the keys that match, in order.
func (a Any) Filter(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if a.Match(k) {
			out = append(out, k)
		}
	}
	return out
}

// detectPatternType attempts to detect if a pattern is glob or regex.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", "\\d", "\\w", "\\s", "(?", "{", "}", "+", "|", "(", ")", ".*",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}
