package invariant

import (
	"fmt"
	"regexp"
)

// CompilePattern compiles pattern into a *regexp.Regexp for use in a
// Custom invariant. Go's regexp package is RE2-based and already immune
// to catastrophic backtracking, so this exists purely to give Custom
// callers a validating entry point that returns a normal error instead
// of panicking on a malformed pattern.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invariant: compile pattern %q: %w", pattern, err)
	}
	return re, nil
}
