// Package safety provides tool filtering, confirmation tokens, and audit
// logging for the marketplace MCP tools.
package safety

import (
	"fmt"
	"path"
)

// Filter decides which MCP tools are exposed, using glob patterns (as
// understood by path.Match) over tool names such as "product_*".
//
// Rules:
//   - If both lists are empty (or nil), every tool is allowed.
//   - Denylist always takes priority over the allowlist.
//   - If a non-empty allowlist is present, a tool must match at least one
//     allowlist pattern to be permitted (after the denylist check).
type Filter struct {
	allowlist []string
	denylist  []string
}

// NewFilter constructs a Filter from the provided allowlist and denylist
// pattern slices. Either or both may be nil or empty. A malformed pattern is
// reported as an error instead of silently never matching.
func NewFilter(allowlist, denylist []string) (*Filter, error) {
	for _, list := range [][]string{allowlist, denylist} {
		for _, pattern := range list {
			if _, err := path.Match(pattern, ""); err != nil {
				return nil, fmt.Errorf("invalid tool pattern %q: %w", pattern, err)
			}
		}
	}
	return &Filter{
		allowlist: allowlist,
		denylist:  denylist,
	}, nil
}

// IsAllowed reports whether the tool name is permitted by this filter. A nil
// Filter allows everything.
func (f *Filter) IsAllowed(name string) bool {
	if f == nil {
		return true
	}

	for _, pattern := range f.denylist {
		if matchGlob(pattern, name) {
			return false
		}
	}

	if len(f.allowlist) == 0 {
		return true
	}

	for _, pattern := range f.allowlist {
		if matchGlob(pattern, name) {
			return true
		}
	}

	return false
}

// matchGlob returns true when name matches the given glob pattern. Patterns
// are validated in NewFilter.
func matchGlob(pattern, name string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}
