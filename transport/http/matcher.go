package http

import (
	"path"
	"strings"
)

// prefixPath is a precompiled prefix entry.
type prefixPath struct {
	prefix    string // raw prefix, e.g. "/api"
	prefixLen int
}

// PathMatcher matches request paths against a fixed set of rules.
type PathMatcher struct {
	exactPaths  map[string]struct{} // exact matches, e.g. "/health"
	prefixPaths []prefixPath        // prefix matches, e.g. "/api/**"
	contains    []string            // substring matches, e.g. "**/auth/login"
	patterns    []string            // glob patterns, e.g. "/api/*/users"
}

// NewPathMatcher creates a path matcher.
// Four rule forms are supported:
//   - exact: "/health" matches only "/health"
//   - prefix: "/api/**" matches "/api" and everything below it
//   - contains: "**/auth/login" matches any path containing "/auth/login",
//     regardless of how the backend is mounted
//   - glob: "/api/*/users" is matched with path.Match
//
// Glob syntax follows path.Match:
//   - '*' matches any sequence of non-'/' characters
//   - '?' matches any single non-'/' character
//   - '[abc]' matches any character in the set
//   - '[a-z]' matches any character in the range
func NewPathMatcher(paths []string) *PathMatcher {
	if len(paths) == 0 {
		return &PathMatcher{
			exactPaths: make(map[string]struct{}),
		}
	}

	pm := &PathMatcher{
		exactPaths:  make(map[string]struct{}, len(paths)),
		prefixPaths: make([]prefixPath, 0, len(paths)/2),
		patterns:    make([]string, 0, len(paths)/4),
	}
	for _, p := range paths {
		if fragment, ok := strings.CutPrefix(p, "**"); ok && fragment != "" {
			pm.contains = append(pm.contains, fragment)
		} else if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			pm.prefixPaths = append(pm.prefixPaths, prefixPath{
				prefix:    prefix,
				prefixLen: len(prefix),
			})
		} else if strings.ContainsAny(p, "*?[") {
			pm.patterns = append(pm.patterns, p)
		} else {
			pm.exactPaths[p] = struct{}{}
		}
	}
	return pm
}

// Match reports whether urlPath matches any rule.
func (pm *PathMatcher) Match(urlPath string) bool {
	if pm == nil {
		return false
	}

	// 1. Exact match, O(1) lookup.
	if _, ok := pm.exactPaths[urlPath]; ok {
		return true
	}

	pathLen := len(urlPath)

	// 2. Prefix match.
	for i := range pm.prefixPaths {
		pp := &pm.prefixPaths[i]
		if pathLen < pp.prefixLen {
			continue
		}
		if pathLen == pp.prefixLen {
			if urlPath == pp.prefix {
				return true
			}
			continue
		}
		// Check the separator first to skip most non-matches cheaply.
		if urlPath[pp.prefixLen] == '/' && strings.HasPrefix(urlPath, pp.prefix) {
			return true
		}
	}

	// 3. Substring match.
	for _, fragment := range pm.contains {
		if strings.Contains(urlPath, fragment) {
			return true
		}
	}

	// 4. Glob patterns, slowest, checked last.
	for i := range pm.patterns {
		if matched, _ := path.Match(pm.patterns[i], urlPath); matched {
			return true
		}
	}
	return false
}

// DefaultPublicPaths lists backend endpoints that never carry a bearer token
// and never trigger a refresh attempt on 401. The rules are substring matches
// so they hold no matter what base path the backend is mounted under.
func DefaultPublicPaths() []string {
	return []string{
		"**/auth/login",
		"**/auth/register",
		"**/auth/forgot-password",
		"**/auth/reset-password",
		"**/auth/refresh-token",
		"**/health",
	}
}
