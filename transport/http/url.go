package http

import (
	"net/url"
	"path"
	"strings"
)

// Join joins path segments, skipping empty ones.
func Join(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}

	allPaths := make([]string, 0, len(segments)+1)
	if base != "" {
		allPaths = append(allPaths, base)
	}

	for _, segment := range segments {
		if segment != "" {
			allPaths = append(allPaths, segment)
		}
	}

	return path.Join(allPaths...)
}

// JoinURL joins endpoint segments onto a base URL. Segments are spliced
// textually so percent-escapes inside them survive; a base that does not
// parse as an absolute URL is treated as a plain path.
func JoinURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" {
		return Join(base, segments...)
	}

	suffix := Join("", segments...)
	if suffix == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(suffix, "/")
}
