package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned for empty paths, empty segments, and segments
// containing one of . # $ [ ].
var ErrInvalidPath = errors.New("invalid path")

const forbidden = ".#$[]"

// CleanPath validates p and returns it without leading or trailing slashes.
func CleanPath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return "", fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		}
		if strings.ContainsAny(seg, forbidden) {
			return "", fmt.Errorf("%w: segment %q contains one of %q", ErrInvalidPath, seg, forbidden)
		}
	}
	return p, nil
}

// Join joins path segments.
func Join(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}

// Parent returns the parent of p, or "" for a top-level key.
func Parent(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Base returns the last segment of p.
func Base(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ancestors returns the proper ancestors of p, nearest last.
func ancestors(p string) []string {
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		out = append(out, strings.Join(segs[:i], "/"))
	}
	return out
}

// descendantPrefix returns the prefix shared by every strict descendant of
// p. The root's prefix is empty.
func descendantPrefix(p string) string {
	if p == "" {
		return ""
	}
	return p + "/"
}

// underPrefix matches rows whose path starts with the bound prefix, which is
// passed twice. Unlike LIKE it compares case-sensitively and treats % and _
// literally.
const underPrefix = `substr(path, 1, length(?)) = ?`

// related reports whether a and b are the same path or one contains the
// other. The empty path is related to everything.
func related(a, b string) bool {
	if a == "" || b == "" || a == b {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}
