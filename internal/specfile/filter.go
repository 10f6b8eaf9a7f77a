package specfile

import (
	"path/filepath"
	"strings"
)

// Filter filters spec files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps files whose base name matches pattern.
// Supports globs like "*petstore*.yaml"; a pattern without wildcards is a substring match.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		name := filepath.Base(file)

		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			filtered = append(filtered, file)
			continue
		}

		if strings.ContainsAny(pattern, "*?") {
			if matchParts(name, pattern) {
				filtered = append(filtered, file)
			}
			continue
		}

		if strings.Contains(name, pattern) {
			filtered = append(filtered, file)
		}
	}

	return filtered
}

// matchParts matches "*a*b*" style patterns by checking every literal part
// appears in name, in order.
func matchParts(name, pattern string) bool {
	parts := strings.FieldsFunc(pattern, func(r rune) bool { return r == '*' || r == '?' })
	if len(parts) == 0 {
		return false
	}
	rest := name
	for _, part := range parts {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return true
}
