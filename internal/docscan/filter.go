// Package docscan discovers syntax-tree documents to check and
// decides which Ruby sources the rule applies to.
package docscan

import (
	"path/filepath"
	"strings"

	"github.com/unbound-force/stubmock/internal/config"
)

// Filter returns true if the Ruby source at rel should be checked,
// based on the include/exclude patterns in cfg.
//
// Logic:
//  1. If include patterns are set, the file must match at least one
//     include pattern.
//  2. If the file matches any exclude pattern, it is excluded.
//  3. Otherwise, the file is included.
func Filter(rel string, cfg *config.Config) bool {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	rel = filepath.ToSlash(rel)

	if len(cfg.Include) > 0 {
		matched := false
		for _, pattern := range cfg.Include {
			if matchGlob(pattern, rel) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return !Excluded(rel, cfg)
}

// Excluded returns true if rel matches any exclude pattern in cfg.
func Excluded(rel string, cfg *config.Config) bool {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range cfg.Exclude {
		if matchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern. It supports simple
// glob syntax (filepath.Match), "dir/**" suffix patterns and "**/"
// prefix patterns.
func matchGlob(pattern, rel string) bool {
	// "**/foo_spec.rb" matches the remaining pattern against every
	// trailing run of path segments.
	if strings.HasPrefix(pattern, "**/") {
		rest := strings.TrimPrefix(pattern, "**/")
		segments := strings.Split(rel, "/")
		for i := range segments {
			if matchGlob(rest, strings.Join(segments[i:], "/")) {
				return true
			}
		}
		return false
	}

	// "vendor/**" matches any file under the "vendor/" directory, at
	// any depth of rel.
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") ||
			strings.Contains(rel, "/"+prefix+"/") {
			return true
		}
		return false
	}

	matched, err := filepath.Match(pattern, rel)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without path separators also match the base name
	// ("*_spec.rb" matches "spec/models/user_spec.rb").
	if !strings.Contains(pattern, "/") {
		matched, err = filepath.Match(pattern, filepath.Base(rel))
		if err != nil {
			return false
		}
		return matched
	}

	return false
}
