package engine

import (
	"path/filepath"
	"regexp"
	"strings"
)

var typicalExcludePatterns = []string{
	":(glob,exclude)vendor/**",
	":(glob,exclude)node_modules/**",
	":(glob,exclude)dist/**",
	":(glob,exclude)build/**",
	":(glob,exclude)target/**",
	":(glob,exclude)*.min.*",
}

// buildListPathspecs builds the pathspec list passed to `git ls-files`.
func buildListPathspecs(includes, excludes []string, typical bool) []string {
	normalizedIncludes := make([]string, 0, len(includes))
	for _, raw := range includes {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		normalizedIncludes = append(normalizedIncludes, filepath.ToSlash(trimmed))
	}

	out := make([]string, 0, len(normalizedIncludes)+len(excludes)+len(typicalExcludePatterns)+1)
	if len(normalizedIncludes) == 0 {
		out = append(out, ".")
	} else {
		out = append(out, normalizedIncludes...)
	}

	if typical {
		out = append(out, typicalExcludePatterns...)
	}

	for _, raw := range excludes {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		trimmed = filepath.ToSlash(trimmed)
		if strings.HasPrefix(trimmed, ":!") || strings.HasPrefix(trimmed, ":(exclude)") || strings.HasPrefix(trimmed, ":(glob,exclude)") {
			out = append(out, trimmed)
			continue
		}
		out = append(out, ":(glob,exclude)"+trimmed)
	}
	return out
}

// CompilePathRegex は --path-regex のパターン群をコンパイルします。空要素は無視されます。
func CompilePathRegex(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rx, err := regexp.Compile(trimmed)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rx)
	}
	return compiled, nil
}

func filterByPathRegex(paths []string, rx []*regexp.Regexp) []string {
	if len(rx) == 0 {
		return paths
	}
	out := paths[:0]
	for _, p := range paths {
		if matchAny(rx, p) {
			out = append(out, p)
		}
	}
	return out
}

func matchAny(rx []*regexp.Regexp, text string) bool {
	if len(rx) == 0 {
		return true
	}
	for _, r := range rx {
		if r.MatchString(text) {
			return true
		}
	}
	return false
}
