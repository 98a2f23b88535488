package opts

import (
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/foldx/internal/detect"
	"github.com/phyten/foldx/internal/engine"
	"github.com/phyten/foldx/internal/folding"
)

const (
	maxJobs = 64

	// defaultMaxFileBytes is the scan guard for oversized files (10MiB).
	defaultMaxFileBytes = 10 << 20
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// Defaults returns the shared baseline options for both CLI and Web inputs.
func Defaults(repoDir string) engine.Options {
	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	return engine.Options{
		Type:         "both",
		OffSide:      "auto",
		Markers:      "auto",
		MinSpan:      1,
		TabSize:      4,
		MaxDepth:     0,
		WithPreview:  false,
		TruncPreview: 0,
		Jobs:         jobs,
		RepoDir:      repoDir,
		Progress:     false,
		Langs:        nil,
		AllFiles:     false,
		MaxFileBytes: defaultMaxFileBytes,
	}
}

// ApplyWebQueryToOptions copies recognised values from the query string into the
// provided options. Validation happens separately via NormalizeAndValidate.
func ApplyWebQueryToOptions(def engine.Options, q url.Values) (engine.Options, error) {
	out := def

	if raw, ok := lastLiteralValue(q["type"]); ok {
		out.Type = raw
	}
	if raw, ok := lastLiteralValue(q["offside"]); ok {
		out.OffSide = raw
	}
	if raw, ok := lastLiteralValue(q["markers"]); ok {
		out.Markers = raw
	}
	if raw, ok := lastRawValue(q["marker_start"]); ok {
		out.MarkerStart = raw
	}
	if raw, ok := lastRawValue(q["marker_end"]); ok {
		out.MarkerEnd = raw
	}
	if raw, ok := lastLiteralValue(q["all"]); ok {
		v, err := ParseBool(raw, "all")
		if err != nil {
			return out, err
		}
		out.AllFiles = v
	}
	if raw, ok := lastLiteralValue(q["with_preview"]); ok {
		v, err := ParseBool(raw, "with_preview")
		if err != nil {
			return out, err
		}
		out.WithPreview = v
	}
	if raw, ok := lastLiteralValue(q["truncate"]); ok {
		n, err := parseInt(raw, "truncate")
		if err != nil {
			return out, err
		}
		out.TruncPreview = n
	}
	if raw, ok := lastLiteralValue(q["min_span"]); ok {
		n, err := parseInt(raw, "min_span")
		if err != nil {
			return out, err
		}
		out.MinSpan = n
	}
	if raw, ok := lastLiteralValue(q["tab_size"]); ok {
		n, err := parseInt(raw, "tab_size")
		if err != nil {
			return out, err
		}
		out.TabSize = n
	}
	if raw, ok := lastLiteralValue(q["max_depth"]); ok {
		n, err := parseInt(raw, "max_depth")
		if err != nil {
			return out, err
		}
		out.MaxDepth = n
	}
	if raw, ok := lastLiteralValue(q["jobs"]); ok {
		n, err := ParseIntInRange(raw, "jobs", 1, maxJobs)
		if err != nil {
			return out, err
		}
		out.Jobs = n
	}
	if raw, ok := lastLiteralValue(q["max_file_bytes"]); ok {
		n, err := parseInt(raw, "max_file_bytes")
		if err != nil {
			return out, err
		}
		out.MaxFileBytes = n
	}
	if raw, ok := lastLiteralValue(q["exclude_typical"]); ok {
		v, err := ParseBool(raw, "exclude_typical")
		if err != nil {
			return out, err
		}
		out.ExcludeTypical = v
	}
	if raw, ok := lastLiteralValue(q["no_git"]); ok {
		v, err := ParseBool(raw, "no_git")
		if err != nil {
			return out, err
		}
		out.NoGit = v
	}
	if raw, ok := lastLiteralValue(q["progress"]); ok {
		v, err := ParseBool(raw, "progress")
		if err != nil {
			return out, err
		}
		out.Progress = v
	}
	if raw := q["lang"]; len(raw) > 0 {
		out.Langs = SplitMulti(raw)
	}
	if raw := q["path"]; len(raw) > 0 {
		out.Paths = SplitMulti(raw)
	}
	if raw := q["exclude"]; len(raw) > 0 {
		out.Excludes = SplitMulti(raw)
	}
	if raw := q["path_regex"]; len(raw) > 0 {
		out.PathRegex = SplitMulti(raw)
	}
	if raw, ok := lastRawValue(q["repo"]); ok {
		out.RepoDir = raw
	}

	return out, nil
}

// NormalizeAndValidate ensures the options are canonical and within the allowed ranges.
func NormalizeAndValidate(o *engine.Options) error {
	o.Type = strings.ToLower(strings.TrimSpace(o.Type))
	switch o.Type {
	case "", "both":
		o.Type = "both"
	case "indent", "marker":
	default:
		return fmt.Errorf("invalid --type: %s", o.Type)
	}

	o.OffSide = strings.ToLower(strings.TrimSpace(o.OffSide))
	switch o.OffSide {
	case "", "auto":
		o.OffSide = "auto"
	case "on", "off":
	default:
		return fmt.Errorf("invalid --offside: %s", o.OffSide)
	}

	o.Markers = strings.ToLower(strings.TrimSpace(o.Markers))
	switch o.Markers {
	case "", "auto":
		o.Markers = "auto"
	case "off":
	default:
		return fmt.Errorf("invalid --markers: %s", o.Markers)
	}

	o.MarkerStart = strings.TrimSpace(o.MarkerStart)
	o.MarkerEnd = strings.TrimSpace(o.MarkerEnd)
	switch {
	case o.MarkerStart == "" && o.MarkerEnd == "":
		o.MarkersCompiled = nil
	case o.MarkerStart != "" && o.MarkerEnd != "":
		m, err := folding.NewMarkers(o.MarkerStart, o.MarkerEnd)
		if err != nil {
			return err
		}
		o.MarkersCompiled = m
	default:
		return fmt.Errorf("marker start and end patterns must be set together")
	}

	if o.Jobs < 1 || o.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", maxJobs)
	}

	if o.MinSpan < 1 {
		return fmt.Errorf("min_span must be >= 1")
	}
	if o.TabSize < 1 {
		return fmt.Errorf("tab_size must be >= 1")
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if o.TruncPreview < 0 {
		return fmt.Errorf("truncate must be >= 0")
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}

	if o.WithPreview && o.TruncPreview == 0 {
		o.TruncPreview = 120
	}

	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}

	o.Langs = trimSlice(o.Langs)
	if len(o.Langs) > 0 {
		o.Langs = detect.CanonicalLangs(o.Langs)
	}
	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.PathRegex = trimSlice(o.PathRegex)

	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return fmt.Errorf("invalid --path-regex: %w", err)
	}
	o.PathRegexCompiled = compiled

	return nil
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// NormalizeOutput validates and lower-cases the CLI/Web output format value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "table", "tsv", "json", "csv", "ndjson", "md":
		return v, nil
	case "markdown":
		return "md", nil
	case "jsonl":
		return "ndjson", nil
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// SplitMulti turns repeated query parameters (and comma-separated values) into a flat slice.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			part := strings.TrimSpace(piece)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

func lastLiteralValue(vals []string) (string, bool) {
	flat := SplitMulti(vals)
	if len(flat) == 0 {
		return "", false
	}
	return flat[len(flat)-1], true
}

func lastRawValue(vals []string) (string, bool) {
	for i := len(vals) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(vals[i])
		if trimmed == "" {
			continue
		}
		return trimmed, true
	}
	return "", false
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
