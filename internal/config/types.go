package config

import (
	"strings"

	"github.com/phyten/foldx/internal/engine"
)

type EngineConfig struct {
	Type           *string   `yaml:"type" toml:"type" json:"type"`
	OffSide        *string   `yaml:"offside" toml:"offside" json:"offside"`
	Markers        *string   `yaml:"markers" toml:"markers" json:"markers"`
	MarkerStart    *string   `yaml:"marker_start" toml:"marker_start" json:"marker_start"`
	MarkerEnd      *string   `yaml:"marker_end" toml:"marker_end" json:"marker_end"`
	Langs          *[]string `yaml:"lang" toml:"lang" json:"lang"`
	AllFiles       *bool     `yaml:"all" toml:"all" json:"all"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	MinSpan        *int      `yaml:"min_span" toml:"min_span" json:"min_span"`
	TabSize        *int      `yaml:"tab_size" toml:"tab_size" json:"tab_size"`
	MaxDepth       *int      `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	WithPreview    *bool     `yaml:"with_preview" toml:"with_preview" json:"with_preview"`
	TruncPreview   *int      `yaml:"truncate" toml:"truncate" json:"truncate"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	NoGit          *bool     `yaml:"no_git" toml:"no_git" json:"no_git"`
}

type UIConfig struct {
	Summary *bool   `yaml:"summary" toml:"summary" json:"summary"`
	Fields  *string `yaml:"fields" toml:"fields" json:"fields"`
	Sort    *string `yaml:"sort" toml:"sort" json:"sort"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

type EngineSettings struct {
	Type           string
	OffSide        string
	Markers        string
	MarkerStart    string
	MarkerEnd      string
	Langs          []string
	AllFiles       bool
	Paths          []string
	Excludes       []string
	PathRegex      []string
	ExcludeTypical bool
	MinSpan        int
	TabSize        int
	MaxDepth       int
	WithPreview    bool
	TruncPreview   int
	Jobs           int
	Repo           string
	Output         string
	Color          string
	MaxFileBytes   int
	NoGit          bool
}

type UISettings struct {
	Summary bool
	Fields  string
	Sort    string
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Type:           opts.Type,
		OffSide:        opts.OffSide,
		Markers:        opts.Markers,
		MarkerStart:    opts.MarkerStart,
		MarkerEnd:      opts.MarkerEnd,
		Langs:          cloneStrings(opts.Langs),
		AllFiles:       opts.AllFiles,
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		PathRegex:      cloneStrings(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		MinSpan:        opts.MinSpan,
		TabSize:        opts.TabSize,
		MaxDepth:       opts.MaxDepth,
		WithPreview:    opts.WithPreview,
		TruncPreview:   opts.TruncPreview,
		Jobs:           opts.Jobs,
		Repo:           opts.RepoDir,
		Output:         "table",
		Color:          "auto",
		MaxFileBytes:   opts.MaxFileBytes,
		NoGit:          opts.NoGit,
	}
}

func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Type = s.Type
	opts.OffSide = s.OffSide
	opts.Markers = s.Markers
	opts.MarkerStart = s.MarkerStart
	opts.MarkerEnd = s.MarkerEnd
	opts.Langs = cloneStrings(s.Langs)
	opts.AllFiles = s.AllFiles
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.PathRegex = cloneStrings(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.MinSpan = s.MinSpan
	opts.TabSize = s.TabSize
	opts.MaxDepth = s.MaxDepth
	opts.WithPreview = s.WithPreview
	opts.TruncPreview = s.TruncPreview
	opts.Jobs = s.Jobs
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	opts.MaxFileBytes = s.MaxFileBytes
	opts.NoGit = s.NoGit
}

func DefaultUISettings() UISettings {
	return UISettings{
		Summary: false,
		Fields:  "",
		Sort:    "",
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
