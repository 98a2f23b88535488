package config

import "strings"

func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	for _, layer := range layers {
		out.Type = ResolveString(out.Type, layer.Type)
		out.OffSide = ResolveString(out.OffSide, layer.OffSide)
		out.Markers = ResolveString(out.Markers, layer.Markers)
		out.MarkerStart = ResolveString(out.MarkerStart, layer.MarkerStart)
		out.MarkerEnd = ResolveString(out.MarkerEnd, layer.MarkerEnd)
		out.Langs = ResolveStrings(out.Langs, layer.Langs)
		out.AllFiles = ResolveBool(out.AllFiles, layer.AllFiles)
		out.Paths = ResolveStrings(out.Paths, layer.Paths)
		out.Excludes = ResolveStrings(out.Excludes, layer.Excludes)
		out.PathRegex = ResolveStrings(out.PathRegex, layer.PathRegex)
		out.ExcludeTypical = ResolveBool(out.ExcludeTypical, layer.ExcludeTypical)
		out.MinSpan = ResolveInt(out.MinSpan, layer.MinSpan)
		out.TabSize = ResolveInt(out.TabSize, layer.TabSize)
		out.MaxDepth = ResolveInt(out.MaxDepth, layer.MaxDepth)
		out.WithPreview = ResolveBool(out.WithPreview, layer.WithPreview)
		out.TruncPreview = ResolveInt(out.TruncPreview, layer.TruncPreview)
		out.Jobs = ResolveInt(out.Jobs, layer.Jobs)
		out.Repo = ResolveAndTrim(out.Repo, layer.Repo)
		out.Output = ResolveAndTrim(out.Output, layer.Output)
		out.Color = ResolveAndTrim(out.Color, layer.Color)
		out.MaxFileBytes = ResolveInt(out.MaxFileBytes, layer.MaxFileBytes)
		out.NoGit = ResolveBool(out.NoGit, layer.NoGit)
	}
	if strings.TrimSpace(out.Output) == "" {
		out.Output = "table"
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = "auto"
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Summary = ResolveBool(out.Summary, layer.Summary)
		out.Fields = ResolveAndTrim(out.Fields, layer.Fields)
		out.Sort = ResolveAndTrim(out.Sort, layer.Sort)
	}
	return out
}
