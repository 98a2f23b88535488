package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/foldx/internal/engine/opts"
)

func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	setString := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		value := raw
		*target = &value
	}
	setList := func(target **[]string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		list := engineopts.SplitMulti([]string{raw})
		if len(list) == 0 {
			empty := make([]string, 0)
			*target = &empty
			return
		}
		copyVals := make([]string, len(list))
		copy(copyVals, list)
		*target = &copyVals
	}
	setBool := func(target **bool, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}
	setInt := func(target **int, key string, min, max int) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		value := v
		*target = &value
	}
	setModeOff := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if v {
			mode := "off"
			*target = &mode
		}
	}

	setString(&cfg.Engine.Type, "FOLDX_TYPE")
	setString(&cfg.Engine.OffSide, "FOLDX_OFFSIDE")
	setString(&cfg.Engine.Markers, "FOLDX_MARKERS")
	setModeOff(&cfg.Engine.OffSide, "FOLDX_NO_OFFSIDE")
	setModeOff(&cfg.Engine.Markers, "FOLDX_NO_MARKERS")
	setString(&cfg.Engine.MarkerStart, "FOLDX_MARKER_START")
	setString(&cfg.Engine.MarkerEnd, "FOLDX_MARKER_END")
	setList(&cfg.Engine.Langs, "FOLDX_LANG")
	setBool(&cfg.Engine.AllFiles, "FOLDX_ALL")
	setList(&cfg.Engine.Paths, "FOLDX_PATH")
	setList(&cfg.Engine.Excludes, "FOLDX_EXCLUDE")
	setList(&cfg.Engine.PathRegex, "FOLDX_PATH_REGEX")
	setBool(&cfg.Engine.ExcludeTypical, "FOLDX_EXCLUDE_TYPICAL")
	setString(&cfg.Engine.Output, "FOLDX_OUTPUT")
	setString(&cfg.Engine.Color, "FOLDX_COLOR")
	setInt(&cfg.Engine.MinSpan, "FOLDX_MIN_SPAN", 0, math.MaxInt)
	setInt(&cfg.Engine.TabSize, "FOLDX_TAB_SIZE", 0, math.MaxInt)
	setInt(&cfg.Engine.MaxDepth, "FOLDX_MAX_DEPTH", 0, math.MaxInt)
	setBool(&cfg.Engine.WithPreview, "FOLDX_WITH_PREVIEW")
	setInt(&cfg.Engine.TruncPreview, "FOLDX_TRUNCATE", 0, math.MaxInt)
	setInt(&cfg.Engine.MaxFileBytes, "FOLDX_MAX_FILE_BYTES", 0, math.MaxInt)
	// Allow large values here and rely on NormalizeAndValidate to enforce the
	// canonical upper bound so every input path shares the same error message.
	setInt(&cfg.Engine.Jobs, "FOLDX_JOBS", 0, math.MaxInt)
	setString(&cfg.Engine.Repo, "FOLDX_REPO")
	setBool(&cfg.Engine.NoGit, "FOLDX_NO_GIT")

	setBool(&cfg.UI.Summary, "FOLDX_SUMMARY")
	setString(&cfg.UI.Fields, "FOLDX_FIELDS")
	setString(&cfg.UI.Sort, "FOLDX_SORT")

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
