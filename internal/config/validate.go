package config

import "strings"

func NormalizeUI(values UISettings) UISettings {
	values.Fields = strings.TrimSpace(values.Fields)
	values.Sort = strings.TrimSpace(values.Sort)
	return values
}
