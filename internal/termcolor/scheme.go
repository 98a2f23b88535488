package termcolor

import (
	"strconv"
	"strings"
)

// Scheme は端末の背景が明色系か暗色系かを表します。
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

// DetectScheme は COLORFGBG の背景色インデックス、なければ TERM 名から
// 配色を推定します。判断材料が無いときは暗色系とみなします。
func DetectScheme(env map[string]string) Scheme {
	if env == nil {
		return SchemeDark
	}
	raw := strings.TrimSpace(env["COLORFGBG"])
	if raw != "" {
		parts := strings.Split(raw, ";")
		bgRaw := strings.TrimSpace(parts[len(parts)-1])
		if bgRaw == "" && len(parts) >= 2 {
			bgRaw = strings.TrimSpace(parts[len(parts)-2])
		}
		if bg, err := strconv.Atoi(bgRaw); err == nil {
			if bg >= 7 {
				return SchemeLight
			}
			if bg >= 0 {
				return SchemeDark
			}
		}
	}
	termName := strings.ToLower(strings.TrimSpace(env["TERM"]))
	if strings.Contains(termName, "light") {
		return SchemeLight
	}
	return SchemeDark
}
