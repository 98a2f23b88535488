package detect

import "github.com/phyten/foldx/internal/folding"

// Profile は言語ごとの折りたたみ設定です。OffSide は空行を直後のブロックに
// 帰属させるインデント規則、Markers はコメント構文に応じた region マーカーの
// ペアを表します。
type Profile struct {
	OffSide bool
	Markers *folding.Markers
}

// マーカーはコメント構文の系統ごとに共有する。エディタの言語設定で
// 使われている region 規約に合わせている。
var (
	markersSlash = folding.MustMarkers(`^\s*//\s*#?region\b`, `^\s*//\s*#?endregion\b`)
	markersHash  = folding.MustMarkers(`^\s*#\s*region\b`, `^\s*#\s*endregion\b`)
	markersSharp = folding.MustMarkers(`(?i)^\s*#region\b`, `(?i)^\s*#endregion\b`)
	markersVB    = folding.MustMarkers(`(?i)^\s*#region\b`, `(?i)^\s*#end\s+region\b`)
	markersCSS   = folding.MustMarkers(`^\s*/\*\s*#region\b`, `^\s*/\*\s*#endregion\b`)
	markersHTML  = folding.MustMarkers(`^\s*<!--\s*#?region\b`, `^\s*<!--\s*#?endregion\b`)
	markersDash  = folding.MustMarkers(`^\s*--\s*#?region\b`, `^\s*--\s*#?endregion\b`)
	markersBatch = folding.MustMarkers(`(?i)^\s*(::|rem)\s*#region\b`, `(?i)^\s*(::|rem)\s*#endregion\b`)
)

var (
	profileSlash        = Profile{Markers: markersSlash}
	profileHash         = Profile{Markers: markersHash}
	profileHashOffSide  = Profile{OffSide: true, Markers: markersHash}
	profileSlashOffSide = Profile{OffSide: true, Markers: markersSlash}
	profilePlain        = Profile{}
	profileOffSide      = Profile{OffSide: true}
)

var languageProfiles = map[string]Profile{
	"c":               profileSlash,
	"cpp":             profileSlash,
	"objective-c":     profileSlash,
	"objective-cpp":   profileSlash,
	"go":              profileSlash,
	"javascript":      profileSlash,
	"javascriptreact": profileSlash,
	"typescript":      profileSlash,
	"typescriptreact": profileSlash,
	"java":            profileSlash,
	"kotlin":          profileSlash,
	"scala":           profileSlash,
	"groovy":          profileSlash,
	"gradle":          profileSlash,
	"swift":           profileSlash,
	"rust":            profileSlash,
	"dart":            profileSlash,
	"php":             profileSlash,
	"proto":           profileSlash,
	"cue":             profileSlash,
	"zig":             profileSlash,
	"verilog":         profileSlash,
	"systemverilog":   profileSlash,
	"stylus":          profileSlash,
	"less":            profileSlash,
	"scss":            profileSlash,

	"csharp":     {Markers: markersSharp},
	"powershell": {Markers: markersSharp},
	"vb":         {Markers: markersVB},
	"fsharp":     {OffSide: true, Markers: markersSharp},

	"python":     profileHashOffSide,
	"cython":     profileHashOffSide,
	"yaml":       profileHashOffSide,
	"nim":        profileHashOffSide,
	"ruby":       profileHash,
	"shell":      profileHash,
	"fish":       profileHash,
	"perl":       profileHash,
	"r":          profileHash,
	"awk":        profileHash,
	"toml":       profileHash,
	"make":       profileHash,
	"cmake":      profileHash,
	"ninja":      profileHash,
	"dockerfile": profileHash,
	"elixir":     profileHash,
	"julia":      profileHash,
	"rego":       profileHash,
	"graphql":    profileHash,
	"hcl":        profileHash,
	"terraform":  profileHash,
	"starlark":   profileHash,

	"coffeescript": profileHashOffSide,
	"sass":         profileSlashOffSide,
	"pug":          profileSlashOffSide,
	"markdown":     {OffSide: true, Markers: markersHTML},

	"sql":     {Markers: markersDash},
	"lua":     {Markers: markersDash},
	"haskell": {OffSide: true, Markers: markersDash},
	"elm":     {OffSide: true, Markers: markersDash},
	"ada":     {Markers: markersDash},

	"css": {Markers: markersCSS},

	"html":   {Markers: markersHTML},
	"vue":    {Markers: markersHTML},
	"svelte": {Markers: markersHTML},
	"xml":    {Markers: markersHTML},

	"batch": {Markers: markersBatch},

	"erlang":      profilePlain,
	"clojure":     profilePlain,
	"common-lisp": profilePlain,
	"scheme":      profilePlain,
	"racket":      profilePlain,
	"ocaml":       profilePlain,
	"pascal":      profilePlain,
	"json":        profilePlain,
	"ini":         profilePlain,
	"properties":  profilePlain,
	"dotenv":      profilePlain,
	"latex":       profilePlain,
	"gotemplate":  profilePlain,
	"jinja":       profilePlain,
	"twig":        profilePlain,
	"handlebars":  profilePlain,
	"django":      profilePlain,
	"liquid":      profilePlain,
	"ejs":         profilePlain,
	"erb":         profilePlain,
	"text":        profilePlain,

	"rst":  profileOffSide,
	"haml": profileOffSide,
	"slim": profileOffSide,
}

// ProfileFor は正規化済みの言語名に対する折りたたみ設定を返します。
// 未知の言語には Generic() を使ってください。
func ProfileFor(lang string) (Profile, bool) {
	p, ok := languageProfiles[NormalizeLangName(lang)]
	return p, ok
}

// Generic は言語が特定できないファイル向けの設定です。
// インデントのみで折りたたみ、マーカーは使いません。
func Generic() Profile { return profilePlain }

// KnownLanguage は折りたたみ設定を持つ言語かどうかを返します。
func KnownLanguage(name string) bool {
	if name == "" {
		return false
	}
	_, ok := languageProfiles[NormalizeLangName(name)]
	return ok
}
