package engine

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phyten/foldx/internal/execx"
)

// listFiles は走査対象のファイル一覧をリポジトリ相対パス (スラッシュ区切り) で返します。
// git 管理下では `git ls-files` を、git が使えない場所では filepath.WalkDir を使います。
func listFiles(opts Options) ([]string, error) {
	if !opts.NoGit {
		files, ok, err := gitListFiles(context.Background(), opts.Runner, opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
		if err != nil {
			return nil, err
		}
		if ok {
			return files, nil
		}
	}
	return walkFiles(opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
}

// gitListFiles は ok=false を返すことで「git が見つからない」「作業ツリーの外」
// の両方をフォールバック扱いにします。それ以外の失敗はエラーです。
func gitListFiles(ctx context.Context, runner execx.Runner, repo string, includes, excludes []string, typical bool) ([]string, bool, error) {
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	args := []string{"ls-files", "-z"}
	args = append(args, buildListPathspecs(includes, excludes, typical)...)
	stdout, stderr, err := runner.Run(ctx, repo, "git", args...)
	if err != nil {
		if execx.IsNotFound(err) {
			return nil, false, nil
		}
		if bytes.Contains(stderr, []byte("not a git repository")) {
			return nil, false, nil
		}
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, true, fmt.Errorf("git ls-files: %s: %w", msg, err)
		}
		return nil, true, fmt.Errorf("git ls-files: %w", err)
	}
	if len(stdout) == 0 {
		return nil, true, nil
	}
	parts := bytes.Split(stdout, []byte{0})
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		paths = append(paths, filepath.ToSlash(string(p)))
	}
	return paths, true, nil
}

func walkFiles(root string, includes, excludes []string, typical bool) ([]string, error) {
	exGlobs := make([]string, 0, len(excludes)+len(typicalExcludePatterns))
	if typical {
		for _, p := range typicalExcludePatterns {
			exGlobs = append(exGlobs, stripPathspecMagic(p))
		}
	}
	for _, p := range excludes {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		exGlobs = append(exGlobs, stripPathspecMagic(filepath.ToSlash(trimmed)))
	}

	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesInclude(rel, includes) {
			return nil
		}
		for _, g := range exGlobs {
			if matchGlob(g, rel) {
				return nil
			}
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func matchesInclude(rel string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}
	for _, raw := range includes {
		p := stripPathspecMagic(strings.TrimSpace(filepath.ToSlash(raw)))
		if p == "" || p == "." {
			return true
		}
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}

// matchGlob は非 git フォールバック用に git pathspec を近似します。
// "dir/**" は dir 以下すべて、スラッシュを含まないパターンはベース名にも
// マッチし、それ以外は path.Match に委ねます。
func matchGlob(pattern, rel string) bool {
	if strings.HasSuffix(pattern, "/**") {
		base := strings.TrimSuffix(pattern, "/**")
		return rel == base || strings.HasPrefix(rel, base+"/")
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return rel == pattern || strings.HasPrefix(rel, pattern+"/")
	}
	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

func stripPathspecMagic(p string) string {
	for _, prefix := range []string{":(glob,exclude)", ":(exclude)", ":(glob)", ":!"} {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return p
}
