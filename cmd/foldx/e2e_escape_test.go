//go:build e2e

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/phyten/foldx/internal/web"
)

func TestRenderはHTMLエスケープでXSSを防止する(t *testing.T) {
	t.Parallel()

	if !hasBrowser() {
		t.Skip("Chrome/Chromiumが見つからないためスキップします")
	}

	mux := http.NewServeMux()
	web.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// chromedp navigation can take some time in CI environments.
	ctx, cancel = context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	fixture := `({
		has_preview: true,
		items: [{
			kind: 'indent',
			lang: 'python',
			file: 'dir/<file>&.py',
			start: 3,
			end: 12,
			lines: 9,
			depth: 2,
			preview: 'def f():  # <img src=x onerror=alert(1)> & <>'
		}],
		errors: [{
			file: 'err<file>&',
			stage: 'read<stage>',
			message: 'failed <script>alert(1)</script>'
		}]
	})`

	var kind, lang, location, lines, depth, preview string
	var locationCellHTML, previewCellHTML string
	var nodeCount int

	err := chromedp.Run(ctx,
		chromedp.Navigate(srv.URL),
		chromedp.WaitVisible(`#out`, chromedp.ByID),
		chromedp.Evaluate(fmt.Sprintf(`document.getElementById('out').innerHTML = render(%s);`, fixture), nil),
		chromedp.Text(`#out tbody tr td:nth-child(1)`, &kind, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(2)`, &lang, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(3) code`, &location, chromedp.ByQuery),
		chromedp.InnerHTML(`#out tbody tr td:nth-child(3)`, &locationCellHTML, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(4)`, &lines, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(5)`, &depth, chromedp.ByQuery),
		chromedp.Text(`#out tbody tr td:nth-child(6) code`, &preview, chromedp.ByQuery),
		chromedp.InnerHTML(`#out tbody tr td:nth-child(6)`, &previewCellHTML, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelectorAll('#out img, #out script').length`, &nodeCount),
	)
	if err != nil {
		t.Fatalf("chromedpの操作に失敗しました: %v", err)
	}

	if kind != "indent" {
		t.Fatalf("種別が期待値と異なります: %q", kind)
	}
	if lang != "python" {
		t.Fatalf("言語が期待値と異なります: %q", lang)
	}
	if location != "dir/<file>&.py:3-12" {
		t.Fatalf("ロケーションが期待値と異なります: %q", location)
	}
	if !strings.Contains(locationCellHTML, "&lt;file&gt;&amp;") {
		t.Fatalf("ロケーションセルがエスケープされていません: %q", locationCellHTML)
	}
	if lines != "9" {
		t.Fatalf("行数が期待値と異なります: %q", lines)
	}
	if depth != "2" {
		t.Fatalf("深さバッジが期待値と異なります: %q", depth)
	}
	if !strings.Contains(preview, "<img src=x onerror=alert(1)>") || !strings.Contains(preview, "&") {
		t.Fatalf("プレビューのテキストが期待値と異なります: %q", preview)
	}
	if !strings.Contains(previewCellHTML, "&lt;img") || !strings.Contains(previewCellHTML, "&amp;") {
		t.Fatalf("プレビューセルがエスケープされていません: %q", previewCellHTML)
	}
	if nodeCount != 0 {
		t.Fatalf("危険なノードが挿入されています: %d", nodeCount)
	}
}

func hasBrowser() bool {
	candidates := []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
