package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"

	"github.com/phyten/foldx/internal/engine"
	"github.com/phyten/foldx/internal/engine/opts"
	"github.com/phyten/foldx/internal/progress"
	"github.com/phyten/foldx/internal/web"
)

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var port int
	fs.IntVar(&port, "p", 8080, "port")
	fs.IntVar(&port, "port", 8080, "port")
	repo := fs.String("repo", ".", "repo root")
	open := fs.Bool("open", false, "open the UI in the default browser")
	_ = fs.Parse(args)

	mux := http.NewServeMux()
	web.Register(mux)
	mux.HandleFunc("/api/scan", apiScanHandler(*repo))
	mux.HandleFunc("/api/scan/stream", apiScanStreamHandler(*repo))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("foldx serve listening on %s (repo=%s)", addr, mustAbs(*repo))
	if *open {
		go func() {
			_ = browser.OpenURL(fmt.Sprintf("http://localhost:%d/", port))
		}()
	}
	log.Fatal(http.ListenAndServe(addr, mux))
}

// scanOptionsFromQuery はクエリ文字列を検証済みの実行オプションへ変換する。
// repo と progress はクエリで上書きさせない。
func scanOptionsFromQuery(repo string, q url.Values) (engine.Options, error) {
	def := opts.Defaults(repo)
	o, err := opts.ApplyWebQueryToOptions(def, q)
	if err != nil {
		return o, err
	}
	o.RepoDir = repo
	o.Progress = false
	if err := opts.NormalizeAndValidate(&o); err != nil {
		return o, err
	}
	return o, nil
}

func apiScanHandler(repo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := scanOptionsFromQuery(repo, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := engine.Run(o)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
			spec, err := ParseSortSpec(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ApplySort(res.Items, spec)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		// プレビューはクライアント側でエスケープするので素の文字列を返す
		enc.SetEscapeHTML(false)
		_ = enc.Encode(res)
	}
}

// apiScanStreamHandler は走査の進捗と結果を SSE で配信する。
// イベントは progress / result / error の 3 種類。
func apiScanStreamHandler(repo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := scanOptionsFromQuery(repo, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		// ワーカーからの Publish をブロックさせないためバッファ付き。
		// あふれた分のスナップショットは落として構わない。
		snapshots := make(chan progress.Snapshot, 64)
		o.ProgressObserver = progress.ObserverFunc(func(s progress.Snapshot) {
			select {
			case snapshots <- s:
			default:
			}
		})

		type runOutcome struct {
			res *engine.Result
			err error
		}
		done := make(chan runOutcome, 1)
		go func() {
			res, err := engine.Run(o)
			done <- runOutcome{res: res, err: err}
		}()

		writeEvent := func(event string, payload any) bool {
			data, err := marshalNoEscape(payload)
			if err != nil {
				return false
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
				return false
			}
			flusher.Flush()
			return true
		}

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-snapshots:
				if !writeEvent("progress", s) {
					return
				}
			case out := <-done:
				for {
					select {
					case s := <-snapshots:
						if !writeEvent("progress", s) {
							return
						}
						continue
					default:
					}
					break
				}
				if out.err != nil {
					writeEvent("error", map[string]string{"message": out.err.Error()})
					return
				}
				writeEvent("result", out.res)
				return
			}
		}
	}
}

// marshalNoEscape は SSE の data 行に載せる 1 行 JSON を返す。
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func mustAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
