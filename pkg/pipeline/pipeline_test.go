package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/observability"
)

const tree = `{
  "ecosystem": "maven",
  "group": "com.acme", "name": "app", "version": "1.0",
  "children": [
    {"group": "com.acme", "name": "lib", "version": "1.0",
     "children": [{"group": "com.acme", "name": "core", "version": "1.0"}]},
    {"ref": "com.acme:core:1.0"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"pdf", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Path: "deps.json", Formats: []string{"dot", "json", "dot"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Configuration != deps.DefaultConfiguration || opts.NamespaceBase == "" || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if strings.Join(opts.Formats, ",") != "dot,json" {
		t.Errorf("Formats = %v, want dot,json", opts.Formats)
	}

	empty := Options{Path: "deps.json"}
	_ = empty.ValidateAndSetDefaults()
	if len(empty.Formats) != 1 || empty.Formats[0] != FormatJSON {
		t.Errorf("default Formats = %v", empty.Formats)
	}

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"no path", Options{}, errs.ErrCodeInvalidInput},
		{"control char", Options{Path: "a\x00b"}, errs.ErrCodeInvalidPath},
		{"bad namespace", Options{Path: "a.json", NamespaceBase: "ftp://x"}, errs.ErrCodeInvalidConfig},
		{"bad format", Options{Path: "a.json", Formats: []string{"png"}}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSelectParser(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Path: "x/Cargo.lock"}, "cargo"},
		{Options{Path: "x/dependencies.txt"}, "gradle"},
		{Options{Path: "report.out", Type: "gradle"}, "gradle"},
		{Options{Path: "deps.txt", Type: "json"}, "tree"},
	}
	for _, tt := range tests {
		p, err := SelectParser(tt.opts)
		if err != nil {
			t.Fatalf("SelectParser(%+v) error = %v", tt.opts, err)
		}
		if p.Type() != tt.want {
			t.Errorf("SelectParser(%+v) = %s, want %s", tt.opts, p.Type(), tt.want)
		}
	}

	if _, err := SelectParser(Options{Path: "x", Type: "npm"}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("SelectParser(npm) error = %v", err)
	}
	if _, err := SelectParser(Options{Path: "go.sum"}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("SelectParser(go.sum) error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deps.json", tree)
	r := newRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Path: path, Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheHit || res.Document == nil || res.Parser != "tree" {
		t.Fatalf("first run: hit %v, parser %s", res.CacheHit, res.Parser)
	}
	if res.Stats.Packages != 3 || res.Stats.Relationships != 4 {
		t.Errorf("stats = %+v, want 3 packages and 4 relationships", res.Stats)
	}
	if res.Stats.Graph.Collapsed() != 0 {
		t.Errorf("Collapsed = %d, want 0 (ref shares the node)", res.Stats.Graph.Collapsed())
	}

	js := string(res.Artifacts[FormatJSON])
	for _, want := range []string{
		`"namespace": "https://spdx.org/spdxdocs/com.acme/app/1.0"`,
		`"externalRef": "pkg:maven/com.acme/core@1.0"`,
	} {
		if !strings.Contains(js, want) {
			t.Errorf("json missing %s:\n%s", want, js)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot = %s", res.Artifacts[FormatDOT])
	}
}

func TestExecuteCacheHitIsByteIdentical(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deps.json", tree)
	r := newRunner(t)
	ctx := context.Background()
	opts := Options{Path: path, UUIDNamespace: true}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Document != nil {
		t.Fatal("second run did not come from the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached output differs from generated output")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("Refresh still served from cache")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], third.Artifacts[FormatJSON]) {
		t.Error("regenerated output differs")
	}

	// Options that change the output miss the cache
	other, err := r.Execute(ctx, Options{Path: path, Project: deps.Coordinate{Version: "2.0"}})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("different project version served from cache")
	}
	if !strings.Contains(string(other.Artifacts[FormatJSON]), `"versionInfo": "2.0"`) {
		t.Error("project version override not applied")
	}
}

func TestExecuteInputChangeMissesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deps.json", tree)
	r := newRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Path: path}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "deps.json", `{"group": "g", "name": "solo", "version": "1"}`)
	res, err := r.Execute(ctx, Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || res.Stats.Packages != 1 || res.Stats.Relationships != 1 {
		t.Errorf("edited input: hit %v, stats %+v", res.CacheHit, res.Stats)
	}
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"missing file", Options{Path: filepath.Join(dir, "missing.json")}, errs.ErrCodeFileNotFound},
		{"unsupported", Options{Path: writeFile(t, dir, "go.sum", "")}, errs.ErrCodeUnsupported},
		{"bad tree", Options{Path: writeFile(t, dir, "bad.json", `{"ref": "a:b:c"}`)}, errs.ErrCodeInvalidFormat},
		{"invalid coordinate", Options{Path: writeFile(t, dir, "empty.json", `{"children": []}`)}, errs.ErrCodeInvalidCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(ctx, tt.opts); !errs.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestInputHashIncludesSiblings(t *testing.T) {
	dir := t.TempDir()
	lock := writeFile(t, dir, "Cargo.lock", "version = 3\n")
	p, err := SelectParser(Options{Path: lock})
	if err != nil {
		t.Fatal(err)
	}

	h1, err := InputHash(lock, p)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"app\"\n")
	h2, _ := InputHash(lock, p)
	if h1 == h2 {
		t.Error("Cargo.toml does not affect the input hash")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	events []string
}

func (h *recordingHooks) OnParseStart(context.Context, string, string) {
	h.events = append(h.events, "parse")
}
func (h *recordingHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {
	h.events = append(h.events, "build")
}
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.events = append(h.events, "render")
}
func (h *recordingHooks) OnCacheHit(context.Context, string) { h.events = append(h.events, "hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.events = append(h.events, "miss")
}
func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.events = append(h.events, "set")
}

func TestExecuteCallsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	path := writeFile(t, t.TempDir(), "deps.json", tree)
	r := newRunner(t)
	for range 2 {
		if _, err := r.Execute(context.Background(), Options{Path: path}); err != nil {
			t.Fatal(err)
		}
	}

	want := "miss,parse,build,render,set,hit"
	if got := strings.Join(h.events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}
