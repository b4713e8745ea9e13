package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "gradle", "dependencies.txt")
	p.OnParseComplete(ctx, "gradle", "dependencies.txt", 100, time.Second, nil)
	p.OnBuildStart(ctx, "com.acme:app:1.0")
	p.OnBuildComplete(ctx, "com.acme:app:1.0", 10, 12, time.Second, nil)
	p.OnRenderStart(ctx, []string{"json"})
	p.OnRenderComplete(ctx, []string{"json"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "json")
	c.OnCacheMiss(ctx, "dot")
	c.OnCacheSet(ctx, "svg", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnParseStart(ctx, "cargo", "Cargo.lock")
	h.OnParseComplete(ctx, "cargo", "Cargo.lock", 7, time.Millisecond, nil)
	h.OnBuildComplete(ctx, "crates.io:app:0.1.0", 7, 9, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"json"}, 0, errors.New("boom"))
	h.OnCacheHit(ctx, "json")

	out := buf.String()
	for _, want := range []string{"parser=cargo", "nodes=7", "relationships=9", "render failed", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "json")
	if buf.Len() != 0 {
		t.Errorf("debug events written at info level: %s", buf.String())
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
