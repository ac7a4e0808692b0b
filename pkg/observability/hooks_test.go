package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Load hooks
	l := NoopLoadHooks{}
	l.OnDescriptorStart(ctx, "/work/app")
	l.OnDescriptorComplete(ctx, "/work/app", time.Millisecond, nil)
	l.OnSourcesStart(ctx, "/work/app")
	l.OnSourcesComplete(ctx, "/work/app", 4, time.Millisecond, nil)

	// Walk hooks
	w := NoopWalkHooks{}
	w.OnWalkStart(ctx, []string{"bonzo"})
	w.OnWalkComplete(ctx, []string{"bonzo"}, 3, 1, time.Second, nil)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/walk")
	h.OnResponse(ctx, "GET", "/walk", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Load().(NoopLoadHooks); !ok {
		t.Error("Load() should return NoopLoadHooks by default")
	}
	if _, ok := Walk().(NoopWalkHooks); !ok {
		t.Error("Walk() should return NoopWalkHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLoad := &testLoadHooks{}
	SetLoadHooks(customLoad)
	if Load() != customLoad {
		t.Error("SetLoadHooks should set custom hooks")
	}

	customWalk := &testWalkHooks{}
	SetWalkHooks(customWalk)
	if Walk() != customWalk {
		t.Error("SetWalkHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Load().(NoopLoadHooks); !ok {
		t.Error("Reset() should restore NoopLoadHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testWalkHooks{}
	SetWalkHooks(custom)

	// Setting nil should be ignored
	SetWalkHooks(nil)

	if Walk() != custom {
		t.Error("SetWalkHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLoadHooks struct{ NoopLoadHooks }
type testWalkHooks struct{ NoopWalkHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
