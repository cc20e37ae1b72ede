package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Compute hooks
	p := NoopComputeHooks{}
	p.OnComputeStart(ctx, "mandelbrot", 1<<20)
	p.OnComputeComplete(ctx, "mandelbrot", 1<<20, time.Second, nil)
	p.OnColorStart(ctx, "period_multiplier", 1<<20)
	p.OnColorComplete(ctx, "period_multiplier", time.Second, nil)
	p.OnRenderStart(ctx, []string{"png"})
	p.OnRenderComplete(ctx, []string{"png"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "plane")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "http", 1024)

	// Server hooks
	h := NoopServerHooks{}
	h.OnRequest(ctx, "GET", "/render/mandelbrot")
	h.OnResponse(ctx, "GET", "/render/mandelbrot", 200, time.Second)
	h.OnError(ctx, "GET", "/render/mandelbrot", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Compute().(NoopComputeHooks); !ok {
		t.Error("Compute() should return NoopComputeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	// Set custom hooks
	customCompute := &testComputeHooks{}
	SetComputeHooks(customCompute)
	if Compute() != customCompute {
		t.Error("SetComputeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Compute().(NoopComputeHooks); !ok {
		t.Error("Reset() should restore NoopComputeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testComputeHooks{}
	SetComputeHooks(custom)

	// Setting nil should be ignored
	SetComputeHooks(nil)

	if Compute() != custom {
		t.Error("SetComputeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testComputeHooks struct{ NoopComputeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
