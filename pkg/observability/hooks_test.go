package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Dump hooks
	d := NoopDumpHooks{}
	d.OnDumpStart(ctx)
	d.OnPacket(ctx, 2, 0)
	d.OnDecodeError(ctx, 2, errors.New("bad"))
	d.OnLimit(ctx, "layers")
	d.OnDumpComplete(ctx, 10, 1, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "dump")
	c.OnCacheMiss(ctx, "dump")
	c.OnCacheSet(ctx, "dump", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Dump().(NoopDumpHooks); !ok {
		t.Error("Dump() should return NoopDumpHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customDump := &testDumpHooks{}
	SetDumpHooks(customDump)
	if Dump() != customDump {
		t.Error("SetDumpHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Dump().(NoopDumpHooks); !ok {
		t.Error("Reset() should restore NoopDumpHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDumpHooks{}
	SetDumpHooks(custom)

	// Setting nil should be ignored
	SetDumpHooks(nil)

	if Dump() != custom {
		t.Error("SetDumpHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDumpHooks struct{ NoopDumpHooks }
type testCacheHooks struct{ NoopCacheHooks }
