package memory

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	h := NewHeap(8)
	if _, err := h.Alloc(16); err == nil {
		t.Fatal("expected allocation over budget to fail")
	}

	entries := logs.FilterMessage("heap budget exhausted").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["limit"]; got != uint64(8) {
		t.Errorf("limit field = %v, want 8", got)
	}

	SetLogger(nil)
	if Logger() != nop {
		t.Error("SetLogger(nil) should restore the no-op logger")
	}
}
