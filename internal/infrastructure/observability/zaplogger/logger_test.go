package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_CarriesFixedAndScopedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core), observability.F("service", "order-processor"))

	l.With(observability.F("order_id", "o-1")).Info("use_case_done",
		observability.F("outcome", "success"),
		observability.F("error", errors.New("boom")),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0].ContextMap()
	if got["service"] != "order-processor" {
		t.Fatalf("expected service field, got %v", got["service"])
	}
	if got["order_id"] != "o-1" {
		t.Fatalf("expected order_id o-1, got %v", got["order_id"])
	}
	if got["outcome"] != "success" {
		t.Fatalf("expected outcome success, got %v", got["outcome"])
	}
	if got["error"] != "boom" {
		t.Fatalf("expected error boom, got %v", got["error"])
	}
}
