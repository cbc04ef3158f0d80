package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	domorder "github.com/Zhima-Mochi/order-processor/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/order-processor/internal/domain/outbox"
	"github.com/Zhima-Mochi/order-processor/internal/observability"

	"github.com/shopspring/decimal"
)

type captureSubscriber struct {
	handlers map[string]domoutbox.Handler
}

func (s *captureSubscriber) Subscribe(name string, h domoutbox.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]domoutbox.Handler)
	}
	s.handlers[name] = h
}

type entry struct {
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu      *sync.Mutex
	fixed   []observability.Field
	entries *[]entry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]entry{}}
}

func (l *recordingLogger) With(fields ...observability.Field) observability.Logger {
	return &recordingLogger{
		mu:      l.mu,
		fixed:   append(append([]observability.Field(nil), l.fixed...), fields...),
		entries: l.entries,
	}
}

func (l *recordingLogger) record(msg string, fields []observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[string]any)
	for _, f := range append(append([]observability.Field(nil), l.fixed...), fields...) {
		m[f.Key] = f.Value
	}
	*l.entries = append(*l.entries, entry{msg: msg, fields: m})
}

func (l *recordingLogger) Debug(msg string, f ...observability.Field) { l.record(msg, f) }
func (l *recordingLogger) Info(msg string, f ...observability.Field)  { l.record(msg, f) }
func (l *recordingLogger) Warn(msg string, f ...observability.Field)  { l.record(msg, f) }
func (l *recordingLogger) Error(msg string, f ...observability.Field) { l.record(msg, f) }

type countingCounter struct {
	mu     sync.Mutex
	labels [][]observability.Label
}

func (c *countingCounter) Add(_ float64, labels ...observability.Label) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels, labels)
}

type testMetrics struct{ counter *countingCounter }

func (m testMetrics) Counter(observability.MetricKey) observability.Counter { return m.counter }
func (m testMetrics) Histogram(observability.MetricKey) observability.Histogram {
	return observability.NopHistogram()
}

type testObservability struct {
	logger  observability.Logger
	metrics observability.Metrics
}

func (o testObservability) Tracer() observability.Tracer   { return observability.NopTracer() }
func (o testObservability) Logger() observability.Logger   { return o.logger }
func (o testObservability) Metrics() observability.Metrics { return o.metrics }

func TestWorker_LogsProcessedOrder(t *testing.T) {
	logger := newRecordingLogger()
	counter := &countingCounter{}
	sub := &captureSubscriber{}

	w := New(sub, testObservability{logger: logger, metrics: testMetrics{counter: counter}})
	w.Start()

	h, ok := sub.handlers["order.processed"]
	if !ok {
		t.Fatalf("expected subscription to order.processed")
	}

	evt := domorder.ProcessedEvent{
		OrderID:       "ord-1",
		UserID:        "u-1",
		Amount:        decimal.RequireFromString("19.99"),
		TransactionID: "tx-1",
		OccurredAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := h(context.Background(), evt); err != nil {
		t.Fatalf("handler: %v", err)
	}

	var audit *entry
	for i := range *logger.entries {
		if (*logger.entries)[i].msg == "order_processed_audit" {
			audit = &(*logger.entries)[i]
		}
	}
	if audit == nil {
		t.Fatalf("expected order_processed_audit log, got %+v", *logger.entries)
	}
	if got := audit.fields["order_id"]; got != "ord-1" {
		t.Fatalf("expected order_id ord-1, got %v", got)
	}
	if got := audit.fields["amount"]; got != "19.99" {
		t.Fatalf("expected amount 19.99, got %v", got)
	}
	if got := audit.fields["event"]; got != "order.processed" {
		t.Fatalf("expected event field, got %v", got)
	}
	if _, ok := audit.fields["event_id"]; !ok {
		t.Fatalf("expected generated event_id")
	}

	if len(counter.labels) != 1 {
		t.Fatalf("expected one use case count, got %d", len(counter.labels))
	}
	for _, l := range counter.labels[0] {
		if l.Key == "outcome" && l.Value != "success" {
			t.Fatalf("expected success outcome, got %s", l.Value)
		}
	}
}

type otherEvent struct{}

func (otherEvent) EventName() string { return "order.processed" }

func TestWorker_IgnoresForeignPayload(t *testing.T) {
	logger := newRecordingLogger()
	sub := &captureSubscriber{}
	w := New(sub, testObservability{logger: logger, metrics: observability.NopMetrics()})
	w.Start()

	if err := sub.handlers["order.processed"](context.Background(), otherEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(*logger.entries) != 0 {
		t.Fatalf("expected no logs, got %+v", *logger.entries)
	}
}

func TestWorker_StartWithoutSubscriber(t *testing.T) {
	New(nil, nil).Start()
}
