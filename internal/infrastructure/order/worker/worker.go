package worker

import (
	"context"
	"time"

	domorder "github.com/Zhima-Mochi/order-processor/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/order-processor/internal/domain/outbox"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/observability/logctx"
	workerpresentation "github.com/Zhima-Mochi/order-processor/internal/presentation/worker"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentAuditWorker = "order_audit_worker"
	useCaseOrderAudit    = "order.audit"
)

// Worker records an audit line for every processed order.
type Worker struct {
	subscriber domoutbox.Subscriber
	tel        observability.Observability
	log        observability.Logger
	tracer     observability.Tracer

	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func New(subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		subscriber:   subscriber,
		tel:          tel,
		log:          tel.Logger().With(observability.F("component", componentAuditWorker)),
		tracer:       tel.Tracer(),
		reqCounter:   tel.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram: tel.Metrics().Histogram(observability.MUsecaseDuration),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domorder.ProcessedEvent{}.EventName(), w.handleOrderProcessed)
}

func (w *Worker) handleOrderProcessed(ctx context.Context, e domoutbox.Event) (err error) {
	evt, ok := e.(domorder.ProcessedEvent)
	if !ok {
		return nil
	}

	ctx, span := w.tracer.Start(ctx, "Worker.OrderAudit",
		attribute.String("use_case", useCaseOrderAudit),
		attribute.String("order.id", evt.OrderID),
	)
	sc := span.SpanContext()
	ctx = workerpresentation.WithEventContext(ctx, w.log, w.tel,
		sc.TraceID(), sc.SpanID(),
		map[string]string{
			"event":    evt.EventName(),
			"use_case": useCaseOrderAudit,
		},
	)
	start := time.Now()

	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "ORDER_AUDIT_FAILED")
		} else {
			span.SetStatus(codes.Ok, "OK")
		}
		span.End()

		w.reqCounter.Add(1,
			observability.L("use_case", useCaseOrderAudit),
			observability.L("outcome", outcome),
		)
		w.durHistogram.Observe(time.Since(start).Seconds(),
			observability.L("use_case", useCaseOrderAudit),
		)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	span.AddEvent("order.audited", trace.WithAttributes(
		attribute.String("payment.transaction_id", evt.TransactionID),
	))
	logctx.FromOr(ctx, w.log).Info("order_processed_audit",
		observability.F("order_id", evt.OrderID),
		observability.F("user_id", evt.UserID),
		observability.F("amount", evt.Amount.String()),
		observability.F("transaction_id", evt.TransactionID),
		observability.F("occurred_at", evt.OccurredAt.Format(time.RFC3339Nano)),
	)
	return nil
}
