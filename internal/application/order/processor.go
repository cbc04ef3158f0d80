package order

import (
	"context"
	"errors"
	"time"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/order-processor/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/order-processor/internal/domain/payment"
	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService        = "order-processor"
	useCaseOrderProcess = "order.process"
	useCaseOrderList    = "order.list"
	spanPrefix          = "UC."
	publishTimeout      = 300 * time.Millisecond

	peerRepository  = "order_repository"
	peerUserService = "user_service"
	peerValidator   = "validator"
	peerPayment     = "payment"
	peerOutbox      = "outbox"

	// ProcessedMessage is sent to the user once their order has been charged.
	ProcessedMessage = "Order processed"
)

type ProcessOrderInput struct {
	OrderID string
}

type ProcessOrderResult struct {
	OrderID       string
	UserID        string
	Amount        string
	Currency      string
	TransactionID string
}

// Processor runs the order processing flow: look up the order, look up the
// calling user, validate, charge, notify. A failing step ends the flow.
type Processor struct {
	orders    OrderRepository
	users     UserService
	validator Validator
	payments  PaymentService
	publisher domoutbox.Publisher

	log    observability.Logger
	tracer observability.Tracer
	// RED metrics (supplied via DI; do not instantiate inside methods).
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

// NewProcessor wires the collaborators. publisher and tel may be nil.
func NewProcessor(
	orders OrderRepository,
	users UserService,
	validator Validator,
	payments PaymentService,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *Processor {
	if tel == nil {
		tel = observability.Nop()
	}
	metricsProvider := tel.Metrics()

	return &Processor{
		orders:       orders,
		users:        users,
		validator:    validator,
		payments:     payments,
		publisher:    publisher,
		log:          tel.Logger().With(observability.F("service", orderService)),
		tracer:       tel.Tracer(),
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
		extCounter:   metricsProvider.Counter(observability.MExternalRequests),
		extHistogram: metricsProvider.Histogram(observability.MExternalRequestDuration),
	}
}

// ProcessOrder processes the order identified by orderID on behalf of the
// user carried by ctx.
func (p *Processor) ProcessOrder(ctx context.Context, orderID string) error {
	_, err := p.Execute(ctx, ProcessOrderInput{OrderID: orderID})
	return err
}

// Execute performs the processing flow and reports what was charged.
func (p *Processor) Execute(ctx context.Context, cmd ProcessOrderInput) (_ *ProcessOrderResult, err error) {
	logger := logctx.FromOr(ctx, p.log).With(
		observability.F("use_case", useCaseOrderProcess),
		observability.F("order_id", cmd.OrderID),
	)

	ctx, span := p.tracer.Start(ctx, spanPrefix+"ProcessOrder",
		attribute.String("use_case", useCaseOrderProcess),
		attribute.String("order.id", cmd.OrderID),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var userID, transactionID string
	var publishErr error

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		p.reqCounter.Add(1,
			observability.L("use_case", useCaseOrderProcess),
			observability.L("outcome", outcome),
		)
		p.durHistogram.Observe(lat,
			observability.L("use_case", useCaseOrderProcess),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if userID != "" {
			fields = append(fields, observability.F("user_id", userID))
		}
		if transactionID != "" {
			fields = append(fields, observability.F("transaction_id", transactionID))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.OrderID == "" {
		outcome, statusText = "error", "ORDER_ID_REQUIRED"
		return nil, newValidation("order id is required")
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	var ord *domain.Order
	if err := p.call(ctx, peerRepository, "find_by_id", func(ctx context.Context) error {
		var findErr error
		ord, findErr = p.orders.FindByID(ctx, cmd.OrderID)
		return findErr
	}); err != nil {
		outcome, statusText = "error", "ORDER_LOOKUP_FAILED"
		if errors.Is(err, domain.ErrNotFound) {
			statusText = "ORDER_NOT_FOUND"
			return nil, categorize(ErrNotFound, err)
		}
		return nil, categorize(ErrRepository, err)
	}
	if ord == nil {
		outcome, statusText = "error", "ORDER_NOT_FOUND"
		return nil, categorize(ErrNotFound, domain.ErrNotFound)
	}
	span.SetAttributes(
		attribute.String("order.status", string(ord.Status)),
		attribute.String("payment.amount", ord.Total.String()),
	)

	var usr *domuser.User
	if err := p.call(ctx, peerUserService, "current_user", func(ctx context.Context) error {
		var userErr error
		usr, userErr = p.users.CurrentUser(ctx)
		return userErr
	}); err != nil {
		outcome, statusText = "error", "USER_LOOKUP_FAILED"
		switch {
		case errors.Is(err, domuser.ErrNotFound):
			return nil, categorize(ErrNotFound, err)
		case errors.Is(err, domuser.ErrUnauthenticated):
			statusText = "UNAUTHENTICATED"
			return nil, categorize(ErrUnauthenticated, err)
		case isContextErr(err):
			statusText = "CONTEXT_CANCELED"
			return nil, err
		}
		return nil, categorize(ErrUserService, err)
	}
	if usr == nil {
		outcome, statusText = "error", "USER_LOOKUP_FAILED"
		return nil, categorize(ErrUnauthenticated, domuser.ErrUnauthenticated)
	}
	userID = usr.ID
	span.SetAttributes(attribute.String("user.id", usr.ID))

	if err := p.call(ctx, peerValidator, "validate", func(ctx context.Context) error {
		return p.validator.Validate(ctx, ord)
	}); err != nil {
		outcome, statusText = "error", "VALIDATION_FAILED"
		if isContextErr(err) {
			statusText = "CONTEXT_CANCELED"
			return nil, err
		}
		return nil, categorize(ErrValidation, err)
	}
	span.AddEvent("order.validated")

	var receipt dompay.Receipt
	if err := p.call(ctx, peerPayment, "process", func(ctx context.Context) error {
		var payErr error
		receipt, payErr = p.payments.Process(ctx, ord.Total)
		return payErr
	}); err != nil {
		outcome, statusText = "error", "PAYMENT_FAILED"
		if errors.Is(err, dompay.ErrDeclined) {
			statusText = "PAYMENT_DECLINED"
		}
		return nil, categorize(ErrPayment, err)
	}
	transactionID = receipt.TransactionID
	span.AddEvent("order.charged",
		trace.WithAttributes(attribute.String("payment.transaction_id", receipt.TransactionID)),
	)

	if err := p.call(ctx, peerUserService, "notify_user", func(ctx context.Context) error {
		return p.users.NotifyUser(ctx, usr, ProcessedMessage)
	}); err != nil {
		outcome, statusText = "error", "NOTIFICATION_FAILED"
		return nil, categorize(ErrNotification, err)
	}

	publishErr = p.publish(ctx, domain.NewProcessedEvent(ord, usr.ID, receipt.TransactionID))
	if publishErr != nil {
		statusText = "EVENT_PUBLISH_FAILED"
		span.RecordError(publishErr)
	}

	span.AddEvent("order.processed",
		trace.WithAttributes(attribute.String("order.id", ord.ID)),
	)

	return &ProcessOrderResult{
		OrderID:       ord.ID,
		UserID:        usr.ID,
		Amount:        ord.Total.String(),
		Currency:      ord.Currency,
		TransactionID: receipt.TransactionID,
	}, nil
}

// Orders returns every known order exactly as the repository lists them.
func (p *Processor) Orders(ctx context.Context) (_ []*domain.Order, err error) {
	logger := logctx.FromOr(ctx, p.log).With(observability.F("use_case", useCaseOrderList))
	ctx, span := p.tracer.Start(ctx, spanPrefix+"ListOrders",
		attribute.String("use_case", useCaseOrderList),
	)
	start := time.Now()
	outcome := "success"
	var count int

	defer func() {
		lat := time.Since(start).Seconds()
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "ORDER_LIST_FAILED")
			} else {
				span.SetAttributes(attribute.Int("order.count", count))
				span.SetStatus(codes.Ok, "OK")
			}
			span.End()
		}
		p.reqCounter.Add(1,
			observability.L("use_case", useCaseOrderList),
			observability.L("outcome", outcome),
		)
		p.durHistogram.Observe(lat, observability.L("use_case", useCaseOrderList))

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("latency_seconds", lat),
			observability.F("count", count),
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Debug("use_case_done", fields...)
	}()

	var orders []*domain.Order
	if err := p.call(ctx, peerRepository, "find_all", func(ctx context.Context) error {
		var listErr error
		orders, listErr = p.orders.FindAll(ctx)
		return listErr
	}); err != nil {
		outcome = "error"
		return nil, categorize(ErrRepository, err)
	}
	count = len(orders)
	return orders, nil
}

// call runs fn against a collaborator and records it as an external request.
func (p *Processor) call(ctx context.Context, peer, endpoint string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	p.extCounter.Add(1,
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	p.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
	)
	return err
}

// publish is best-effort: the order is already charged, so a lost event is
// reported but never fails the flow.
func (p *Processor) publish(ctx context.Context, event domoutbox.Event) error {
	if p.publisher == nil || event == nil {
		return nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.call(pubCtx, peerOutbox, event.EventName(), func(ctx context.Context) error {
		if pubErr := p.publisher.Publish(ctx, event); pubErr != nil {
			return pubErr
		}
		return ctx.Err()
	})
	if err != nil {
		logctx.FromOr(ctx, p.log).Warn("event_publish_failed",
			observability.F("event", event.EventName()),
			observability.F("error", err.Error()),
		)
	}
	return err
}
