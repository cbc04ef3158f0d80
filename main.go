package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apporder "github.com/Zhima-Mochi/order-processor/internal/application/order"
	appuser "github.com/Zhima-Mochi/order-processor/internal/application/user"
	"github.com/Zhima-Mochi/order-processor/internal/application/validation"
	"github.com/Zhima-Mochi/order-processor/internal/config"
	domorder "github.com/Zhima-Mochi/order-processor/internal/domain/order"
	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/mysql"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/notify"
	infraobs "github.com/Zhima-Mochi/order-processor/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/observability/zaplogger"
	orderworker "github.com/Zhima-Mochi/order-processor/internal/infrastructure/order/worker"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/order-processor/internal/infrastructure/payment"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/order-processor/internal/presentation/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const startupTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	counters, histograms := prometrics.Standard(prometrics.New("", "", nil))
	tel := infraobs.New(
		oteltrace.New(cfg.ServiceName),
		zaplogger.Wrap(baseLogger),
		counters,
		histograms,
	)
	logger := tel.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orders, closeOrders, err := newOrderRepository(ctx, cfg, logger)
	if err != nil {
		systemLogger.Fatal("order_store_init_failed", zap.String("store", cfg.OrderStore), zap.Error(err))
	}
	defer closeOrders()

	notifier, closeNotifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		systemLogger.Fatal("notifier_init_failed", zap.String("notifier", cfg.Notifier), zap.Error(err))
	}
	defer closeNotifier()

	directory := memory.NewUserDirectory()
	if err := seedUsers(ctx, directory); err != nil {
		systemLogger.Fatal("user_seed_failed", zap.Error(err))
	}
	if mem, ok := orders.(*memory.OrderRepository); ok {
		if err := seedOrders(ctx, mem); err != nil {
			systemLogger.Fatal("order_seed_failed", zap.Error(err))
		}
	}

	// In-memory event bus carries order.processed to the audit worker.
	bus := outbox.NewBus(logger, cfg.EventQueueSize, 0)
	orderworker.New(bus, tel).Start()
	bus.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		bus.Stop(stopCtx)
	}()

	processor := apporder.NewProcessor(
		orders,
		appuser.NewService(directory, notifier, logger),
		validation.NewRules(),
		payment.NewSimulated(cfg.PaymentSuccessRate, logger),
		bus,
		tel,
	)

	handler := httppresentation.NewHandler(processor, processor, logger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
			zap.String("order_store", cfg.OrderStore),
			zap.String("notifier", cfg.Notifier),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

func newOrderRepository(ctx context.Context, cfg config.Config, logger observability.Logger) (domorder.Repository, func(), error) {
	if cfg.OrderStore != config.StoreMySQL {
		return memory.NewOrderRepository(), func() {}, nil
	}

	db, err := mysql.Open(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := db.PingContext(initCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping mysql: %w", err)
	}

	repo := mysql.NewOrderRepository(db)
	if err := repo.Migrate(initCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("order_store_ready", observability.F("store", config.StoreMySQL))

	return repo, func() { _ = db.Close() }, nil
}

func newNotifier(ctx context.Context, cfg config.Config, logger observability.Logger) (domuser.Notifier, func(), error) {
	if cfg.Notifier != config.NotifierRedis {
		return notify.NewLog(logger), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	initCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := client.Ping(initCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("notifier_ready", observability.F("notifier", config.NotifierRedis))

	return notify.NewRedis(client), func() { _ = client.Close() }, nil
}

func seedUsers(ctx context.Context, directory *memory.UserDirectory) error {
	users := []*domuser.User{
		{ID: "u-1001", Name: "Ada Lovelace", Email: "ada@example.com"},
		{ID: "u-1002", Name: "Alan Turing", Email: "alan@example.com"},
	}
	for _, u := range users {
		if err := directory.Put(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(ctx context.Context, repo *memory.OrderRepository) error {
	orders := []*domorder.Order{
		domorder.New("ord-1001", "u-1001", decimal.RequireFromString("42.50"), "USD"),
		domorder.New("ord-1002", "u-1002", decimal.RequireFromString("7.99"), "EUR"),
		domorder.New("ord-1003", "u-1001", decimal.Zero, "USD"),
	}
	for _, o := range orders {
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
	}
	return nil
}
