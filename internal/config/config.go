package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"

	NotifierLog   = "log"
	NotifierRedis = "redis"
)

type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTPAddr    string

	OrderStore string
	MySQLDSN   string

	Notifier  string
	RedisAddr string

	PaymentSuccessRate float64
	EventQueueSize     int
	ShutdownTimeout    time.Duration
}

// Load reads the service configuration from the environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		ServiceName: get("SERVICE_NAME", "order-processor"),
		Env:         get("ENV", "dev"),
		LogLevel:    get("LOG_LEVEL", "info"),
		HTTPAddr:    get("HTTP_ADDR", ":8080"),
		OrderStore:  get("ORDER_STORE", StoreMemory),
		MySQLDSN:    get("MYSQL_DSN", "root:root@tcp(localhost:3306)/orders?parseTime=true"),
		Notifier:    get("NOTIFIER", NotifierLog),
		RedisAddr:   get("REDIS_ADDR", "localhost:6379"),
	}

	var errs []error

	switch cfg.OrderStore {
	case StoreMemory, StoreMySQL:
	default:
		errs = append(errs, fmt.Errorf("ORDER_STORE: unsupported value %q", cfg.OrderStore))
	}
	switch cfg.Notifier {
	case NotifierLog, NotifierRedis:
	default:
		errs = append(errs, fmt.Errorf("NOTIFIER: unsupported value %q", cfg.Notifier))
	}

	rate, err := strconv.ParseFloat(get("PAYMENT_SUCCESS_RATE", "0.9"), 64)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("PAYMENT_SUCCESS_RATE: %w", err))
	case rate < 0 || rate > 1:
		errs = append(errs, fmt.Errorf("PAYMENT_SUCCESS_RATE: %v is outside [0,1]", rate))
	}
	cfg.PaymentSuccessRate = rate

	queue, err := strconv.Atoi(get("EVENT_QUEUE_SIZE", "1024"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("EVENT_QUEUE_SIZE: %w", err))
	case queue <= 0:
		errs = append(errs, fmt.Errorf("EVENT_QUEUE_SIZE: must be positive, got %d", queue))
	}
	cfg.EventQueueSize = queue

	timeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	case timeout <= 0:
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: must be positive, got %s", timeout))
	}
	cfg.ShutdownTimeout = timeout

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
