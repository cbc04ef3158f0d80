package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"

	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id          VARCHAR(64)    NOT NULL PRIMARY KEY,
	customer_id VARCHAR(64)    NOT NULL,
	total       DECIMAL(19,4)  NOT NULL,
	currency    CHAR(3)        NOT NULL,
	status      VARCHAR(32)    NOT NULL,
	created_at  DATETIME(6)    NOT NULL,
	updated_at  DATETIME(6)    NOT NULL,
	KEY idx_orders_created (created_at, id)
)`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Migrate creates the orders table when it does not exist.
func (r *OrderRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			customer_id = VALUES(customer_id),
			total = VALUES(total),
			currency = VALUES(currency),
			status = VALUES(status),
			updated_at = VALUES(updated_at)`,
		o.ID, o.CustomerID, o.Total, o.Currency, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total, currency, status, created_at, updated_at
		FROM orders WHERE id = ?`, id,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return o, nil
}

// FindAll lists orders oldest first, ties broken by id.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, total, currency, status, created_at, updated_at
		FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o      domain.Order
		total  decimal.Decimal
		status string
	)
	if err := s.Scan(&o.ID, &o.CustomerID, &total, &o.Currency, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Total = total
	o.Status = domain.Status(status)
	return &o, nil
}
