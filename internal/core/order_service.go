package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries the client-supplied fields for a new order.
// Product and Quantity are required; Status defaults to processing.
type CreateOrderInput struct {
	CustomerName string
	Product      string
	Quantity     int
	Status       string
}

// OrderService manages the order lifecycle and the derived finance record
// written alongside each new order.
type OrderService interface {
	// Create validates the input, inserts the order, and inserts a matching
	// finance record (transaction_type "sale") in the same database
	// transaction. The finance record is created regardless of status —
	// aggregation filters by the revenue-inclusion predicate instead.
	Create(ctx context.Context, ownerID int, in CreateOrderInput) (*Order, error)

	// List returns the caller's orders, newest first. Admins see every order.
	List(ctx context.Context, callerID int, callerRole Role) ([]Order, error)

	Get(ctx context.Context, orderID int) (*Order, error)

	// UpdateStatus sets the order's status to newStatus after validating it
	// against the fixed status set. Any authenticated caller may update any
	// order's status; only deletion is ownership-scoped. The associated
	// finance record's orderStatus is NOT updated and will diverge.
	UpdateStatus(ctx context.Context, orderID int, newStatus string) (*Order, error)

	// Delete removes an order. Admins may delete any order; other callers
	// only their own. A missing row and a foreign row both come back as
	// NotFoundError. Finance records referencing the order are kept.
	Delete(ctx context.Context, orderID, callerID int, callerRole Role) error
}

type orderService struct {
	pool    *pgxpool.Pool
	catalog PriceCatalog
}

// NewOrderService constructs an OrderService backed by the given pool and
// price catalog.
func NewOrderService(pool *pgxpool.Pool, catalog PriceCatalog) OrderService {
	return &orderService{pool: pool, catalog: catalog}
}

const orderColumns = `id, user_id, customer_name, product, quantity, total_value, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Product, &o.Quantity,
		&o.TotalValue, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, ownerID int, in CreateOrderInput) (*Order, error) {
	product := strings.TrimSpace(in.Product)
	if product == "" {
		return nil, validationf("Missing required fields: product and quantity are required")
	}
	if in.Quantity <= 0 {
		return nil, validationf("Quantity must be a positive number")
	}

	status := StatusProcessing
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := ParseStatus(in.Status)
		if !ok {
			return nil, validationf("Invalid status. Must be one of: %s", StatusList())
		}
		status = parsed
	}

	var customerName *string
	if trimmed := strings.TrimSpace(in.CustomerName); trimmed != "" {
		customerName = &trimmed
	}

	rate := s.catalog.PriceOf(product)
	totalValue := rate.Mul(decimal.NewFromInt(int64(in.Quantity)))

	// Order and finance record are one logical unit: a crash between the two
	// inserts must not leave an order without its revenue entry.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO user_orders (user_id, customer_name, product, quantity, total_value, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		ownerID, customerName, product, in.Quantity, totalValue, status))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	financeCustomer := ""
	if customerName != nil {
		financeCustomer = *customerName
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO finance_records (user_id, order_id, customer_name, product_name, quantity, product_rate, total_value, order_status, transaction_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'sale')`,
		ownerID, order.ID, financeCustomer, product, in.Quantity, rate, totalValue, status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert finance record for order %d: %w", order.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}
	return order, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) List(ctx context.Context, callerID int, callerRole Role) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM user_orders ORDER BY created_at DESC, id DESC`
	args := []any{}
	if callerRole != RoleAdmin {
		query = `SELECT ` + orderColumns + ` FROM user_orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
		args = append(args, callerID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Product, &o.Quantity,
			&o.TotalValue, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *orderService) Get(ctx context.Context, orderID int) (*Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM user_orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Order not found")
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return order, nil
}

// ── Mutations ────────────────────────────────────────────────────────────────

func (s *orderService) UpdateStatus(ctx context.Context, orderID int, newStatus string) (*Order, error) {
	status, ok := ParseStatus(newStatus)
	if !ok {
		return nil, validationf("Invalid status. Must be one of: %s", StatusList())
	}

	order, err := scanOrder(s.pool.QueryRow(ctx, `
		UPDATE user_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns,
		status, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Order not found")
		}
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, orderID, callerID int, callerRole Role) error {
	query := `DELETE FROM user_orders WHERE id = $1 AND user_id = $2`
	args := []any{orderID, callerID}
	if callerRole == RoleAdmin {
		query = `DELETE FROM user_orders WHERE id = $1`
		args = args[:1]
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("Order not found or not authorized")
	}
	return nil
}
