package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Window is a calendar-day-aligned aggregation period. "week" means the 7
// calendar days ending today, not a rolling 168-hour span.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps raw input to a Window; empty input defaults to today.
func ParseWindow(raw string) (Window, bool) {
	switch Window(raw) {
	case "", WindowToday:
		return WindowToday, true
	case WindowWeek:
		return WindowWeek, true
	case WindowMonth:
		return WindowMonth, true
	}
	return "", false
}

// Days returns the number of calendar days the window spans, today inclusive.
func (w Window) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 1
	}
}

// FinanceSummary mirrors the /api/finance/summary contract: all-time
// aggregates over the caller's finance records.
type FinanceSummary struct {
	TotalRecords      int             `json:"totalRecords"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	ConfirmedRevenue  decimal.Decimal `json:"confirmedRevenue"`
	ProcessingOrders  int             `json:"processingOrders"`
	DeliveredOrders   int             `json:"deliveredOrders"`
}

// WindowedRevenue is the revenue over one calendar window, computed fresh
// from finance records on every call, together with the independent raw
// today's-order-value figure. Revenue applies the revenue-inclusion
// predicate; OrdersValue does not — the two must not be conflated.
type WindowedRevenue struct {
	Window      Window          `json:"window"`
	Revenue     decimal.Decimal `json:"revenue"`
	RecordCount int             `json:"recordCount"`
	OrdersValue decimal.Decimal `json:"ordersValue"`
	OrdersCount int             `json:"ordersCount"`
}

// CreateFinanceInput carries client-supplied fields for a standalone finance
// record. OrderID is optional — finance records can exist without an order.
type CreateFinanceInput struct {
	OrderID         *int
	CustomerName    string
	ProductName     string
	Quantity        int
	ProductRate     decimal.Decimal
	TotalValue      decimal.Decimal
	OrderStatus     string
	TransactionType string
}

// UpdateFinanceInput holds partial updates; nil fields keep their stored
// value. TotalValue and Quantity×ProductRate are stored independently and may
// drift when overridden separately — that is the documented contract.
type UpdateFinanceInput struct {
	CustomerName    *string
	ProductName     *string
	Quantity        *int
	ProductRate     *decimal.Decimal
	TotalValue      *decimal.Decimal
	OrderStatus     *string
	TransactionType *string
}

// FinanceService owns finance-record CRUD and the derived revenue figures.
// Every read recomputes from raw rows — there is no cached aggregate to go
// stale.
type FinanceService interface {
	List(ctx context.Context, userID int) ([]FinanceRecord, error)
	Create(ctx context.Context, userID int, in CreateFinanceInput) (*FinanceRecord, error)
	Update(ctx context.Context, recordID, userID int, in UpdateFinanceInput) (*FinanceRecord, error)
	Delete(ctx context.Context, recordID, userID int) (*FinanceRecord, error)

	// Summary returns all-time aggregates for the user's finance records.
	Summary(ctx context.Context, userID int) (*FinanceSummary, error)

	// RevenueForWindow filters the user's finance records to the window's
	// calendar days, applies the revenue-inclusion predicate, and sums
	// totalValue. It also sums today's raw order values without any status
	// filter.
	RevenueForWindow(ctx context.Context, userID int, window Window) (*WindowedRevenue, error)
}

type financeService struct {
	pool *pgxpool.Pool
}

// NewFinanceService constructs a FinanceService backed by the given pool.
func NewFinanceService(pool *pgxpool.Pool) FinanceService {
	return &financeService{pool: pool}
}

const financeColumns = `id, user_id, order_id, customer_name, product_name, quantity, product_rate, total_value, order_status, transaction_type, created_at, updated_at`

func scanFinanceRecord(row pgx.Row) (*FinanceRecord, error) {
	var r FinanceRecord
	err := row.Scan(&r.ID, &r.UserID, &r.OrderID, &r.CustomerName, &r.ProductName,
		&r.Quantity, &r.ProductRate, &r.TotalValue, &r.OrderStatus, &r.TransactionType,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *financeService) List(ctx context.Context, userID int) ([]FinanceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+financeColumns+` FROM finance_records WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query finance records: %w", err)
	}
	defer rows.Close()

	var records []FinanceRecord
	for rows.Next() {
		var r FinanceRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.OrderID, &r.CustomerName, &r.ProductName,
			&r.Quantity, &r.ProductRate, &r.TotalValue, &r.OrderStatus, &r.TransactionType,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan finance record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *financeService) Create(ctx context.Context, userID int, in CreateFinanceInput) (*FinanceRecord, error) {
	if in.CustomerName == "" || in.ProductName == "" || in.Quantity == 0 ||
		in.ProductRate.IsZero() || in.TotalValue.IsZero() {
		return nil, validationf("Missing required fields: customerName, productName, quantity, productRate, totalValue")
	}
	if in.Quantity <= 0 || in.ProductRate.IsNegative() || in.TotalValue.IsNegative() {
		return nil, validationf("Quantity, productRate, and totalValue must be positive numbers")
	}

	status := StatusProcessing
	if in.OrderStatus != "" {
		parsed, ok := ParseStatus(in.OrderStatus)
		if !ok {
			return nil, validationf("Invalid status. Must be one of: %s", StatusList())
		}
		status = parsed
	}
	txType := in.TransactionType
	if txType == "" {
		txType = "sale"
	}

	record, err := scanFinanceRecord(s.pool.QueryRow(ctx, `
		INSERT INTO finance_records (user_id, order_id, customer_name, product_name, quantity, product_rate, total_value, order_status, transaction_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+financeColumns,
		userID, in.OrderID, in.CustomerName, in.ProductName, in.Quantity,
		in.ProductRate, in.TotalValue, status, txType))
	if err != nil {
		return nil, fmt.Errorf("failed to insert finance record: %w", err)
	}
	return record, nil
}

func (s *financeService) Update(ctx context.Context, recordID, userID int, in UpdateFinanceInput) (*FinanceRecord, error) {
	if in.OrderStatus != nil {
		if _, ok := ParseStatus(*in.OrderStatus); !ok {
			return nil, validationf("Invalid status. Must be one of: %s", StatusList())
		}
	}

	record, err := scanFinanceRecord(s.pool.QueryRow(ctx, `
		UPDATE finance_records
		SET customer_name    = COALESCE($1, customer_name),
		    product_name     = COALESCE($2, product_name),
		    quantity         = COALESCE($3, quantity),
		    product_rate     = COALESCE($4, product_rate),
		    total_value      = COALESCE($5, total_value),
		    order_status     = COALESCE($6, order_status),
		    transaction_type = COALESCE($7, transaction_type),
		    updated_at       = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING `+financeColumns,
		in.CustomerName, in.ProductName, in.Quantity, in.ProductRate,
		in.TotalValue, in.OrderStatus, in.TransactionType, recordID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Finance record not found")
		}
		return nil, fmt.Errorf("failed to update finance record %d: %w", recordID, err)
	}
	return record, nil
}

func (s *financeService) Delete(ctx context.Context, recordID, userID int) (*FinanceRecord, error) {
	record, err := scanFinanceRecord(s.pool.QueryRow(ctx,
		`DELETE FROM finance_records WHERE id = $1 AND user_id = $2 RETURNING `+financeColumns,
		recordID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Finance record not found")
		}
		return nil, fmt.Errorf("failed to delete finance record %d: %w", recordID, err)
	}
	return record, nil
}

// ── Aggregation ──────────────────────────────────────────────────────────────

func (s *financeService) Summary(ctx context.Context, userID int) (*FinanceSummary, error) {
	var sum FinanceSummary
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_value), 0),
		       COALESCE(AVG(total_value), 0),
		       COALESCE(SUM(CASE WHEN order_status = 'delivered' THEN total_value ELSE 0 END), 0),
		       COUNT(*) FILTER (WHERE order_status = 'processing'),
		       COUNT(*) FILTER (WHERE order_status = 'delivered')
		FROM finance_records
		WHERE user_id = $1`,
		userID,
	).Scan(&sum.TotalRecords, &sum.TotalRevenue, &sum.AverageOrderValue,
		&sum.ConfirmedRevenue, &sum.ProcessingOrders, &sum.DeliveredOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to compute finance summary: %w", err)
	}
	return &sum, nil
}

// RevenueForWindow re-scans the raw rows on every call. The record filter is
// a calendar-day comparison: a record from 23:59 yesterday is outside "today"
// no matter how recent it is.
func (s *financeService) RevenueForWindow(ctx context.Context, userID int, window Window) (*WindowedRevenue, error) {
	out := &WindowedRevenue{Window: window}

	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_value), 0), COUNT(*)
		FROM finance_records
		WHERE user_id = $1
		  AND created_at::date > CURRENT_DATE - $2::int
		  AND order_status = ANY($3)`,
		userID, window.Days(), statusStrings(RevenueStatuses()),
	).Scan(&out.Revenue, &out.RecordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute windowed revenue: %w", err)
	}

	// Independent signal: raw order value for today, no status filter.
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_value), 0), COUNT(*)
		FROM user_orders
		WHERE user_id = $1 AND created_at::date = CURRENT_DATE`,
		userID,
	).Scan(&out.OrdersValue, &out.OrdersCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute today's order value: %w", err)
	}
	return out, nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
