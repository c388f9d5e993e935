package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"dairyfarm/internal/core"
)

// listFinance handles GET /api/finance.
func (h *Handler) listFinance(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	records, err := h.svc.Finance.List(r.Context(), claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if records == nil {
		records = []core.FinanceRecord{}
	}
	writeJSON(w, records)
}

// createFinance handles POST /api/finance — a standalone finance record with
// no backing order.
func (h *Handler) createFinance(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		OrderID         *int            `json:"orderId"`
		CustomerName    string          `json:"customerName"`
		ProductName     string          `json:"productName"`
		Quantity        int             `json:"quantity"`
		ProductRate     decimal.Decimal `json:"productRate"`
		TotalValue      decimal.Decimal `json:"totalValue"`
		OrderStatus     string          `json:"orderStatus"`
		TransactionType string          `json:"transactionType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.svc.Finance.Create(r.Context(), claims.UserID, core.CreateFinanceInput{
		OrderID:         req.OrderID,
		CustomerName:    req.CustomerName,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		ProductRate:     req.ProductRate,
		TotalValue:      req.TotalValue,
		OrderStatus:     req.OrderStatus,
		TransactionType: req.TransactionType,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{
		"message": "Finance record created successfully",
		"record":  record,
	})
}

// updateFinance handles PUT /api/finance/{id}. Absent fields keep their stored
// values.
func (h *Handler) updateFinance(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())

	var req struct {
		CustomerName    *string          `json:"customerName"`
		ProductName     *string          `json:"productName"`
		Quantity        *int             `json:"quantity"`
		ProductRate     *decimal.Decimal `json:"productRate"`
		TotalValue      *decimal.Decimal `json:"totalValue"`
		OrderStatus     *string          `json:"orderStatus"`
		TransactionType *string          `json:"transactionType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.svc.Finance.Update(r.Context(), id, claims.UserID, core.UpdateFinanceInput{
		CustomerName:    req.CustomerName,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		ProductRate:     req.ProductRate,
		TotalValue:      req.TotalValue,
		OrderStatus:     req.OrderStatus,
		TransactionType: req.TransactionType,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message": "Finance record updated successfully",
		"record":  record,
	})
}

// deleteFinance handles DELETE /api/finance/{id}.
func (h *Handler) deleteFinance(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())

	record, err := h.svc.Finance.Delete(r.Context(), id, claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message": "Finance record deleted successfully",
		"record":  record,
	})
}

// financeSummary handles GET /api/finance/summary. Without a window parameter
// it returns the all-time aggregates; with ?window=today|week|month it returns
// the windowed revenue figures instead.
func (h *Handler) financeSummary(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	if raw := r.URL.Query().Get("window"); raw != "" {
		window, ok := core.ParseWindow(raw)
		if !ok {
			writeError(w, r, "Invalid window. Must be one of: today, week, month", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		revenue, err := h.svc.Finance.RevenueForWindow(r.Context(), claims.UserID, window)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, revenue)
		return
	}

	summary, err := h.svc.Finance.Summary(r.Context(), claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}
