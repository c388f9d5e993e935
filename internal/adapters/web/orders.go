package web

import (
	"net/http"

	"dairyfarm/internal/core"
)

// listOrders handles GET /api/orders. Admins see every order; everyone else
// sees their own.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	orders, err := h.svc.Orders.List(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []core.Order{}
	}
	writeJSON(w, orders)
}

// createOrder handles POST /api/orders.
// Body: { customerName?, product, quantity, status? }.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		CustomerName string `json:"customerName"`
		Product      string `json:"product"`
		Quantity     int    `json:"quantity"`
		Status       string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.Orders.Create(r.Context(), claims.UserID, core.CreateOrderInput{
		CustomerName: req.CustomerName,
		Product:      req.Product,
		Quantity:     req.Quantity,
		Status:       req.Status,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{
		"message": "Order created successfully",
		"order":   order,
	})
}

// updateOrderStatus handles PUT /api/orders/{id}. Body: { status }.
// The matching finance record's orderStatus is deliberately left untouched.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// deleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	claims := authFromContext(r.Context())
	if err := h.svc.Orders.Delete(r.Context(), id, claims.UserID, claims.Role); err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"message": "Order deleted successfully"})
}
