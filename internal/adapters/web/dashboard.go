package web

import (
	"net/http"
	"time"

	"dairyfarm/internal/core"
)

// dashboardSummary handles GET /api/dashboard/summary. It fetches the caller's
// orders and finance records, runs them through the one shared aggregation
// function, and attaches the polling interval every dashboard view must use.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	orders, err := h.svc.Orders.List(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	records, err := h.svc.Finance.List(r.Context(), claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	snapshot := core.Summarize(time.Now(), orders, records)

	type response struct {
		core.Snapshot
		PollIntervalSeconds int `json:"pollIntervalSeconds"`
	}
	writeJSON(w, response{
		Snapshot:            snapshot,
		PollIntervalSeconds: int(h.pollInterval.Seconds()),
	})
}
