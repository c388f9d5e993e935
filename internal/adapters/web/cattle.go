package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"dairyfarm/internal/core"
)

// cattleRequest is the shared request body for cattle create and update.
// Pointer fields distinguish "absent" from "explicitly cleared" on update.
type cattleRequest struct {
	TagNumber      *string          `json:"tagNumber"`
	Name           *string          `json:"name"`
	Breed          string           `json:"breed"`
	Gender         string           `json:"gender"`
	Age            *int             `json:"age"`
	Weight         *float64         `json:"weight"`
	HealthStatus   string           `json:"healthStatus"`
	MilkProduction *decimal.Decimal `json:"milkProduction"`
	DateAcquired   *string          `json:"dateAcquired"`
	Notes          *string          `json:"notes"`
}

func (req cattleRequest) toInput() core.CattleInput {
	return core.CattleInput{
		TagNumber:      req.TagNumber,
		Name:           req.Name,
		Breed:          req.Breed,
		Gender:         req.Gender,
		Age:            req.Age,
		Weight:         req.Weight,
		HealthStatus:   req.HealthStatus,
		MilkProduction: req.MilkProduction,
		DateAcquired:   req.DateAcquired,
		Notes:          req.Notes,
	}
}

// listCattle handles GET /api/cattle. The herd list is farm-wide: dashboard
// herd-size and production figures cover every animal, not just the caller's.
func (h *Handler) listCattle(w http.ResponseWriter, r *http.Request) {
	herd, err := h.svc.Cattle.List(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if herd == nil {
		herd = []core.Cattle{}
	}
	writeJSON(w, herd)
}

// createCattle handles POST /api/cattle. Tag numbers are server-generated.
func (h *Handler) createCattle(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req cattleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	animal, err := h.svc.Cattle.Create(r.Context(), claims.UserID, req.toInput())
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{
		"message": "Cattle added successfully",
		"cattle":  animal,
	})
}

// updateCattle handles PUT /api/cattle/{id}.
func (h *Handler) updateCattle(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())

	var req cattleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	animal, err := h.svc.Cattle.Update(r.Context(), id, claims.UserID, claims.Role, req.toInput())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message": "Cattle updated successfully",
		"cattle":  animal,
	})
}

// deleteCattle handles DELETE /api/cattle/{id}.
func (h *Handler) deleteCattle(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())

	if err := h.svc.Cattle.Delete(r.Context(), id, claims.UserID, claims.Role); err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"message": "Cattle deleted successfully"})
}
