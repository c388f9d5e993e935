package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dairyfarm/internal/core"
)

// Services bundles the domain services the web adapter dispatches to.
type Services struct {
	Users   core.UserService
	Orders  core.OrderService
	Finance core.FinanceService
	Cattle  core.CattleService
}

// Options carries the adapter's runtime knobs.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	JWTTTL         time.Duration
	// PollInterval is surfaced through the dashboard summary so every client
	// view refreshes on the same cadence.
	PollInterval time.Duration
}

// Handler holds the domain services and the chi router.
type Handler struct {
	svc          Services
	router       chi.Router
	jwtSecret    string
	jwtTTL       time.Duration
	pollInterval time.Duration
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc Services, opts Options) http.Handler {
	h := &Handler{
		svc:          svc,
		jwtSecret:    opts.JWTSecret,
		jwtTTL:       opts.JWTTTL,
		pollInterval: opts.PollInterval,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Browser views (HTML) ──────────────────────────────────────────────────
	r.Get("/orders", h.ordersPage)
	r.Get("/database", h.databasePage)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/forgot-password", h.forgotPassword)
		r.Post("/api/auth/reset-password", h.resetPassword)
	})

	// ── Protected API routes ──────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/profile", h.profile)

		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Put("/api/orders/{id}", h.updateOrderStatus)
		r.Delete("/api/orders/{id}", h.deleteOrder)

		r.Get("/api/finance", h.listFinance)
		r.Post("/api/finance", h.createFinance)
		r.Get("/api/finance/summary", h.financeSummary)
		r.Put("/api/finance/{id}", h.updateFinance)
		r.Delete("/api/finance/{id}", h.deleteFinance)

		r.Get("/api/dashboard/summary", h.dashboardSummary)

		r.Get("/api/cattle", h.listCattle)
		r.Post("/api/cattle", h.createCattle)
		r.Put("/api/cattle/{id}", h.updateCattle)
		r.Delete("/api/cattle/{id}", h.deleteCattle)

		// Admin-only user management
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/api/admin/users", h.listUsers)
			r.Post("/api/admin/assign-admin", h.assignAdmin)
			r.Delete("/api/admin/users/{id}", h.deleteUser)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	writeJSON(w, response{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)})
}

// urlID extracts the {id} URL parameter as an int. Writes a 400 and returns
// false on garbage input.
func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "Invalid ID", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. HTTP 413 when the body exceeds the RequestBodyLimit
// cap; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
