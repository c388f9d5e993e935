package web

import (
	"html/template"
	"net/http"

	"dairyfarm/internal/core"
)

// The two server-rendered views are operational tools, not product UI: a
// plain orders table anyone on the farm network can pull up, and an admin-only
// dump of every table for spot-checking the data.

var ordersTmpl = template.Must(template.New("orders").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Orders — Dairy Farm</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1e293b; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #cbd5e1; padding: 6px 10px; text-align: left; font-size: 0.9rem; }
th { background: #f1f5f9; }
.status { text-transform: capitalize; }
.empty { color: #64748b; margin-top: 1rem; }
</style>
</head>
<body>
<h1>Orders ({{len .Orders}})</h1>
{{if .Orders}}
<table>
<tr><th>ID</th><th>Customer</th><th>Product</th><th>Qty</th><th>Total Value</th><th>Status</th><th>Created</th></tr>
{{range .Orders}}
<tr>
<td>{{.ID}}</td>
<td>{{if .CustomerName}}{{.CustomerName}}{{else}}&mdash;{{end}}</td>
<td>{{.Product}}</td>
<td>{{.Quantity}}</td>
<td>{{.TotalValue}}</td>
<td class="status">{{.Status}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
</tr>
{{end}}
</table>
{{else}}
<p class="empty">No orders yet.</p>
{{end}}
</body>
</html>`))

var databaseTmpl = template.Must(template.New("database").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Database — Dairy Farm</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1e293b; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; }
th, td { border: 1px solid #cbd5e1; padding: 5px 8px; text-align: left; font-size: 0.85rem; }
th { background: #f1f5f9; }
</style>
</head>
<body>
<h1>Database Overview</h1>

<h2>Users ({{len .Users}})</h2>
<table>
<tr><th>ID</th><th>Email</th><th>Name</th><th>Role</th><th>Created</th></tr>
{{range .Users}}
<tr><td>{{.ID}}</td><td>{{.Email}}</td><td>{{.FirstName}} {{.LastName}}</td><td>{{.Role}}</td><td>{{.CreatedAt.Format "2006-01-02"}}</td></tr>
{{end}}
</table>

<h2>Orders ({{len .Orders}})</h2>
<table>
<tr><th>ID</th><th>User</th><th>Customer</th><th>Product</th><th>Qty</th><th>Total</th><th>Status</th></tr>
{{range .Orders}}
<tr><td>{{.ID}}</td><td>{{.UserID}}</td><td>{{if .CustomerName}}{{.CustomerName}}{{else}}&mdash;{{end}}</td><td>{{.Product}}</td><td>{{.Quantity}}</td><td>{{.TotalValue}}</td><td>{{.Status}}</td></tr>
{{end}}
</table>

<h2>Finance Records ({{len .Records}})</h2>
<table>
<tr><th>ID</th><th>User</th><th>Order</th><th>Product</th><th>Qty</th><th>Rate</th><th>Total</th><th>Status</th><th>Type</th></tr>
{{range .Records}}
<tr><td>{{.ID}}</td><td>{{.UserID}}</td><td>{{if .OrderID}}{{.OrderID}}{{else}}&mdash;{{end}}</td><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.ProductRate}}</td><td>{{.TotalValue}}</td><td>{{.OrderStatus}}</td><td>{{.TransactionType}}</td></tr>
{{end}}
</table>

<h2>Cattle ({{len .Herd}})</h2>
<table>
<tr><th>ID</th><th>Tag</th><th>Name</th><th>Breed</th><th>Gender</th><th>Health</th><th>Milk/Day</th></tr>
{{range .Herd}}
<tr><td>{{.ID}}</td><td>{{.TagNumber}}</td><td>{{if .Name}}{{.Name}}{{else}}&mdash;{{end}}</td><td>{{.Breed}}</td><td>{{.Gender}}</td><td>{{.HealthStatus}}</td><td>{{.MilkProduction}}</td></tr>
{{end}}
</table>
</body>
</html>`))

// browserClaims resolves the caller for HTML views. The token comes from the
// Authorization header or, for plain browser use, a ?token= query parameter.
func (h *Handler) browserClaims(r *http.Request) (*AuthClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if t := r.URL.Query().Get("token"); t != "" {
			header = "Bearer " + t
		}
	}
	claims, _, err := h.parseBearerToken(header)
	return claims, err
}

func forbiddenPage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<!DOCTYPE html><html><body style="font-family:sans-serif;padding:2rem">
<h2>` + message + `</h2>
</body></html>`))
}

// ordersPage handles GET /orders — a read-only HTML table over the caller's
// orders. Admins see every order, matching the API list scoping.
func (h *Handler) ordersPage(w http.ResponseWriter, r *http.Request) {
	claims, err := h.browserClaims(r)
	if err != nil {
		forbiddenPage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, err := h.svc.Orders.List(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = ordersTmpl.Execute(w, struct{ Orders []core.Order }{Orders: orders})
}

// databasePage handles GET /database — an admin-only dump of all four tables.
func (h *Handler) databasePage(w http.ResponseWriter, r *http.Request) {
	claims, err := h.browserClaims(r)
	if err != nil || claims.Role != core.RoleAdmin {
		forbiddenPage(w, http.StatusForbidden, "Admin access required")
		return
	}

	ctx := r.Context()
	users, err := h.svc.Users.ListUsers(ctx)
	if err != nil {
		http.Error(w, "Failed to load users", http.StatusInternalServerError)
		return
	}
	orders, err := h.svc.Orders.List(ctx, claims.UserID, core.RoleAdmin)
	if err != nil {
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}
	records, err := h.svc.Finance.List(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to load finance records", http.StatusInternalServerError)
		return
	}
	herd, err := h.svc.Cattle.List(ctx)
	if err != nil {
		http.Error(w, "Failed to load cattle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = databaseTmpl.Execute(w, struct {
		Users   []core.User
		Orders  []core.Order
		Records []core.FinanceRecord
		Herd    []core.Cattle
	}{Users: users, Orders: orders, Records: records, Herd: herd})
}
