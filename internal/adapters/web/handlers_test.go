package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dairyfarm/internal/adapters/web"
	"dairyfarm/internal/core"
)

const testSecret = "test-secret"

// ── Service fakes ─────────────────────────────────────────────────────────────
//
// Each fake embeds its interface so only the methods a test exercises need an
// implementation; calling anything else panics loudly.

type fakeUsers struct {
	core.UserService
	registerFn func(in core.RegisterInput) (*core.User, error)
	loginFn    func(email, password string) (*core.User, error)
	getFn      func(id int) (*core.User, error)
	listFn     func() ([]core.User, error)
}

func (f *fakeUsers) Register(_ context.Context, in core.RegisterInput) (*core.User, error) {
	return f.registerFn(in)
}
func (f *fakeUsers) Login(_ context.Context, email, password string) (*core.User, error) {
	return f.loginFn(email, password)
}
func (f *fakeUsers) GetByID(_ context.Context, id int) (*core.User, error) { return f.getFn(id) }
func (f *fakeUsers) ListUsers(_ context.Context) ([]core.User, error)      { return f.listFn() }

type fakeOrders struct {
	core.OrderService
	createFn func(ownerID int, in core.CreateOrderInput) (*core.Order, error)
	listFn   func(callerID int, role core.Role) ([]core.Order, error)
	deleteFn func(orderID, callerID int, role core.Role) error
}

func (f *fakeOrders) Create(_ context.Context, ownerID int, in core.CreateOrderInput) (*core.Order, error) {
	return f.createFn(ownerID, in)
}
func (f *fakeOrders) List(_ context.Context, callerID int, role core.Role) ([]core.Order, error) {
	return f.listFn(callerID, role)
}
func (f *fakeOrders) Delete(_ context.Context, orderID, callerID int, role core.Role) error {
	return f.deleteFn(orderID, callerID, role)
}

type fakeFinance struct {
	core.FinanceService
	listFn func(userID int) ([]core.FinanceRecord, error)
}

func (f *fakeFinance) List(_ context.Context, userID int) ([]core.FinanceRecord, error) {
	return f.listFn(userID)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func newTestHandler(svc web.Services) http.Handler {
	return web.NewHandler(svc, web.Options{
		JWTSecret:    testSecret,
		JWTTTL:       time.Hour,
		PollInterval: 25 * time.Second,
	})
}

func bearerToken(t *testing.T, userID int, role core.Role, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":        userID,
		"email":     "user@example.com",
		"firstName": "Test",
		"role":      string(role),
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

// ── Auth middleware ───────────────────────────────────────────────────────────

func TestAuth_MissingTokenIs401(t *testing.T) {
	h := newTestHandler(web.Services{})

	rec := doRequest(h, http.MethodGet, "/api/orders", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token required", errorBody(t, rec))
}

func TestAuth_InvalidTokenIs403(t *testing.T) {
	h := newTestHandler(web.Services{})

	rec := doRequest(h, http.MethodGet, "/api/orders", "not-a-jwt", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, rec))
}

func TestAuth_ExpiredTokenIs403(t *testing.T) {
	h := newTestHandler(web.Services{})
	expired := bearerToken(t, 1, core.RoleUser, -time.Minute)

	rec := doRequest(h, http.MethodGet, "/api/orders", expired, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_AdminGuard(t *testing.T) {
	h := newTestHandler(web.Services{
		Users: &fakeUsers{listFn: func() ([]core.User, error) {
			return []core.User{{ID: 1, Email: "a@b.c"}}, nil
		}},
	})

	rec := doRequest(h, http.MethodGet, "/api/admin/users", bearerToken(t, 1, core.RoleUser, time.Hour), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", errorBody(t, rec))

	rec = doRequest(h, http.MethodGet, "/api/admin/users", bearerToken(t, 1, core.RoleAdmin, time.Hour), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ── Auth endpoints ────────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	h := newTestHandler(web.Services{
		Users: &fakeUsers{registerFn: func(in core.RegisterInput) (*core.User, error) {
			assert.Equal(t, "jo@farm.local", in.Email)
			return &core.User{ID: 7, Email: in.Email, FirstName: in.FirstName, Role: core.RoleUser}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/auth/register", "",
		`{"email":"jo@farm.local","password":"secret123","firstName":"Jo","lastName":"Farmer"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message string    `json:"message"`
		Token   string    `json:"token"`
		User    core.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 7, resp.User.ID)
}

func TestRegister_DuplicateEmailIs409(t *testing.T) {
	h := newTestHandler(web.Services{
		Users: &fakeUsers{registerFn: func(core.RegisterInput) (*core.User, error) {
			return nil, core.ErrEmailTaken
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/auth/register", "",
		`{"email":"jo@farm.local","password":"secret123","firstName":"Jo","lastName":"Farmer"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists", errorBody(t, rec))
}

func TestLogin_InvalidCredentialsIs401(t *testing.T) {
	h := newTestHandler(web.Services{
		Users: &fakeUsers{loginFn: func(string, string) (*core.User, error) {
			return nil, &core.AuthError{Msg: "Invalid credentials"}
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/auth/login", "",
		`{"email":"jo@farm.local","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", errorBody(t, rec))
}

// ── Orders ────────────────────────────────────────────────────────────────────

func TestListOrders_EmptyIsJSONArray(t *testing.T) {
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{listFn: func(int, core.Role) ([]core.Order, error) {
			return nil, nil
		}},
	})

	rec := doRequest(h, http.MethodGet, "/api/orders", bearerToken(t, 1, core.RoleUser, time.Hour), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateOrder_ValidationErrorIs400(t *testing.T) {
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{createFn: func(int, core.CreateOrderInput) (*core.Order, error) {
			return nil, &core.ValidationError{Msg: "Quantity must be a positive number"}
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/orders", bearerToken(t, 1, core.RoleUser, time.Hour),
		`{"product":"Fresh Milk","quantity":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be a positive number", errorBody(t, rec))
}

func TestCreateOrder_PassesCallerIdentity(t *testing.T) {
	var gotOwner int
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{createFn: func(ownerID int, in core.CreateOrderInput) (*core.Order, error) {
			gotOwner = ownerID
			return &core.Order{ID: 3, UserID: ownerID, Product: in.Product, Quantity: in.Quantity,
				TotalValue: decimal.NewFromInt(50000), Status: core.StatusProcessing}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/orders", bearerToken(t, 42, core.RoleUser, time.Hour),
		`{"product":"Fresh Milk","quantity":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 42, gotOwner)
}

func TestDeleteOrder_NotFoundIs404(t *testing.T) {
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{deleteFn: func(int, int, core.Role) error {
			return &core.NotFoundError{Msg: "Order not found or not authorized"}
		}},
	})

	rec := doRequest(h, http.MethodDelete, "/api/orders/99", bearerToken(t, 1, core.RoleUser, time.Hour), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found or not authorized", errorBody(t, rec))
}

// ── Browser views ─────────────────────────────────────────────────────────────

func TestOrdersPage_RequiresToken(t *testing.T) {
	var gotCaller int
	var gotRole core.Role
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{listFn: func(callerID int, role core.Role) ([]core.Order, error) {
			gotCaller, gotRole = callerID, role
			return []core.Order{{ID: 1, UserID: callerID, Product: "Fresh Milk", Quantity: 2,
				TotalValue: decimal.NewFromInt(50000), Status: core.StatusProcessing}}, nil
		}},
	})

	// Anonymous requests must not render anyone's orders.
	rec := doRequest(h, http.MethodGet, "/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Fresh Milk")

	// A token in the query parameter works for plain browser use, and the
	// caller's own identity scopes the list.
	rec = doRequest(h, http.MethodGet, "/orders?token="+bearerToken(t, 42, core.RoleUser, time.Hour), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fresh Milk")
	assert.Equal(t, 42, gotCaller)
	assert.Equal(t, core.RoleUser, gotRole)
}

func TestDatabasePage_AdminOnly(t *testing.T) {
	h := newTestHandler(web.Services{})

	rec := doRequest(h, http.MethodGet, "/database?token="+bearerToken(t, 1, core.RoleUser, time.Hour), "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin access required")
}

// ── Finance and dashboard ─────────────────────────────────────────────────────

func TestFinanceSummary_InvalidWindowIs400(t *testing.T) {
	h := newTestHandler(web.Services{Finance: &fakeFinance{}})

	rec := doRequest(h, http.MethodGet, "/api/finance/summary?window=year",
		bearerToken(t, 1, core.RoleUser, time.Hour), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "Invalid window")
}

func TestDashboardSummary(t *testing.T) {
	now := time.Now()
	h := newTestHandler(web.Services{
		Orders: &fakeOrders{listFn: func(int, core.Role) ([]core.Order, error) {
			return []core.Order{
				{Status: core.StatusDelivered, TotalValue: decimal.NewFromInt(125000), CreatedAt: now},
				{Status: core.StatusPending, TotalValue: decimal.NewFromInt(12000), CreatedAt: now},
			}, nil
		}},
		Finance: &fakeFinance{listFn: func(int) ([]core.FinanceRecord, error) {
			return []core.FinanceRecord{
				{OrderStatus: core.StatusDelivered, TotalValue: decimal.NewFromInt(125000), CreatedAt: now},
			}, nil
		}},
	})

	rec := doRequest(h, http.MethodGet, "/api/dashboard/summary",
		bearerToken(t, 1, core.RoleUser, time.Hour), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		DisplayedRevenue decimal.Decimal `json:"displayedRevenue"`
		ActiveOrders     int             `json:"activeOrders"`
		TotalOrders      int             `json:"totalOrders"`
		PollInterval     int             `json:"pollIntervalSeconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.DisplayedRevenue.Equal(decimal.NewFromInt(125000)),
		"displayedRevenue = %s", resp.DisplayedRevenue)
	assert.Equal(t, 1, resp.ActiveOrders)
	assert.Equal(t, 2, resp.TotalOrders)
	assert.Equal(t, 25, resp.PollInterval)
}
