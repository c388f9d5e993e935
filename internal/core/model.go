package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an identity record. Email is unique and stored lowercased.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Order is a purchase record owned by a user. CustomerName is free text and
// may differ from the owner's name. TotalValue is set at creation from the
// price catalog (quantity × unit rate).
type Order struct {
	ID           int             `json:"id"`
	UserID       int             `json:"userId"`
	CustomerName *string         `json:"customerName"`
	Product      string          `json:"product"`
	Quantity     int             `json:"quantity"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// FinanceRecord is a revenue-recognition entry. It is usually created
// alongside an order but lives independently afterwards: OrderID is nullable,
// OrderStatus is a copy taken at creation time and is NOT kept in sync with
// the order, and every field can be overridden through the finance endpoints.
type FinanceRecord struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	OrderID         *int            `json:"orderId"`
	CustomerName    string          `json:"customerName"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	ProductRate     decimal.Decimal `json:"productRate"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	OrderStatus     Status          `json:"orderStatus"`
	TransactionType string          `json:"transactionType"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Cattle shares the ownership pattern with Order but has no derived aggregates.
type Cattle struct {
	ID             int             `json:"id"`
	UserID         int             `json:"userId"`
	TagNumber      string          `json:"tagNumber"`
	Name           *string         `json:"name"`
	Breed          string          `json:"breed"`
	Gender         string          `json:"gender"`
	Age            *int            `json:"age"`
	Weight         *float64        `json:"weight"`
	HealthStatus   string          `json:"healthStatus"`
	MilkProduction decimal.Decimal `json:"milkProduction"`
	DateAcquired   *time.Time      `json:"dateAcquired"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
