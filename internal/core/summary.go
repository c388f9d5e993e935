package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the dashboard's derived view over one user's orders and finance
// records. Every metric is recomputed from the raw rows on each call; there
// is no cached state, so two calls with the same inputs always agree.
type Snapshot struct {
	// TodayRevenue sums today's finance records that pass the
	// revenue-inclusion predicate.
	TodayRevenue decimal.Decimal `json:"todayRevenue"`
	// TodayOrdersValue sums today's raw order values with no status filter.
	// A distinct signal from TodayRevenue — do not conflate the two.
	TodayOrdersValue decimal.Decimal `json:"todayOrdersValue"`
	TodayOrdersCount int             `json:"todayOrdersCount"`
	// DisplayedRevenue is the single "today" figure a dashboard tile shows:
	// finance revenue when there is any, otherwise the raw order value, so a
	// fresh system with orders but no finance rows never shows zero.
	DisplayedRevenue decimal.Decimal `json:"displayedRevenue"`
	ActiveOrders     int             `json:"activeOrders"`
	StatusCounts     map[Status]int  `json:"statusCounts"`
	TotalOrders      int             `json:"totalOrders"`
}

// sameCalendarDay compares two instants by calendar day in t's location.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Summarize derives the dashboard snapshot from raw rows. It is the one
// aggregation function every view consumes; screens must not re-derive their
// own filter/reduce over the same data.
func Summarize(now time.Time, orders []Order, records []FinanceRecord) Snapshot {
	snap := Snapshot{
		TodayRevenue:     decimal.Zero,
		TodayOrdersValue: decimal.Zero,
		StatusCounts:     make(map[Status]int),
		TotalOrders:      len(orders),
	}

	for _, o := range orders {
		snap.StatusCounts[o.Status]++
		if o.Status.IsActive() {
			snap.ActiveOrders++
		}
		if sameCalendarDay(o.CreatedAt, now) {
			snap.TodayOrdersValue = snap.TodayOrdersValue.Add(o.TotalValue)
			snap.TodayOrdersCount++
		}
	}

	for _, r := range records {
		if sameCalendarDay(r.CreatedAt, now) && r.OrderStatus.CountsTowardRevenue() {
			snap.TodayRevenue = snap.TodayRevenue.Add(r.TotalValue)
		}
	}

	snap.DisplayedRevenue = snap.TodayRevenue
	if !snap.TodayRevenue.IsPositive() {
		snap.DisplayedRevenue = snap.TodayOrdersValue
	}
	return snap
}
