package core

import "strings"

// Status is an order's lifecycle state. The happy path runs
// pending → processing → shipped → delivered, with cancelled reachable from
// any non-terminal state. The machine is advisory: operations validate that a
// value belongs to the set, not that a transition is legal from the current
// state, so a "terminal" order can technically be re-opened.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every legal status value, in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the fixed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes raw client input to a Status. Matching is
// case-insensitive; the stored value is always the lowercase form.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// StatusList returns the legal set as a comma-separated string, for error
// messages like "Invalid status. Must be one of: ...".
func StatusList() string {
	names := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// CountsTowardRevenue is the revenue-inclusion predicate: a finance record
// contributes to revenue totals only while its order status is delivered,
// shipped, or processing. Pending and cancelled records contribute nothing.
// This is the single definition — aggregation sites must call it rather than
// spell the set out again.
func (s Status) CountsTowardRevenue() bool {
	switch s {
	case StatusDelivered, StatusShipped, StatusProcessing:
		return true
	}
	return false
}

// RevenueStatuses returns the statuses satisfying CountsTowardRevenue, for
// building SQL filters from the same definition the in-memory predicate uses.
func RevenueStatuses() []Status {
	var out []Status
	for _, s := range AllStatuses {
		if s.CountsTowardRevenue() {
			out = append(out, s)
		}
	}
	return out
}

// IsActive reports whether an order still needs attention: processing,
// shipped, or pending. Note the set differs from CountsTowardRevenue by one
// element on each side (pending is active but earns nothing; delivered earns
// but is done) — the two must never be merged.
func (s Status) IsActive() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusPending:
		return true
	}
	return false
}
