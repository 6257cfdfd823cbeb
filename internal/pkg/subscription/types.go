package subscription

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusPending = "pending"
	StatusUnknown = "unknown"
)

// Ref is a branch or plan reference as it appears on the wire. The status
// endpoint historically returns either a bare id string or an embedded
// object, so all call sites must go through CanonicalID/HasDetail instead
// of poking at the raw shape.
type Ref struct {
	ID             string
	Name           string
	Price          float64
	MaxOrders      int
	DurationInDays int

	embedded bool
}

type refObject struct {
	ID             string  `json:"_id"`
	AltID          string  `json:"id"`
	Name           string  `json:"name"`
	PlanName       string  `json:"planName"`
	Price          float64 `json:"price"`
	MaxOrders      int     `json:"maxOrders"`
	DurationInDays int     `json:"durationInDays"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = Ref{ID: strings.TrimSpace(id)}
		return nil
	}

	var obj refObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	name := obj.Name
	if name == "" {
		name = obj.PlanName
	}
	canonical := obj.ID
	if canonical == "" {
		canonical = obj.AltID
	}
	*r = Ref{
		ID:             strings.TrimSpace(canonical),
		Name:           strings.TrimSpace(name),
		Price:          obj.Price,
		MaxOrders:      obj.MaxOrders,
		DurationInDays: obj.DurationInDays,
		embedded:       true,
	}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.embedded {
		return json.Marshal(r.ID)
	}
	return json.Marshal(refObject{
		ID:             r.ID,
		Name:           r.Name,
		Price:          r.Price,
		MaxOrders:      r.MaxOrders,
		DurationInDays: r.DurationInDays,
	})
}

// CanonicalID returns the trimmed reference id regardless of wire shape.
func (r Ref) CanonicalID() string {
	return strings.TrimSpace(r.ID)
}

// HasDetail reports whether the reference carried an embedded object.
func (r Ref) HasDetail() bool {
	return r.embedded
}

// EmbeddedRef builds a Ref carrying embedded detail.
func EmbeddedRef(id, name string, price float64, maxOrders, durationDays int) Ref {
	return Ref{
		ID:             strings.TrimSpace(id),
		Name:           name,
		Price:          price,
		MaxOrders:      maxOrders,
		DurationInDays: durationDays,
		embedded:       true,
	}
}

// IDRef builds a bare-id Ref.
func IDRef(id string) Ref {
	return Ref{ID: strings.TrimSpace(id)}
}

// Record is one subscription-status row linking a branch to a plan for a
// validity window.
type Record struct {
	ID         string    `json:"_id"`
	Branch     Ref       `json:"branch"`
	Plan       Ref       `json:"subscription"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	OrderCount int       `json:"orderCount"`
	// MaxOrders is the record-level allowance when present; plan-level
	// maxOrders applies otherwise.
	MaxOrders int    `json:"maxOrders,omitempty"`
	Status    string `json:"status"`
	// Price is a flat fallback for records whose plan ref carries none.
	Price float64 `json:"price,omitempty"`
}

// NormalizeStatus maps arbitrary status strings onto the known lifecycle
// values, defaulting to unknown.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StatusActive:
		return StatusActive
	case StatusExpired:
		return StatusExpired
	case StatusPending:
		return StatusPending
	default:
		return StatusUnknown
	}
}

// InWindow reports whether now falls inside [StartDate, EndDate].
func (r Record) InWindow(now time.Time) bool {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return false
	}
	return !now.Before(r.StartDate) && !now.After(r.EndDate)
}

// ResolvePrice returns the price to charge for renewing this record:
// plan-embedded price first, flat record price second. The boolean is
// false when no positive price can be resolved.
func (r Record) ResolvePrice() (float64, bool) {
	if r.Plan.HasDetail() && r.Plan.Price > 0 {
		return r.Plan.Price, true
	}
	if r.Price > 0 {
		return r.Price, true
	}
	return 0, false
}
