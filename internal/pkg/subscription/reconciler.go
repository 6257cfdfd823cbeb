package subscription

import (
	"log"
	"time"
)

// DefaultMaxOrders is the allowance assumed when neither the record nor
// its plan specifies one.
const DefaultMaxOrders = 100

// Reconciled is the authoritative subscription view for a branch, with
// usage metrics derived from the chosen record.
type Reconciled struct {
	Record          Record
	MaxOrders       int
	RemainingOrders int
	UsagePercentage int
}

// Reconcile selects the record representing the branch's current
// subscription from a status list that may contain rows for other
// branches. The second return value is false when the branch has no
// subscription (which is a valid state, not an error).
func Reconcile(branchID string, records []Record) (*Reconciled, bool) {
	return ReconcileAt(branchID, records, time.Now())
}

// ReconcileAt is Reconcile with an explicit clock. It is a pure function
// of its inputs: identical arguments always yield identical results.
//
// Tie-break order among records matching the branch: status active first,
// then a record whose validity window contains now, then the first match
// in received order. UI decisions (warnings, action labels) depend on
// this ordering, so it must not change.
func ReconcileAt(branchID string, records []Record, now time.Time) (*Reconciled, bool) {
	selected := IDRef(branchID).CanonicalID()
	if selected == "" || len(records) == 0 {
		return nil, false
	}

	var matches []Record
	for _, rec := range records {
		if rec.Branch.CanonicalID() == selected {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return nil, false
	}

	chosen := matches[0]
	found := false
	for _, rec := range matches {
		if NormalizeStatus(rec.Status) == StatusActive {
			chosen = rec
			found = true
			break
		}
	}
	if !found {
		for _, rec := range matches {
			if rec.InWindow(now) {
				chosen = rec
				break
			}
		}
	}

	// Final guard against cross-branch leakage from the status endpoint.
	// A mismatch here indicates an upstream data bug; log it loudly
	// instead of silently serving another branch's subscription.
	if chosen.Branch.CanonicalID() != selected {
		log.Printf("subscription reconcile: record %s branch %q does not match selected branch %q, treating as no subscription",
			chosen.ID, chosen.Branch.CanonicalID(), selected)
		return nil, false
	}

	maxOrders := effectiveMaxOrders(chosen)
	return &Reconciled{
		Record:          chosen,
		MaxOrders:       maxOrders,
		RemainingOrders: remainingOrders(maxOrders, chosen.OrderCount),
		UsagePercentage: usagePercentage(maxOrders, chosen.OrderCount),
	}, true
}

func effectiveMaxOrders(rec Record) int {
	if rec.MaxOrders > 0 {
		return rec.MaxOrders
	}
	if rec.Plan.HasDetail() && rec.Plan.MaxOrders > 0 {
		return rec.Plan.MaxOrders
	}
	return DefaultMaxOrders
}
