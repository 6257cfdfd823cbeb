package subscription

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func window(rec Record, startOffset, endOffset time.Duration) Record {
	rec.StartDate = testNow.Add(startOffset)
	rec.EndDate = testNow.Add(endOffset)
	return rec
}

func TestReconcileAt_EmptyInputs(t *testing.T) {
	if _, ok := ReconcileAt("", []Record{{Branch: IDRef("X")}}, testNow); ok {
		t.Fatalf("expected no result without a selected branch")
	}
	if _, ok := ReconcileAt("X", nil, testNow); ok {
		t.Fatalf("expected no result for empty record list")
	}
}

func TestReconcileAt_FiltersOtherBranches(t *testing.T) {
	records := []Record{
		{ID: "s1", Branch: IDRef("Y"), Status: StatusActive},
		{ID: "s2", Branch: IDRef("Z"), Status: StatusActive},
	}
	if _, ok := ReconcileAt("X", records, testNow); ok {
		t.Fatalf("expected no subscription when only other branches are present")
	}
}

func TestReconcileAt_PrefersActiveRegardlessOfOrder(t *testing.T) {
	expired := window(Record{ID: "old", Branch: IDRef("X"), Status: StatusExpired}, -48*time.Hour, -24*time.Hour)
	active := window(Record{ID: "cur", Branch: IDRef("X"), Status: StatusActive, OrderCount: 5, MaxOrders: 100}, -time.Hour, 24*time.Hour)

	for _, records := range [][]Record{
		{expired, active},
		{active, expired},
	} {
		got, ok := ReconcileAt("X", records, testNow)
		if !ok {
			t.Fatalf("expected a reconciled record")
		}
		if got.Record.ID != "cur" {
			t.Fatalf("expected active record, got %q", got.Record.ID)
		}
		if got.RemainingOrders != 95 {
			t.Fatalf("remaining = %d, want 95", got.RemainingOrders)
		}
		if got.UsagePercentage != 5 {
			t.Fatalf("usage = %d, want 5", got.UsagePercentage)
		}
		if got.IsCreditsLow() {
			t.Fatalf("expected credits not low at 5%% usage")
		}
	}
}

func TestReconcileAt_FallsBackToCurrentWindow(t *testing.T) {
	past := window(Record{ID: "past", Branch: IDRef("X"), Status: StatusExpired}, -96*time.Hour, -48*time.Hour)
	current := window(Record{ID: "cur", Branch: IDRef("X"), Status: StatusPending}, -time.Hour, 24*time.Hour)

	got, ok := ReconcileAt("X", []Record{past, current}, testNow)
	if !ok || got.Record.ID != "cur" {
		t.Fatalf("expected in-window record, got %+v ok=%v", got, ok)
	}
}

func TestReconcileAt_FallsBackToFirstMatch(t *testing.T) {
	a := window(Record{ID: "a", Branch: IDRef("X"), Status: StatusExpired}, -96*time.Hour, -48*time.Hour)
	b := window(Record{ID: "b", Branch: IDRef("X"), Status: StatusExpired}, -200*time.Hour, -150*time.Hour)

	got, ok := ReconcileAt("X", []Record{a, b}, testNow)
	if !ok || got.Record.ID != "a" {
		t.Fatalf("expected first match in received order, got %+v ok=%v", got, ok)
	}
}

func TestReconcileAt_TrimsAndMatchesEmbeddedRefs(t *testing.T) {
	rec := window(Record{
		ID:     "s1",
		Branch: EmbeddedRef("  X  ", "Main Street", 0, 0, 0),
		Status: StatusActive,
	}, -time.Hour, time.Hour)

	got, ok := ReconcileAt(" X ", []Record{rec}, testNow)
	if !ok || got.Record.ID != "s1" {
		t.Fatalf("expected embedded-object branch ref to match after trimming")
	}
}

func TestReconcileAt_DefaultMaxOrders(t *testing.T) {
	rec := window(Record{ID: "s1", Branch: IDRef("X"), Status: StatusActive, OrderCount: 40}, -time.Hour, time.Hour)

	got, ok := ReconcileAt("X", []Record{rec}, testNow)
	if !ok {
		t.Fatalf("expected a reconciled record")
	}
	if got.MaxOrders != DefaultMaxOrders {
		t.Fatalf("max orders = %d, want fallback %d", got.MaxOrders, DefaultMaxOrders)
	}
	if got.RemainingOrders != 60 {
		t.Fatalf("remaining = %d, want 60", got.RemainingOrders)
	}
}

func TestReconcileAt_PlanMaxOrdersUsedWhenRecordHasNone(t *testing.T) {
	rec := window(Record{
		ID:         "s1",
		Branch:     IDRef("X"),
		Plan:       EmbeddedRef("p1", "Growth", 4999, 500, 90),
		Status:     StatusActive,
		OrderCount: 100,
	}, -time.Hour, time.Hour)

	got, ok := ReconcileAt("X", []Record{rec}, testNow)
	if !ok || got.MaxOrders != 500 {
		t.Fatalf("expected plan maxOrders 500, got %+v ok=%v", got, ok)
	}
	if got.UsagePercentage != 20 {
		t.Fatalf("usage = %d, want 20", got.UsagePercentage)
	}
}

func TestReconcileAt_Idempotent(t *testing.T) {
	records := []Record{
		window(Record{ID: "a", Branch: IDRef("X"), Status: StatusExpired}, -96*time.Hour, -48*time.Hour),
		window(Record{ID: "b", Branch: IDRef("X"), Status: StatusActive, OrderCount: 3, MaxOrders: 50}, -time.Hour, time.Hour),
	}

	first, ok1 := ReconcileAt("X", records, testNow)
	second, ok2 := ReconcileAt("X", records, testNow)
	if ok1 != ok2 || !reflect.DeepEqual(first, second) {
		t.Fatalf("reconcile is not idempotent: %+v vs %+v", first, second)
	}
}

func TestRecordJSON_RefShapes(t *testing.T) {
	raw := []byte(`[
		{"_id":"s1","branch":"b42","subscription":"p1","startDate":"2025-01-01T00:00:00Z","endDate":"2025-12-31T00:00:00Z","orderCount":10,"status":"active"},
		{"_id":"s2","branch":{"_id":"b42","name":"Main"},"subscription":{"_id":"p2","planName":"Growth","price":4999,"maxOrders":500},"startDate":"2025-01-01T00:00:00Z","endDate":"2025-12-31T00:00:00Z","orderCount":10,"status":"expired"}
	]`)

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if records[0].Branch.CanonicalID() != "b42" || records[0].Branch.HasDetail() {
		t.Fatalf("expected bare-id branch ref, got %+v", records[0].Branch)
	}
	if records[1].Branch.CanonicalID() != "b42" || !records[1].Branch.HasDetail() {
		t.Fatalf("expected embedded branch ref, got %+v", records[1].Branch)
	}
	if records[1].Plan.Name != "Growth" || records[1].Plan.Price != 4999 || records[1].Plan.MaxOrders != 500 {
		t.Fatalf("embedded plan detail not parsed: %+v", records[1].Plan)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "active", want: StatusActive},
		{in: " ACTIVE ", want: StatusActive},
		{in: "expired", want: StatusExpired},
		{in: "pending", want: StatusPending},
		{in: "whatever", want: StatusUnknown},
		{in: "", want: StatusUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePrice(t *testing.T) {
	withPlanPrice := Record{Plan: EmbeddedRef("p1", "Growth", 4999, 500, 90), Price: 100}
	if price, ok := withPlanPrice.ResolvePrice(); !ok || price != 4999 {
		t.Fatalf("expected plan-embedded price to win, got %v ok=%v", price, ok)
	}

	flatOnly := Record{Plan: IDRef("p1"), Price: 1500}
	if price, ok := flatOnly.ResolvePrice(); !ok || price != 1500 {
		t.Fatalf("expected flat record price, got %v ok=%v", price, ok)
	}

	none := Record{Plan: IDRef("p1")}
	if _, ok := none.ResolvePrice(); ok {
		t.Fatalf("expected no resolvable price")
	}
}
