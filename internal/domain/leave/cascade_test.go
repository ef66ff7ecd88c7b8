package leave

import (
	"testing"
	"time"
)

func flatQuota(quota float64) func(MonthKey) (float64, error) {
	return func(MonthKey) (float64, error) { return quota, nil }
}

func TestPlanDeductionsStartsMonthAfterEvent(t *testing.T) {
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.January, 15), Days: 1},
	}
	plan, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Allocations[MonthKey{2026, time.January}]; got != 0 {
		t.Fatalf("expected no deduction in the event month, got %v", got)
	}
	if got := plan.Allocations[MonthKey{2026, time.February}]; got != 1 {
		t.Fatalf("expected 1 in February, got %v", got)
	}
	if plan.Unallocated != 0 {
		t.Fatalf("expected no unallocated debt, got %v", plan.Unallocated)
	}
}

func TestPlanDeductionsSpillsAcrossMonths(t *testing.T) {
	// 3 days of debt against a quota of 2: February absorbs 2, March 1.
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.January, 10), Days: 3},
	}
	plan, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Allocations[MonthKey{2026, time.February}]; got != 2 {
		t.Fatalf("expected 2 in February, got %v", got)
	}
	if got := plan.Allocations[MonthKey{2026, time.March}]; got != 1 {
		t.Fatalf("expected 1 in March, got %v", got)
	}
}

func TestPlanDeductionsEarlierEventsClaimCapacityFirst(t *testing.T) {
	// Events arrive out of order; the January absence must fill February
	// before the February absence claims anything there.
	events := []UninformedEvent{
		{LeaveID: 2, StartDate: date(2026, time.February, 3), Days: 2},
		{LeaveID: 1, StartDate: date(2026, time.January, 20), Days: 2},
	}
	plan, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Allocations[MonthKey{2026, time.February}]; got != 2 {
		t.Fatalf("expected February full with 2, got %v", got)
	}
	if got := plan.Allocations[MonthKey{2026, time.March}]; got != 2 {
		t.Fatalf("expected February's overflow pushed to March, got %v", got)
	}
	if plan.Unallocated != 0 {
		t.Fatalf("expected no unallocated debt, got %v", plan.Unallocated)
	}
}

func TestPlanDeductionsHalfDays(t *testing.T) {
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.April, 7), Days: 2.5},
	}
	plan, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.Allocations[MonthKey{2026, time.May}]; got != 2 {
		t.Fatalf("expected 2 in May, got %v", got)
	}
	if got := plan.Allocations[MonthKey{2026, time.June}]; got != 0.5 {
		t.Fatalf("expected 0.5 in June, got %v", got)
	}
}

func TestPlanDeductionsDropsDebtPastHorizon(t *testing.T) {
	// Zero quota everywhere: nothing can ever be allocated, so the whole
	// debt must surface as unallocated instead of looping forever.
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.January, 5), Days: 4},
	}
	plan, err := PlanDeductions(events, flatQuota(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Allocations) != 0 {
		t.Fatalf("expected no allocations, got %v", plan.Allocations)
	}
	if plan.Unallocated != 4 {
		t.Fatalf("expected 4 unallocated, got %v", plan.Unallocated)
	}
}

func TestPlanDeductionsIgnoresNonPositiveEvents(t *testing.T) {
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.January, 5), Days: 0},
	}
	plan, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Allocations) != 0 || plan.Unallocated != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestPlanDeductionsRebuildIsIdempotent(t *testing.T) {
	// A full recompute over the same history lands on the same plan; this
	// is what lets a deleted absence roll everything back by re-planning.
	events := []UninformedEvent{
		{LeaveID: 1, StartDate: date(2026, time.January, 10), Days: 3},
		{LeaveID: 2, StartDate: date(2026, time.March, 2), Days: 1},
	}
	first, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PlanDeductions(events, flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Allocations) != len(second.Allocations) {
		t.Fatalf("plans differ: %+v vs %+v", first, second)
	}
	for month, amount := range first.Allocations {
		if second.Allocations[month] != amount {
			t.Fatalf("month %v differs: %v vs %v", month, amount, second.Allocations[month])
		}
	}

	// Dropping the first event frees February and March for the second.
	reduced, err := PlanDeductions(events[1:], flatQuota(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reduced.Allocations[MonthKey{2026, time.February}]; got != 0 {
		t.Fatalf("expected February freed, got %v", got)
	}
	if got := reduced.Allocations[MonthKey{2026, time.April}]; got != 1 {
		t.Fatalf("expected 1 in April, got %v", got)
	}
}

func TestSortedMonthsChronological(t *testing.T) {
	plan := DeductionPlan{Allocations: map[MonthKey]float64{
		{2027, time.January}:  1,
		{2026, time.December}: 2,
		{2026, time.February}: 1,
	}}
	months := plan.SortedMonths()
	for i := 1; i < len(months); i++ {
		if !months[i-1].Before(months[i]) {
			t.Fatalf("months out of order: %v", months)
		}
	}
}
