package leave

import (
	"sort"
	"time"
)

// cascadeHorizonYears caps how far past an event's year the allocation
// walk may go. Debt that cannot be placed inside the horizon is dropped;
// the applier logs and audits the remainder.
const cascadeHorizonYears = 5

// UninformedEvent is one approved uninformed absence feeding the
// deduction cascade.
type UninformedEvent struct {
	LeaveID   int64
	StartDate time.Time
	Days      float64
}

// DeductionPlan is the outcome of a full cascade recompute: how much to
// deduct from each future month, plus any debt the horizon dropped.
type DeductionPlan struct {
	Allocations map[MonthKey]float64
	Unallocated float64
}

// PlanDeductions translates an employee's uninformed-absence history
// into next-month deductions. Events are processed in ascending
// start-date order so earlier absences claim earlier future capacity
// first; each event's debt lands strictly after its own month and fills
// months until exhausted or the horizon is reached.
//
// quotaFor resolves the paid quota of a candidate month; the service
// backs it with get-or-create balance reads inside the caller's
// transaction.
func PlanDeductions(events []UninformedEvent, quotaFor func(MonthKey) (float64, error)) (DeductionPlan, error) {
	plan := DeductionPlan{Allocations: make(map[MonthKey]float64)}

	ordered := make([]UninformedEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	for _, event := range ordered {
		remaining := event.Days
		if remaining <= 0 {
			continue
		}

		horizonYear := event.StartDate.Year() + cascadeHorizonYears
		month := MonthKeyOf(event.StartDate).Next()
		for remaining > 0 && month.Year <= horizonYear {
			quota, err := quotaFor(month)
			if err != nil {
				return DeductionPlan{}, err
			}
			capacity := quota - plan.Allocations[month]
			if capacity > 0 {
				allocation := remaining
				if capacity < allocation {
					allocation = capacity
				}
				plan.Allocations[month] += allocation
				remaining -= allocation
			}
			month = month.Next()
		}
		plan.Unallocated += remaining
	}

	return plan, nil
}

// SortedMonths returns the plan's months in chronological order for
// deterministic writes.
func (p DeductionPlan) SortedMonths() []MonthKey {
	months := make([]MonthKey, 0, len(p.Allocations))
	for month := range p.Allocations {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}
