package leave

import (
	"testing"
	"time"
)

func TestValidateSwapResponse(t *testing.T) {
	now := time.Now()
	accepted := true

	cases := []struct {
		name      string
		requester LeaveRequest
		wantKind  RefusalKind
	}{
		{
			name:      "no swap in progress",
			requester: LeaveRequest{ID: 1, Status: StatusPending},
			wantKind:  RefusalNoSwap,
		},
		{
			name: "already responded",
			requester: LeaveRequest{
				ID: 1, Status: StatusPending,
				RequestedSwapWithLeaveID: int64p(9),
				SwapRespondedAt:          &now,
				SwapAccepted:             &accepted,
			},
			wantKind: RefusalAlreadyResponded,
		},
		{
			name: "not pending",
			requester: LeaveRequest{
				ID: 1, Status: StatusRejected,
				RequestedSwapWithLeaveID: int64p(9),
			},
			wantKind: RefusalNotPending,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refusal := ValidateSwapResponse(tc.requester)
			if refusal == nil {
				t.Fatal("expected refusal")
			}
			if refusal.Kind != tc.wantKind {
				t.Fatalf("expected %s, got %s", tc.wantKind, refusal.Kind)
			}
		})
	}
}

func TestValidateSwapResponseAllowsFreshPendingSwap(t *testing.T) {
	requester := LeaveRequest{
		ID: 1, Status: StatusPending,
		RequestedSwapWithLeaveID: int64p(9),
	}
	if refusal := ValidateSwapResponse(requester); refusal != nil {
		t.Fatalf("expected no refusal, got %v", refusal)
	}
}

func TestSwapResolvedByMove(t *testing.T) {
	requester := LeaveRequest{
		ID:                       1,
		Status:                   StatusPending,
		StartDate:                date(2026, time.March, 10),
		EndDate:                  date(2026, time.March, 11),
		RequestedSwapWithLeaveID: int64p(9),
	}

	movedAway := LeaveRequest{ID: 9, StartDate: date(2026, time.March, 20), EndDate: date(2026, time.March, 21)}
	if !SwapResolvedByMove(requester, movedAway) {
		t.Fatal("expected swap resolved after booker moved off the range")
	}

	stillOverlapping := LeaveRequest{ID: 9, StartDate: date(2026, time.March, 11), EndDate: date(2026, time.March, 12)}
	if SwapResolvedByMove(requester, stillOverlapping) {
		t.Fatal("expected swap unresolved while ranges still overlap")
	}

	otherLeave := LeaveRequest{ID: 8, StartDate: date(2026, time.March, 20), EndDate: date(2026, time.March, 21)}
	if SwapResolvedByMove(requester, otherLeave) {
		t.Fatal("expected no resolution from moving an unrelated leave")
	}

	noSwap := LeaveRequest{ID: 2, StartDate: date(2026, time.March, 10), EndDate: date(2026, time.March, 11)}
	if SwapResolvedByMove(noSwap, movedAway) {
		t.Fatal("expected no resolution for a requester without a pointer")
	}
}

func TestRefusalErrorAndUnwrap(t *testing.T) {
	refusal := refuse(RefusalDateBooked, "range is booked")
	var err error = refusal

	got, ok := AsRefusal(err)
	if !ok {
		t.Fatal("expected AsRefusal to match")
	}
	if got.Kind != RefusalDateBooked {
		t.Fatalf("expected date_booked, got %s", got.Kind)
	}
	if got.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}
