package leave

import (
	"testing"
	"time"
)

func int64p(v int64) *int64 { return &v }

func blockRow(kind string, departmentID *int64) LeaveRequest {
	return LeaveRequest{
		EmployeeID:   BlockEmployeeID,
		DepartmentID: departmentID,
		Reason:       kind + ": test",
		StartDate:    date(2026, time.March, 10),
		EndDate:      date(2026, time.March, 10),
	}
}

func TestBlockAppliesHolidayMustBeGlobal(t *testing.T) {
	if !BlockApplies(blockRow(BlockReasonHoliday, nil), 7) {
		t.Fatal("global holiday should veto any department")
	}
	// A holiday scoped to a department is malformed data and must not veto.
	if BlockApplies(blockRow(BlockReasonHoliday, int64p(7)), 7) {
		t.Fatal("department-scoped holiday should not apply")
	}
}

func TestBlockAppliesImportantEventScoping(t *testing.T) {
	if !BlockApplies(blockRow(BlockReasonImportantEvent, nil), 7) {
		t.Fatal("global important event should veto")
	}
	if !BlockApplies(blockRow(BlockReasonImportantEvent, int64p(7)), 7) {
		t.Fatal("same-department important event should veto")
	}
	if BlockApplies(blockRow(BlockReasonImportantEvent, int64p(3)), 7) {
		t.Fatal("other-department important event should not veto")
	}
}

func TestBlockAppliesUnknownReasonIgnored(t *testing.T) {
	block := blockRow("MAINTENANCE", nil)
	if BlockApplies(block, 7) {
		t.Fatal("unknown block kind should not veto")
	}
}

func TestBuildAvailabilityBlockedWinsOverBooked(t *testing.T) {
	blocks := []LeaveRequest{blockRow(BlockReasonHoliday, nil)}
	bookings := []Booking{{LeaveID: 1, EmployeeID: 2, EmployeeName: "Asha Perera"}}

	availability := BuildAvailability(7, blocks, bookings, nil)
	if !availability.Blocked() {
		t.Fatalf("expected blocked, got %s", availability.Classification)
	}
	if availability.Booked() {
		t.Fatal("blocked range must not also report booked")
	}
}

func TestBuildAvailabilityBooked(t *testing.T) {
	bookings := []Booking{
		{LeaveID: 1, EmployeeID: 2, EmployeeName: "Asha Perera"},
		{LeaveID: 3, EmployeeID: 2, EmployeeName: "Asha Perera"},
		{LeaveID: 4, EmployeeID: 5, EmployeeName: "Nuwan Silva"},
	}

	availability := BuildAvailability(7, nil, bookings, nil)
	if !availability.Booked() {
		t.Fatalf("expected booked, got %s", availability.Classification)
	}
	if len(availability.BookedBy) != 2 {
		t.Fatalf("expected bookers deduped per employee, got %d", len(availability.BookedBy))
	}
}

func TestBuildAvailabilityAvailable(t *testing.T) {
	availability := BuildAvailability(7, nil, nil, nil)
	if availability.Classification != ClassAvailable {
		t.Fatalf("expected available, got %s", availability.Classification)
	}
	if availability.RoleConflict != nil {
		t.Fatal("expected no role conflict")
	}
}

func TestBuildAvailabilityRoleConflictOnAvailableDates(t *testing.T) {
	operatorBookings := []Booking{{
		LeaveID:      9,
		EmployeeID:   4,
		EmployeeName: "Nuwan Silva",
		StartDate:    date(2026, time.March, 10),
		EndDate:      date(2026, time.March, 11),
	}}

	availability := BuildAvailability(7, nil, nil, operatorBookings)
	if availability.Classification != ClassAvailable {
		t.Fatalf("expected available, got %s", availability.Classification)
	}
	if availability.RoleConflict == nil {
		t.Fatal("expected role conflict")
	}
	if availability.RoleConflict.EmployeeName != "Nuwan Silva" {
		t.Fatalf("unexpected conflicting employee %q", availability.RoleConflict.EmployeeName)
	}
}

func TestIsOperatorCaseInsensitive(t *testing.T) {
	for _, designation := range []string{"operator", "Operator", "OPERATOR", "  operator "} {
		if !IsOperator(designation) {
			t.Fatalf("expected %q to be an operator", designation)
		}
	}
	if IsOperator("supervisor") {
		t.Fatal("supervisor is not an operator")
	}
}

func TestBlockKind(t *testing.T) {
	if got := blockRow(BlockReasonHoliday, nil).BlockKind(); got != BlockReasonHoliday {
		t.Fatalf("expected HOLIDAY, got %q", got)
	}
	if got := blockRow(BlockReasonImportantEvent, nil).BlockKind(); got != BlockReasonImportantEvent {
		t.Fatalf("expected IMPORTANT_EVENT, got %q", got)
	}
	regular := LeaveRequest{EmployeeID: 3, Reason: "family trip"}
	if got := regular.BlockKind(); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}
