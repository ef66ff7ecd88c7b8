package leave

import (
	"strings"
	"time"
)

type Classification string

const (
	ClassAvailable Classification = "available"
	ClassBlocked   Classification = "blocked"
	ClassBooked    Classification = "booked"
)

// Booking is another employee's pending/approved leave holding part of
// a candidate range.
type Booking struct {
	LeaveID      int64     `json:"leaveId"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// RoleConflict reports the colliding same-role colleague for the
// operator exclusivity rule.
type RoleConflict struct {
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// Availability is the resolver's tri-state verdict for a range.
// Blocked is a hard veto; booked may proceed via the emergency/swap
// path; the role conflict is reported independently because it applies
// even to otherwise available dates.
type Availability struct {
	Classification Classification `json:"classification"`
	BookedBy       []Booking      `json:"bookedBy,omitempty"`
	RoleConflict   *RoleConflict  `json:"roleConflict,omitempty"`
}

func (a Availability) Blocked() bool { return a.Classification == ClassBlocked }
func (a Availability) Booked() bool  { return a.Classification == ClassBooked }

// BlockApplies decides whether one synthetic block row vetoes a
// candidate from the given department. Holidays must be global
// (department unset); important events veto globally or within their
// own department.
func BlockApplies(block LeaveRequest, departmentID int64) bool {
	switch block.BlockKind() {
	case BlockReasonHoliday:
		return block.DepartmentID == nil
	case BlockReasonImportantEvent:
		return block.DepartmentID == nil || *block.DepartmentID == departmentID
	}
	return false
}

// BuildAvailability assembles the tri-state classification from rows
// the store already narrowed to the candidate range: overlapping block
// rows, overlapping bookings by other employees, and overlapping
// bookings by same-department operators (only populated when the
// applicant is an operator).
func BuildAvailability(departmentID int64, blocks []LeaveRequest, bookings []Booking, operatorBookings []Booking) Availability {
	for _, block := range blocks {
		if BlockApplies(block, departmentID) {
			return Availability{Classification: ClassBlocked}
		}
	}

	availability := Availability{Classification: ClassAvailable}
	if len(bookings) > 0 {
		availability.Classification = ClassBooked
		availability.BookedBy = dedupeBookings(bookings)
	}

	if len(operatorBookings) > 0 {
		first := operatorBookings[0]
		availability.RoleConflict = &RoleConflict{
			EmployeeID:   first.EmployeeID,
			EmployeeName: first.EmployeeName,
			StartDate:    first.StartDate,
			EndDate:      first.EndDate,
		}
	}
	return availability
}

// IsOperator applies the case-insensitive designation match for the
// same-role exclusivity rule.
func IsOperator(designation string) bool {
	return strings.EqualFold(strings.TrimSpace(designation), DesignationOperator)
}

func dedupeBookings(bookings []Booking) []Booking {
	seen := make(map[int64]bool, len(bookings))
	out := make([]Booking, 0, len(bookings))
	for _, booking := range bookings {
		if seen[booking.EmployeeID] {
			continue
		}
		seen[booking.EmployeeID] = true
		out = append(out, booking)
	}
	return out
}
