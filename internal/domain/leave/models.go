package leave

import (
	"strings"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// BlockEmployeeID marks synthetic company/department-wide block rows.
// Rows with this employee id are never real leave and are excluded from
// every per-employee listing and report.
const BlockEmployeeID int64 = 0

const (
	BlockReasonHoliday        = "HOLIDAY"
	BlockReasonImportantEvent = "IMPORTANT_EVENT"
)

// DesignationOperator is the one designation subject to the
// department-level same-role exclusivity rule.
const DesignationOperator = "operator"

type Segment string

const (
	SegmentFullDay     Segment = "full_day"
	SegmentShiftStart  Segment = "shift_start"
	SegmentShiftMiddle Segment = "shift_middle"
	SegmentShiftEnd    Segment = "shift_end"
)

func (s Segment) Valid() bool {
	switch s {
	case SegmentFullDay, SegmentShiftStart, SegmentShiftMiddle, SegmentShiftEnd:
		return true
	}
	return false
}

// Half reports whether the segment trims its boundary day to a half day.
func (s Segment) Half() bool {
	return s != SegmentFullDay && s != ""
}

// ParseSegment canonicalizes a wire value to a Segment. Matching is
// case-insensitive and the empty string maps to full_day, so day math
// downstream only ever sees canonical values.
func ParseSegment(raw string) (Segment, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return SegmentFullDay, true
	}
	s := Segment(trimmed)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

type LeaveRequest struct {
	ID                       int64      `json:"id"`
	EmployeeID               int64      `json:"employeeId"`
	DepartmentID             *int64     `json:"departmentId,omitempty"`
	Status                   string     `json:"status"`
	StartDate                time.Time  `json:"startDate"`
	EndDate                  time.Time  `json:"endDate"`
	StartSegment             Segment    `json:"startSegment"`
	EndSegment               Segment    `json:"endSegment"`
	DaysRequested            float64    `json:"daysRequested"`
	IsPaid                   bool       `json:"isPaid"`
	IsUninformed             bool       `json:"isUninformed"`
	Reason                   string     `json:"reason"`
	EmergencyType            *string    `json:"emergencyType,omitempty"`
	RequestedSwapWithLeaveID *int64     `json:"requestedSwapWithLeaveId,omitempty"`
	SwapRespondedAt          *time.Time `json:"swapRespondedAt,omitempty"`
	SwapAccepted             *bool      `json:"swapAccepted,omitempty"`
	SwapEscalatedAt          *time.Time `json:"swapEscalatedAt,omitempty"`
	IsImportantDateOverride  bool       `json:"isImportantDateOverride"`
	PolicyReasonDetail       string     `json:"policyReasonDetail,omitempty"`
	ExpectedReturnDate       *time.Time `json:"expectedReturnDate,omitempty"`
	AcknowledgedBy           *int64     `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt           *time.Time `json:"acknowledgedAt,omitempty"`
	DecisionBy               *int64     `json:"decisionBy,omitempty"`
	DecisionAt               *time.Time `json:"decisionAt,omitempty"`
	DecisionReason           string     `json:"decisionReason,omitempty"`
	ApprovedViaSwap          bool       `json:"approvedViaSwap"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// IsBlock reports whether the row is a synthetic blocked-date entry.
func (r LeaveRequest) IsBlock() bool {
	return r.EmployeeID == BlockEmployeeID
}

// BlockKind returns HOLIDAY or IMPORTANT_EVENT for block rows, "" otherwise.
func (r LeaveRequest) BlockKind() string {
	switch {
	case strings.HasPrefix(r.Reason, BlockReasonImportantEvent):
		return BlockReasonImportantEvent
	case strings.HasPrefix(r.Reason, BlockReasonHoliday):
		return BlockReasonHoliday
	}
	return ""
}

type LeaveBalance struct {
	ID                 int64      `json:"id"`
	EmployeeID         int64      `json:"employeeId"`
	Year               int        `json:"year"`
	Month              time.Month `json:"month"`
	PaidQuota          int        `json:"paidQuota"`
	PaidUsed           float64    `json:"paidUsed"`
	UninformedLeaves   float64    `json:"uninformedLeaves"`
	NextMonthDeduction float64    `json:"nextMonthDeduction"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// EffectiveQuota is the month's paid quota after deductions carried in
// from earlier uninformed absences, floored at zero.
func (b LeaveBalance) EffectiveQuota() float64 {
	quota := float64(b.PaidQuota) - b.NextMonthDeduction
	if quota < 0 {
		return 0
	}
	return quota
}

// RemainingPaid is what the employee can still take as paid leave this
// month, floored at zero.
func (b LeaveBalance) RemainingPaid() float64 {
	remaining := b.EffectiveQuota() - b.PaidUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
