package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leavedesk/internal/domain/directory"
)

// Outcome distinguishes how a request ended up approved. The
// over-quota variant records that the paid debit was downgraded to
// unpaid rather than refused.
type Outcome string

const (
	OutcomeApproved                Outcome = "approved"
	OutcomePending                 Outcome = "pending"
	OutcomeRejected                Outcome = "rejected"
	OutcomeApprovedUnpaidOverQuota Outcome = "approved_unpaid_over_quota"
)

type ApplyInput struct {
	EmployeeID              int64
	StartDate               time.Time
	EndDate                 time.Time
	StartSegment            Segment
	EndSegment              Segment
	Reason                  string
	Paid                    bool
	EmergencyType           *string
	IsImportantDateOverride bool
	PolicyReasonDetail      string
	ExpectedReturnDate      *time.Time
}

type ApplyResult struct {
	Request LeaveRequest `json:"request"`
	Outcome Outcome      `json:"outcome"`
}

// Apply runs the full admission decision table: blocked veto, booked
// date, paid quota, operator exclusivity, then creates the request with
// its initial status. Everything happens in one transaction.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (ApplyResult, error) {
	var result ApplyResult
	err := s.withTx(ctx, func(scope txScope) error {
		emp, err := scope.dir.EmployeeByID(ctx, input.EmployeeID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return fmt.Errorf("employee %d: %w", input.EmployeeID, ErrNotFound)
			}
			return err
		}

		start, end := DateOnly(input.StartDate), DateOnly(input.EndDate)
		days, err := CalculateRequestDays(start, end, input.StartSegment, input.EndSegment)
		if err != nil {
			return err
		}

		availability, err := s.classifyRange(ctx, scope, emp, start, end, 0)
		if err != nil {
			return err
		}

		// 1. Blocked dates veto everything; no record is created.
		if availability.Blocked() {
			return refuse(RefusalDateBlocked, "range %s..%s intersects a blocked date",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
		}

		// 2. A paid request on a booked date needs an emergency reason.
		if availability.Booked() && input.Paid && input.EmergencyType == nil {
			refusal := refuse(RefusalDateBooked, "range is booked by another employee")
			refusal.BookedBy = availability.BookedBy
			return refusal
		}

		// 3. Paid leave must fit the month's effective quota.
		if input.Paid {
			bal, err := scope.store.GetOrCreateBalance(ctx, emp.ID, QuotaMonth(start), s.DefaultQuota)
			if err != nil {
				return err
			}
			if days > bal.RemainingPaid() {
				refusal := refuse(RefusalPaidNotAvailable, "requested %.1f paid days, %.1f remaining", days, bal.RemainingPaid())
				refusal.RemainingPaid = bal.RemainingPaid()
				return refusal
			}
		}

		// 4. Department same-role exclusivity (operators only).
		if availability.RoleConflict != nil {
			refusal := refuse(RefusalConflict, "%s already has overlapping leave %s..%s",
				availability.RoleConflict.EmployeeName,
				availability.RoleConflict.StartDate.Format("2006-01-02"),
				availability.RoleConflict.EndDate.Format("2006-01-02"))
			refusal.Conflict = availability.RoleConflict
			return refusal
		}

		// 5. Create. Paid-and-available auto-approves; everything else
		// waits for a decision or the swap handshake.
		req := LeaveRequest{
			EmployeeID:              emp.ID,
			DepartmentID:            &emp.DepartmentID,
			Status:                  StatusPending,
			StartDate:               start,
			EndDate:                 end,
			StartSegment:            input.StartSegment,
			EndSegment:              input.EndSegment,
			DaysRequested:           days,
			IsPaid:                  input.Paid,
			Reason:                  input.Reason,
			EmergencyType:           input.EmergencyType,
			IsImportantDateOverride: input.IsImportantDateOverride,
			PolicyReasonDetail:      input.PolicyReasonDetail,
			ExpectedReturnDate:      input.ExpectedReturnDate,
		}
		if availability.Booked() && input.EmergencyType != nil {
			// Engage the swap negotiation against the first booker.
			req.RequestedSwapWithLeaveID = &availability.BookedBy[0].LeaveID
		}

		autoApprove := input.Paid && !availability.Booked()
		if autoApprove {
			req.Status = StatusApproved
		}

		if err := scope.store.InsertRequest(ctx, &req); err != nil {
			return err
		}

		result.Outcome = OutcomePending
		if autoApprove {
			outcome, err := s.debitPaid(ctx, scope, &req)
			if err != nil {
				return err
			}
			result.Outcome = outcome
		}
		result.Request = req
		return nil
	})
	return result, err
}
