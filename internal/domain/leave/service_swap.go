package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// RespondSwap records the booker's one-time accept/reject of a swap
// request pointing at their leave. Acceptance is a promise to move;
// the actual release happens when the booker edits their dates.
func (s *Service) RespondSwap(ctx context.Context, requestingLeaveID, bookerID int64, accept bool) (LeaveRequest, error) {
	var updated LeaveRequest
	err := s.withTx(ctx, func(scope txScope) error {
		req, err := scope.store.GetRequestForUpdate(ctx, requestingLeaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if refusal := ValidateSwapResponse(req); refusal != nil {
			return refusal
		}

		target, err := scope.store.GetRequest(ctx, *req.RequestedSwapWithLeaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return refuse(RefusalNoSwap, "the booked leave no longer exists")
			}
			return err
		}
		if target.EmployeeID != bookerID {
			return refuse(RefusalNotBooker, "employee %d does not hold leave %d", bookerID, target.ID)
		}

		if err := scope.store.SetSwapResponse(ctx, req.ID, accept); err != nil {
			return err
		}
		now := time.Now().UTC()
		req.SwapRespondedAt = &now
		req.SwapAccepted = &accept
		updated = req
		return nil
	})
	return updated, err
}

type MoveInput struct {
	LeaveID      int64
	ActorID      int64
	ActorIsAdmin bool
	StartDate    time.Time
	EndDate      time.Time
	StartSegment Segment
	EndSegment   Segment
}

type MoveResult struct {
	Request LeaveRequest `json:"request"`
	// Resolved lists swap requesters released by this move, with the
	// outcome each one auto-transitioned to.
	Resolved []SwapResolution `json:"resolved,omitempty"`
}

type SwapResolution struct {
	LeaveID    int64   `json:"leaveId"`
	EmployeeID int64   `json:"employeeId"`
	Outcome    Outcome `json:"outcome"`
}

// MoveDates re-dates an existing leave. The new range must be fully
// available. Afterwards every pending swap requester pointing at this
// leave is re-checked: a released range auto-approves paid requesters
// and parks regular ones for admin acknowledgment.
func (s *Service) MoveDates(ctx context.Context, input MoveInput) (MoveResult, error) {
	var result MoveResult
	err := s.withTx(ctx, func(scope txScope) error {
		req, err := scope.store.GetRequestForUpdate(ctx, input.LeaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if req.IsBlock() || req.IsUninformed {
			return ErrNotFound
		}
		if req.EmployeeID != input.ActorID && !input.ActorIsAdmin {
			return ErrForbidden
		}
		if req.Status != StatusPending && req.Status != StatusApproved {
			return refuse(RefusalNotPending, "leave %d is %s", input.LeaveID, req.Status)
		}

		emp, err := scope.dir.EmployeeByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		start, end := DateOnly(input.StartDate), DateOnly(input.EndDate)
		days, err := CalculateRequestDays(start, end, input.StartSegment, input.EndSegment)
		if err != nil {
			return err
		}

		availability, err := s.classifyRange(ctx, scope, emp, start, end, req.ID)
		if err != nil {
			return err
		}
		if availability.Blocked() {
			return refuse(RefusalDateBlocked, "new range intersects a blocked date")
		}
		if availability.Booked() {
			refusal := refuse(RefusalDateBooked, "new range is booked by another employee")
			refusal.BookedBy = availability.BookedBy
			return refusal
		}
		if availability.RoleConflict != nil {
			refusal := refuse(RefusalConflict, "%s already has overlapping leave", availability.RoleConflict.EmployeeName)
			refusal.Conflict = availability.RoleConflict
			return refusal
		}

		if err := scope.store.UpdateDates(ctx, req.ID, start, end, input.StartSegment, input.EndSegment, days); err != nil {
			return err
		}
		req.StartDate, req.EndDate = start, end
		req.StartSegment, req.EndSegment = input.StartSegment, input.EndSegment
		req.DaysRequested = days

		resolved, err := s.resolveSwapsOnMove(ctx, scope, req)
		if err != nil {
			return err
		}
		result.Request = req
		result.Resolved = resolved
		return nil
	})
	return result, err
}

func (s *Service) resolveSwapsOnMove(ctx context.Context, scope txScope, moved LeaveRequest) ([]SwapResolution, error) {
	requesters, err := scope.store.PendingSwapRequestersFor(ctx, moved.ID)
	if err != nil {
		return nil, err
	}

	var resolved []SwapResolution
	for _, requester := range requesters {
		if !SwapResolvedByMove(requester, moved) {
			continue
		}

		outcome := OutcomePending
		if requester.IsPaid {
			bal, err := scope.store.GetOrCreateBalance(ctx, requester.EmployeeID, QuotaMonth(requester.StartDate), s.DefaultQuota)
			if err != nil {
				return nil, err
			}
			paid := bal.PaidUsed+requester.DaysRequested <= bal.EffectiveQuota()
			if err := scope.store.ApproveViaSwap(ctx, requester.ID, paid); err != nil {
				return nil, err
			}
			if paid {
				if err := scope.store.AddPaidUsed(ctx, bal.ID, requester.DaysRequested); err != nil {
					return nil, err
				}
				outcome = OutcomeApproved
			} else {
				outcome = OutcomeApprovedUnpaidOverQuota
			}
		}
		// Regular requesters stay pending for admin acknowledgment;
		// either way the negotiation pointer is finished.
		if err := scope.store.ClearSwap(ctx, requester.ID); err != nil {
			return nil, err
		}

		resolved = append(resolved, SwapResolution{
			LeaveID:    requester.ID,
			EmployeeID: requester.EmployeeID,
			Outcome:    outcome,
		})
	}
	return resolved, nil
}
