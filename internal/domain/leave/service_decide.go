package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type DecisionResult struct {
	Request LeaveRequest `json:"request"`
	Outcome Outcome      `json:"outcome"`
}

// Decide approves or rejects a pending request. The row is locked for
// the duration of the transaction so two concurrent decisions cannot
// both pass the pending check.
func (s *Service) Decide(ctx context.Context, leaveID int64, approve bool, decidedBy int64, reason string) (DecisionResult, error) {
	return s.settle(ctx, leaveID, approve, decidedBy, reason, false)
}

// Acknowledge is the admin counterpart of Decide used for regular
// (unpaid) requests and swap escalations; it stamps the acknowledgment
// fields instead of the decision fields.
func (s *Service) Acknowledge(ctx context.Context, leaveID int64, approve bool, adminID int64) (DecisionResult, error) {
	return s.settle(ctx, leaveID, approve, adminID, "", true)
}

func (s *Service) settle(ctx context.Context, leaveID int64, approve bool, actorID int64, reason string, acknowledge bool) (DecisionResult, error) {
	var result DecisionResult
	err := s.withTx(ctx, func(scope txScope) error {
		req, err := scope.store.GetRequestForUpdate(ctx, leaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if req.IsBlock() {
			return ErrNotFound
		}
		if req.Status != StatusPending {
			return refuse(RefusalNotPending, "leave %d is %s", leaveID, req.Status)
		}

		status := StatusRejected
		if approve {
			status = StatusApproved
		}
		if acknowledge {
			err = scope.store.UpdateAcknowledgment(ctx, leaveID, status, actorID)
		} else {
			err = scope.store.UpdateDecision(ctx, leaveID, status, actorID, reason)
		}
		if err != nil {
			return err
		}
		req.Status = status

		result.Outcome = OutcomeRejected
		if approve {
			result.Outcome = OutcomeApproved
			if req.IsPaid {
				outcome, err := s.debitPaid(ctx, scope, &req)
				if err != nil {
					return err
				}
				result.Outcome = outcome
			}
		}

		// Any terminal decision ends a swap negotiation the row was in.
		if req.RequestedSwapWithLeaveID != nil {
			if err := scope.store.ClearSwap(ctx, leaveID); err != nil {
				return err
			}
			req.RequestedSwapWithLeaveID = nil
			req.SwapRespondedAt = nil
			req.SwapAccepted = nil
		}

		result.Request = req
		return nil
	})
	return result, err
}

// Cancel hard-deletes the owner's own future pending/approved leave.
// Paid usage already debited is intentionally not reversed.
func (s *Service) Cancel(ctx context.Context, leaveID, employeeID int64, today time.Time) error {
	return s.withTx(ctx, func(scope txScope) error {
		req, err := scope.store.GetRequestForUpdate(ctx, leaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if req.IsBlock() || req.EmployeeID != employeeID {
			return ErrForbidden
		}
		if req.IsUninformed {
			return refuse(RefusalNotCancellable, "uninformed absences cannot be cancelled")
		}
		if req.Status != StatusPending && req.Status != StatusApproved {
			return refuse(RefusalNotCancellable, "leave %d is %s", leaveID, req.Status)
		}
		if req.EndDate.Before(DateOnly(today)) {
			return refuse(RefusalNotCancellable, "leave %d is in the past", leaveID)
		}
		return scope.store.DeleteRequest(ctx, leaveID)
	})
}
