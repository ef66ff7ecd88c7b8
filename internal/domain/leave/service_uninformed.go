package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/domain/directory"
)

type UninformedInput struct {
	EmployeeID   int64
	StartDate    time.Time
	EndDate      time.Time
	StartSegment Segment
	EndSegment   Segment
	Reason       string
	RecordedBy   int64
}

// MarkUninformed records an after-the-fact absence. The row is always
// approved and unpaid; the month's uninformed count is bumped and the
// whole forward deduction schedule is rebuilt in the same transaction.
func (s *Service) MarkUninformed(ctx context.Context, input UninformedInput) (LeaveRequest, error) {
	var created LeaveRequest
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

		// The recording admin counts as the acknowledger: the row is
		// born approved, there is no separate decision step.
		req := LeaveRequest{
			EmployeeID:     emp.ID,
			DepartmentID:   &emp.DepartmentID,
			Status:         StatusApproved,
			StartDate:      start,
			EndDate:        end,
			StartSegment:   input.StartSegment,
			EndSegment:     input.EndSegment,
			DaysRequested:  days,
			IsPaid:         false,
			IsUninformed:   true,
			Reason:         input.Reason,
			AcknowledgedBy: &input.RecordedBy,
		}
		if err := scope.store.InsertRequest(ctx, &req); err != nil {
			return err
		}

		bal, err := scope.store.GetOrCreateBalance(ctx, emp.ID, QuotaMonth(start), s.DefaultQuota)
		if err != nil {
			return err
		}
		if err := scope.store.AddUninformed(ctx, bal.ID, days); err != nil {
			return err
		}

		if err := s.recomputeCascade(ctx, scope, emp.ID); err != nil {
			return err
		}
		created = req
		return nil
	})
	return created, err
}

// DeleteUninformed removes an uninformed absence, reverses its count on
// the month's balance, and rebuilds the deduction schedule.
func (s *Service) DeleteUninformed(ctx context.Context, leaveID int64) error {
	return s.withTx(ctx, func(scope txScope) error {
		req, err := scope.store.GetRequestForUpdate(ctx, leaveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return refuse(RefusalNotFoundOrNotUninformed, "leave %d not found", leaveID)
			}
			return err
		}
		if !req.IsUninformed {
			return refuse(RefusalNotFoundOrNotUninformed, "leave %d is not an uninformed absence", leaveID)
		}

		if err := scope.store.DeleteRequest(ctx, leaveID); err != nil {
			return err
		}

		bal, err := scope.store.GetOrCreateBalance(ctx, req.EmployeeID, QuotaMonth(req.StartDate), s.DefaultQuota)
		if err != nil {
			return err
		}
		if err := scope.store.AddUninformed(ctx, bal.ID, -req.DaysRequested); err != nil {
			return err
		}

		return s.recomputeCascade(ctx, scope, req.EmployeeID)
	})
}
