package leave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/directory"
	"leavedesk/internal/requestctx"
)

type Service struct {
	Store        *Store
	Directory    *directory.Store
	Audit        *audit.Service
	DefaultQuota int
}

func NewService(store *Store, dir *directory.Store, auditSvc *audit.Service, defaultQuota int) *Service {
	return &Service{Store: store, Directory: dir, Audit: auditSvc, DefaultQuota: defaultQuota}
}

// txScope bundles the transaction-bound collaborators of one operation
// so no statement can accidentally run outside the transaction.
type txScope struct {
	store *Store
	dir   *directory.Store
	audit *audit.Service
}

// withTx runs fn inside a single transaction and guarantees rollback on
// every error path. Policy refusals returned by fn also roll back, which
// is safe because refusals are decided before any write.
func (s *Service) withTx(ctx context.Context, fn func(scope txScope) error) error {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return err
	}
	scope := txScope{
		store: s.Store.WithTx(tx),
		dir:   s.Directory.WithTx(tx),
		audit: &audit.Service{DB: tx},
	}
	if err := fn(scope); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("leave tx rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

// recomputeCascade rebuilds the employee's entire forward deduction
// schedule from scratch. The reset and the rebuild share the caller's
// transaction, so a failure mid-rebuild rolls the reset back too.
func (s *Service) recomputeCascade(ctx context.Context, scope txScope, employeeID int64) error {
	if err := scope.store.ResetDeductions(ctx, employeeID); err != nil {
		return err
	}

	events, err := scope.store.ApprovedUninformedEvents(ctx, employeeID)
	if err != nil {
		return err
	}

	plan, err := PlanDeductions(events, func(month MonthKey) (float64, error) {
		bal, err := scope.store.GetOrCreateBalance(ctx, employeeID, month, s.DefaultQuota)
		if err != nil {
			return 0, err
		}
		return float64(bal.PaidQuota), nil
	})
	if err != nil {
		return err
	}

	for _, month := range plan.SortedMonths() {
		if err := scope.store.SetDeduction(ctx, employeeID, month, plan.Allocations[month]); err != nil {
			return err
		}
	}

	if plan.Unallocated > 0 {
		// Debt past the horizon is dropped by policy, but not silently:
		// administrators can find it in the audit trail.
		slog.Warn("deduction cascade dropped debt past horizon",
			"employeeId", employeeID, "days", plan.Unallocated)
		if err := scope.audit.Record(ctx, 0, "leave.cascade.drop", "employee", employeeID,
			requestctx.GetRequestID(ctx), map[string]any{"droppedDays": plan.Unallocated}); err != nil {
			return err
		}
	}
	return nil
}

// debitPaid consumes the request's days from the month's paid quota.
// If the debit would push usage past the effective quota the request is
// recorded as unpaid instead; the caller learns that through the
// returned outcome.
func (s *Service) debitPaid(ctx context.Context, scope txScope, req *LeaveRequest) (Outcome, error) {
	bal, err := scope.store.GetOrCreateBalance(ctx, req.EmployeeID, QuotaMonth(req.StartDate), s.DefaultQuota)
	if err != nil {
		return "", err
	}
	if bal.PaidUsed+req.DaysRequested > bal.EffectiveQuota() {
		if err := scope.store.MarkUnpaid(ctx, req.ID); err != nil {
			return "", err
		}
		req.IsPaid = false
		return OutcomeApprovedUnpaidOverQuota, nil
	}
	if err := scope.store.AddPaidUsed(ctx, bal.ID, req.DaysRequested); err != nil {
		return "", err
	}
	return OutcomeApproved, nil
}

// classifyRange fetches everything overlapping the candidate range and
// builds the tri-state availability for the employee. excludeLeaveID
// skips the employee's own row when editing an existing leave.
func (s *Service) classifyRange(ctx context.Context, scope txScope, emp directory.Employee, start, end time.Time, excludeLeaveID int64) (Availability, error) {
	blocks, err := scope.store.OverlappingBlocks(ctx, start, end)
	if err != nil {
		return Availability{}, err
	}

	bookings, err := scope.store.OverlappingBookings(ctx, start, end, emp.ID, excludeLeaveID)
	if err != nil {
		return Availability{}, err
	}

	var operatorBookings []Booking
	if IsOperator(emp.Designation) {
		operatorBookings, err = scope.store.OverlappingOperatorBookings(ctx, start, end, emp.DepartmentID, emp.ID, excludeLeaveID)
		if err != nil {
			return Availability{}, err
		}
	}

	return BuildAvailability(emp.DepartmentID, blocks, bookings, operatorBookings), nil
}
