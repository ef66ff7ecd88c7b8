package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/domain/directory"
)

// Get loads one leave request. A missing row maps to ErrNotFound;
// every other failure is an infrastructure error and passes through.
func (s *Service) Get(ctx context.Context, leaveID int64) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, leaveID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeaveRequest{}, ErrNotFound
		}
		return LeaveRequest{}, err
	}
	return req, nil
}

// Availability classifies a candidate range for one employee without
// creating anything. The same resolver drives Apply, so the answer here
// matches what an application on these dates would hit.
func (s *Service) Availability(ctx context.Context, employeeID int64, start, end time.Time) (Availability, error) {
	var availability Availability
	err := s.withTx(ctx, func(scope txScope) error {
		emp, err := scope.dir.EmployeeByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
			}
			return err
		}
		availability, err = s.classifyRange(ctx, scope, emp, DateOnly(start), DateOnly(end), 0)
		return err
	})
	return availability, err
}

// MonthDeduction is a reporting row: a future month still carrying debt
// from earlier uninformed absences.
type MonthDeduction struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Deduction float64    `json:"deduction"`
}

type BalanceReport struct {
	EmployeeID       int64            `json:"employeeId"`
	EmployeeName     string           `json:"employeeName"`
	Year             int              `json:"year"`
	Month            time.Month       `json:"month"`
	PaidQuota        int              `json:"paidQuota"`
	Deduction        float64          `json:"deduction"`
	EffectiveQuota   float64          `json:"effectiveQuota"`
	PaidUsed         float64          `json:"paidUsed"`
	RemainingPaid    float64          `json:"remainingPaid"`
	UninformedDays   float64          `json:"uninformedDays"`
	FutureDeductions []MonthDeduction `json:"futureDeductions,omitempty"`
}

// Report assembles the employee's balance picture for one month plus
// the deduction schedule already committed against future months.
func (s *Service) Report(ctx context.Context, employeeID int64, month MonthKey) (BalanceReport, error) {
	var report BalanceReport
	err := s.withTx(ctx, func(scope txScope) error {
		emp, err := scope.dir.EmployeeByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
			}
			return err
		}

		bal, err := scope.store.GetOrCreateBalance(ctx, employeeID, month, s.DefaultQuota)
		if err != nil {
			return err
		}

		future, err := scope.store.FutureDeductions(ctx, employeeID, month)
		if err != nil {
			return err
		}

		report = BalanceReport{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.Name,
			Year:           bal.Year,
			Month:          bal.Month,
			PaidQuota:      bal.PaidQuota,
			Deduction:      bal.NextMonthDeduction,
			EffectiveQuota: bal.EffectiveQuota(),
			PaidUsed:       bal.PaidUsed,
			RemainingPaid:  bal.RemainingPaid(),
			UninformedDays: bal.UninformedLeaves,
		}
		for _, fb := range future {
			report.FutureDeductions = append(report.FutureDeductions, MonthDeduction{
				Year:      fb.Year,
				Month:     fb.Month,
				Deduction: fb.NextMonthDeduction,
			})
		}
		return nil
	})
	return report, err
}

// ListForEmployee returns the employee's own history, newest first.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]LeaveRequest, error) {
	return s.Store.ListRequestsForEmployee(ctx, employeeID, normalizeLimit(limit), offset)
}

// ListAll is the admin view across all employees, block rows excluded.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]LeaveRequest, error) {
	return s.Store.ListAllRequests(ctx, normalizeLimit(limit), offset)
}

// AckQueue lists every pending request awaiting an admin, oldest first.
// Escalated swap requests are already stamped by the sweep and sort
// with the rest.
func (s *Service) AckQueue(ctx context.Context) ([]LeaveRequest, error) {
	return s.Store.ListPending(ctx)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

type BlockInput struct {
	Kind         string // BlockReasonHoliday or BlockReasonImportantEvent
	Label        string
	StartDate    time.Time
	EndDate      time.Time
	DepartmentID *int64 // important events only; holidays are always global
	CreatedBy    int64
}

// CreateBlock inserts a synthetic block row. Holidays are forced global
// regardless of the department supplied.
func (s *Service) CreateBlock(ctx context.Context, input BlockInput) (LeaveRequest, error) {
	kind := strings.ToUpper(strings.TrimSpace(input.Kind))
	if kind != BlockReasonHoliday && kind != BlockReasonImportantEvent {
		return LeaveRequest{}, fmt.Errorf("unknown block kind %q", input.Kind)
	}

	start, end := DateOnly(input.StartDate), DateOnly(input.EndDate)
	if end.Before(start) {
		return LeaveRequest{}, fmt.Errorf("end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	departmentID := input.DepartmentID
	if kind == BlockReasonHoliday {
		departmentID = nil
	}

	reason := kind
	if input.Label != "" {
		reason = kind + ": " + input.Label
	}

	req := LeaveRequest{
		EmployeeID:     BlockEmployeeID,
		DepartmentID:   departmentID,
		Status:         StatusApproved,
		StartDate:      start,
		EndDate:        end,
		StartSegment:   SegmentFullDay,
		EndSegment:     SegmentFullDay,
		Reason:         reason,
		AcknowledgedBy: &input.CreatedBy,
	}
	if err := s.Store.InsertRequest(ctx, &req); err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// ListBlocks returns block rows, optionally filtered by label substring.
func (s *Service) ListBlocks(ctx context.Context, label string) ([]LeaveRequest, error) {
	return s.Store.ListBlocks(ctx, label)
}

// RemoveBlocks deletes block rows covering the date, optionally
// narrowed by label. Returns how many were removed.
func (s *Service) RemoveBlocks(ctx context.Context, date time.Time, label string) (int64, error) {
	return s.Store.DeleteBlocks(ctx, DateOnly(date), label)
}
