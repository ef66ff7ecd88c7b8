package leave

import (
	"context"
	"time"
)

const balanceColumns = `
    id, employee_id, year, month, paid_quota, paid_used,
    uninformed_leaves, next_month_deduction, updated_at`

// GetOrCreateBalance lazily creates the (employee, year, month) row.
// Two concurrent creators race benignly: the loser's insert hits the
// unique key, does nothing, and the follow-up read returns the winner's
// row.
func (s *Store) GetOrCreateBalance(ctx context.Context, employeeID int64, month MonthKey, defaultQuota int) (LeaveBalance, error) {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, year, month, paid_quota)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, year, month) DO NOTHING
  `, employeeID, month.Year, int(month.Month), defaultQuota); err != nil {
		return LeaveBalance{}, err
	}

	var b LeaveBalance
	var rawMonth int
	err := s.DB.QueryRow(ctx, `
    SELECT`+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1 AND year = $2 AND month = $3
  `, employeeID, month.Year, int(month.Month)).Scan(
		&b.ID, &b.EmployeeID, &b.Year, &rawMonth, &b.PaidQuota, &b.PaidUsed,
		&b.UninformedLeaves, &b.NextMonthDeduction, &b.UpdatedAt,
	)
	if err != nil {
		return LeaveBalance{}, err
	}
	b.Month = monthFromInt(rawMonth)
	return b, nil
}

// AddPaidUsed debits (or with a negative delta credits) the month's
// paid usage, floored at zero.
func (s *Store) AddPaidUsed(ctx context.Context, balanceID int64, delta float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET paid_used = GREATEST(0, paid_used + $1), updated_at = now()
    WHERE id = $2
  `, delta, balanceID)
	return err
}

// AddUninformed adjusts the month's uninformed-day count, floored at
// zero.
func (s *Store) AddUninformed(ctx context.Context, balanceID int64, delta float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET uninformed_leaves = GREATEST(0, uninformed_leaves + $1), updated_at = now()
    WHERE id = $2
  `, delta, balanceID)
	return err
}

// ResetDeductions zeroes the carry-forward on every balance row of the
// employee ahead of a full cascade rebuild.
func (s *Store) ResetDeductions(ctx context.Context, employeeID int64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET next_month_deduction = 0, updated_at = now()
    WHERE employee_id = $1
  `, employeeID)
	return err
}

func (s *Store) SetDeduction(ctx context.Context, employeeID int64, month MonthKey, value float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET next_month_deduction = $1, updated_at = now()
    WHERE employee_id = $2 AND year = $3 AND month = $4
  `, value, employeeID, month.Year, int(month.Month))
	return err
}

// ApprovedUninformedEvents feeds the cascade planner, oldest first.
func (s *Store) ApprovedUninformedEvents(ctx context.Context, employeeID int64) ([]UninformedEvent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, start_date, days_requested
    FROM leave_requests
    WHERE employee_id = $1 AND is_uninformed AND status = $2
    ORDER BY start_date
  `, employeeID, StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []UninformedEvent
	for rows.Next() {
		var e UninformedEvent
		if err := rows.Scan(&e.LeaveID, &e.StartDate, &e.Days); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FutureDeductions lists months after the given one that still carry a
// deduction, for reporting.
func (s *Store) FutureDeductions(ctx context.Context, employeeID int64, after MonthKey) ([]LeaveBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+balanceColumns+`
    FROM leave_balances
    WHERE employee_id = $1
      AND next_month_deduction > 0
      AND (year > $2 OR (year = $2 AND month > $3))
    ORDER BY year, month
  `, employeeID, after.Year, int(after.Month))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		var rawMonth int
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.Year, &rawMonth, &b.PaidQuota, &b.PaidUsed,
			&b.UninformedLeaves, &b.NextMonthDeduction, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.Month = monthFromInt(rawMonth)
		out = append(out, b)
	}
	return out, rows.Err()
}

func monthFromInt(m int) time.Month {
	return time.Month(m)
}
