package leave

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `
    id, employee_id, department_id, status, start_date, end_date,
    start_segment, end_segment, days_requested, is_paid, is_uninformed,
    reason, emergency_type, requested_swap_with_leave_id, swap_responded_at,
    swap_accepted, swap_escalated_at, is_important_date_override,
    policy_reason_detail, expected_return_date, acknowledged_by,
    acknowledged_at, decision_by, decision_at, decision_reason,
    approved_via_swap, created_at, updated_at`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var r LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.DepartmentID, &r.Status, &r.StartDate, &r.EndDate,
		&r.StartSegment, &r.EndSegment, &r.DaysRequested, &r.IsPaid, &r.IsUninformed,
		&r.Reason, &r.EmergencyType, &r.RequestedSwapWithLeaveID, &r.SwapRespondedAt,
		&r.SwapAccepted, &r.SwapEscalatedAt, &r.IsImportantDateOverride,
		&r.PolicyReasonDetail, &r.ExpectedReturnDate, &r.AcknowledgedBy,
		&r.AcknowledgedAt, &r.DecisionBy, &r.DecisionAt, &r.DecisionReason,
		&r.ApprovedViaSwap, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func collectRequests(rows pgx.Rows) ([]LeaveRequest, error) {
	defer rows.Close()
	var out []LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) InsertRequest(ctx context.Context, r *LeaveRequest) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (
      employee_id, department_id, status, start_date, end_date,
      start_segment, end_segment, days_requested, is_paid, is_uninformed,
      reason, emergency_type, requested_swap_with_leave_id,
      is_important_date_override, policy_reason_detail, expected_return_date,
      acknowledged_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id, created_at, updated_at
  `, r.EmployeeID, r.DepartmentID, r.Status, r.StartDate, r.EndDate,
		r.StartSegment, r.EndSegment, r.DaysRequested, r.IsPaid, r.IsUninformed,
		r.Reason, r.EmergencyType, r.RequestedSwapWithLeaveID,
		r.IsImportantDateOverride, r.PolicyReasonDetail, r.ExpectedReturnDate,
		r.AcknowledgedBy,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (s *Store) GetRequest(ctx context.Context, id int64) (LeaveRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT`+requestColumns+` FROM leave_requests WHERE id = $1`, id))
}

// GetRequestForUpdate locks the row for the duration of the enclosing
// transaction so two concurrent decisions cannot both see "pending".
func (s *Store) GetRequestForUpdate(ctx context.Context, id int64) (LeaveRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT`+requestColumns+` FROM leave_requests WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) UpdateDecision(ctx context.Context, id int64, status string, decidedBy int64, reason string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decision_by = $2, decision_at = now(), decision_reason = $3, updated_at = now()
    WHERE id = $4
  `, status, decidedBy, reason, id)
	return err
}

func (s *Store) UpdateAcknowledgment(ctx context.Context, id int64, status string, adminID int64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, acknowledged_by = $2, acknowledged_at = now(), updated_at = now()
    WHERE id = $3
  `, status, adminID, id)
	return err
}

// MarkUnpaid downgrades a request that would exceed the effective paid
// quota; the row stays approved.
func (s *Store) MarkUnpaid(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE leave_requests SET is_paid = FALSE, updated_at = now() WHERE id = $1", id)
	return err
}

func (s *Store) DeleteRequest(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM leave_requests WHERE id = $1", id)
	return err
}

func (s *Store) UpdateDates(ctx context.Context, id int64, start, end time.Time, startSegment, endSegment Segment, days float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET start_date = $1, end_date = $2, start_segment = $3, end_segment = $4,
        days_requested = $5, updated_at = now()
    WHERE id = $6
  `, start, end, startSegment, endSegment, days, id)
	return err
}

func (s *Store) SetSwapResponse(ctx context.Context, id int64, accepted bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET swap_responded_at = now(), swap_accepted = $1, updated_at = now()
    WHERE id = $2
  `, accepted, id)
	return err
}

// ClearSwap resets the requester's pointer and handshake state.
func (s *Store) ClearSwap(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET requested_swap_with_leave_id = NULL, swap_responded_at = NULL,
        swap_accepted = NULL, swap_escalated_at = NULL, updated_at = now()
    WHERE id = $1
  `, id)
	return err
}

func (s *Store) ApproveViaSwap(ctx context.Context, id int64, paid bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, is_paid = $2, approved_via_swap = TRUE, updated_at = now()
    WHERE id = $3
  `, StatusApproved, paid, id)
	return err
}

// PendingSwapRequestersFor returns, locked, every pending request whose
// swap pointer targets the given leave.
func (s *Store) PendingSwapRequestersFor(ctx context.Context, bookedLeaveID int64) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE requested_swap_with_leave_id = $1 AND status = $2
    ORDER BY created_at
    FOR UPDATE
  `, bookedLeaveID, StatusPending)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (s *Store) OverlappingBlocks(ctx context.Context, start, end time.Time) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1 AND start_date <= $3 AND end_date >= $2
  `, BlockEmployeeID, start, end)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// OverlappingBookings lists other real employees holding any part of
// the range with a pending/approved, non-uninformed request.
func (s *Store) OverlappingBookings(ctx context.Context, start, end time.Time, excludeEmployeeID, excludeLeaveID int64) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.employee_id, COALESCE(e.name, ''), r.start_date, r.end_date
    FROM leave_requests r
    LEFT JOIN employees e ON e.id = r.employee_id
    WHERE r.employee_id <> $1
      AND r.employee_id <> $2
      AND r.id <> $3
      AND r.status IN ($4, $5)
      AND NOT r.is_uninformed
      AND r.start_date <= $7 AND r.end_date >= $6
    ORDER BY r.start_date
  `, BlockEmployeeID, excludeEmployeeID, excludeLeaveID, StatusPending, StatusApproved, start, end)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// OverlappingOperatorBookings narrows bookings to same-department
// operators, for the same-role exclusivity rule.
func (s *Store) OverlappingOperatorBookings(ctx context.Context, start, end time.Time, departmentID, excludeEmployeeID, excludeLeaveID int64) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.employee_id, e.name, r.start_date, r.end_date
    FROM leave_requests r
    JOIN employees e ON e.id = r.employee_id
    WHERE e.department_id = $1
      AND LOWER(e.designation) = $2
      AND r.employee_id <> $3
      AND r.id <> $4
      AND r.status IN ($5, $6)
      AND NOT r.is_uninformed
      AND r.start_date <= $8 AND r.end_date >= $7
    ORDER BY r.start_date
  `, departmentID, DesignationOperator, excludeEmployeeID, excludeLeaveID, StatusPending, StatusApproved, start, end)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.LeaveID, &b.EmployeeID, &b.EmployeeName, &b.StartDate, &b.EndDate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) ListRequestsForEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1
    ORDER BY start_date DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// ListAllRequests excludes synthetic block rows; those are listed by
// the blocks endpoints.
func (s *Store) ListAllRequests(ctx context.Context, limit, offset int) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE employee_id <> $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, BlockEmployeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// ListPending is the admin acknowledgment queue, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE employee_id <> $1 AND status = $2
    ORDER BY created_at
  `, BlockEmployeeID, StatusPending)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (s *Store) ListBlocks(ctx context.Context, label string) ([]LeaveRequest, error) {
	query := `
    SELECT` + requestColumns + `
    FROM leave_requests
    WHERE employee_id = $1
  `
	args := []any{BlockEmployeeID}
	if label != "" {
		query += " AND reason ILIKE $2"
		args = append(args, "%"+label+"%")
	}
	query += " ORDER BY start_date"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// DeleteBlocks removes block rows covering the date, optionally
// narrowed by a reason label substring. Returns the rows removed.
func (s *Store) DeleteBlocks(ctx context.Context, date time.Time, label string) (int64, error) {
	query := "DELETE FROM leave_requests WHERE employee_id = $1 AND start_date <= $2 AND end_date >= $2"
	args := []any{BlockEmployeeID, date}
	if label != "" {
		query += " AND reason ILIKE $3"
		args = append(args, "%"+label+"%")
	}
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// EscalateStaleSwaps stamps unanswered swap requests older than the
// cutoff so they surface in the admin acknowledgment queue.
func (s *Store) EscalateStaleSwaps(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET swap_escalated_at = now(), updated_at = now()
    WHERE status = $1
      AND requested_swap_with_leave_id IS NOT NULL
      AND swap_responded_at IS NULL
      AND swap_escalated_at IS NULL
      AND created_at < $2
  `, StatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
