package leave

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("leave request not found")
	ErrForbidden = errors.New("forbidden")
)

// RefusalKind enumerates the policy outcomes a caller is expected to
// handle. Refusals are ordinary results of an operation, not failures;
// they never leave partial writes behind.
type RefusalKind string

const (
	RefusalDateBlocked             RefusalKind = "date_blocked"
	RefusalDateBooked              RefusalKind = "date_booked"
	RefusalPaidNotAvailable        RefusalKind = "paid_not_available"
	RefusalConflict                RefusalKind = "conflict"
	RefusalNotPending              RefusalKind = "not_pending"
	RefusalNoSwap                  RefusalKind = "no_swap"
	RefusalAlreadyResponded        RefusalKind = "already_responded"
	RefusalNotBooker               RefusalKind = "not_booker"
	RefusalNotFoundOrNotUninformed RefusalKind = "not_found_or_not_uninformed"
	RefusalNotCancellable          RefusalKind = "not_cancellable"
)

type Refusal struct {
	Kind    RefusalKind `json:"kind"`
	Message string      `json:"message"`

	// RemainingPaid accompanies paid_not_available.
	RemainingPaid float64 `json:"remainingPaid,omitempty"`

	// BookedBy accompanies date_booked.
	BookedBy []Booking `json:"bookedBy,omitempty"`

	// Conflict accompanies the operator same-role refusal.
	Conflict *RoleConflict `json:"conflict,omitempty"`
}

func (r *Refusal) Error() string {
	if r.Message == "" {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

func refuse(kind RefusalKind, format string, args ...any) *Refusal {
	return &Refusal{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsRefusal unwraps a policy refusal from an error chain.
func AsRefusal(err error) (*Refusal, bool) {
	var refusal *Refusal
	if errors.As(err, &refusal) {
		return refusal, true
	}
	return nil, false
}
