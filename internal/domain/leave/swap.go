package leave

// Swap negotiation over a booked date. The requester's pending row
// points at the booker's leave via RequestedSwapWithLeaveID; the booker
// may respond exactly once. Resolution happens when the booker moves
// their own dates off the contested range, or when an admin
// acknowledges the still-pending request.

// ValidateSwapResponse checks the requester row's side of a booker
// response. The booker identity itself is checked against the target
// row by the service.
func ValidateSwapResponse(requester LeaveRequest) *Refusal {
	if requester.RequestedSwapWithLeaveID == nil {
		return refuse(RefusalNoSwap, "leave %d has no swap in progress", requester.ID)
	}
	if requester.SwapRespondedAt != nil {
		return refuse(RefusalAlreadyResponded, "swap for leave %d was already responded to", requester.ID)
	}
	if requester.Status != StatusPending {
		return refuse(RefusalNotPending, "leave %d is %s", requester.ID, requester.Status)
	}
	return nil
}

// SwapResolvedByMove reports whether moving the booker's leave to its
// new dates released the requester's range.
func SwapResolvedByMove(requester, moved LeaveRequest) bool {
	if requester.RequestedSwapWithLeaveID == nil || *requester.RequestedSwapWithLeaveID != moved.ID {
		return false
	}
	return !RangesOverlap(requester.StartDate, requester.EndDate, moved.StartDate, moved.EndDate)
}
