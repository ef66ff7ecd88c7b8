package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *leave.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/requests", h.handleApply)
		r.Get("/requests", h.handleListRequests)
		r.Get("/requests/{leaveID}", h.handleGetRequest)
		r.Post("/requests/{leaveID}/cancel", h.handleCancel)
		r.Patch("/requests/{leaveID}/dates", h.handleMoveDates)
		r.Post("/requests/{leaveID}/swap-response", h.handleSwapResponse)
		r.Get("/availability", h.handleAvailability)
		r.Get("/report", h.handleReport)
		r.Get("/report/pdf", h.handleReportPDF)
		r.Get("/blocks", h.handleListBlocks)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/requests/{leaveID}/decision", h.handleDecision)
			r.Post("/requests/{leaveID}/acknowledge", h.handleAcknowledge)
			r.Get("/acknowledgments", h.handleAckQueue)
			r.Post("/uninformed", h.handleMarkUninformed)
			r.Delete("/uninformed/{leaveID}", h.handleDeleteUninformed)
			r.Post("/blocks", h.handleCreateBlock)
			r.Delete("/blocks", h.handleDeleteBlocks)
		})
	})
}

// refusalStatus maps a policy refusal to its HTTP status. Refusals are
// expected outcomes, so nothing here is a 5xx.
func refusalStatus(kind leave.RefusalKind) int {
	switch kind {
	case leave.RefusalNotBooker:
		return http.StatusForbidden
	case leave.RefusalNotFoundOrNotUninformed:
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

// fail translates service errors: refusals keep their payload, known
// sentinels map to 404/403, everything else is a 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	if refusal, ok := leave.AsRefusal(err); ok {
		if h.Metrics != nil {
			h.Metrics.RecordRefusal()
		}
		api.FailWithDetails(w, refusalStatus(refusal.Kind), string(refusal.Kind), refusal.Message, refusal, reqID)
		return
	}
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this leave", reqID)
	default:
		slog.Error(message, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

func (h *Handler) audit(r *http.Request, actorID int64, action string, entityID int64, details any) {
	if err := h.Audit.Record(r.Context(), actorID, action, "leave_request", entityID, middleware.GetRequestID(r.Context()), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func leaveIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "leaveID"), 10, 64)
	return id, err == nil && id > 0
}

type applyPayload struct {
	EmployeeID              int64   `json:"employeeId"`
	StartDate               string  `json:"startDate"`
	EndDate                 string  `json:"endDate"`
	StartSegment            string  `json:"startSegment"`
	EndSegment              string  `json:"endSegment"`
	Reason                  string  `json:"reason"`
	Paid                    bool    `json:"paid"`
	EmergencyType           *string `json:"emergencyType"`
	IsImportantDateOverride bool    `json:"isImportantDateOverride"`
	PolicyReasonDetail      string  `json:"policyReasonDetail"`
	ExpectedReturnDate      string  `json:"expectedReturnDate"`
}

var segmentValues = []string{
	string(leave.SegmentFullDay), string(leave.SegmentShiftStart),
	string(leave.SegmentShiftMiddle), string(leave.SegmentShiftEnd),
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload applyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Enum("startSegment", payload.StartSegment, segmentValues, "must be a valid day segment")
	v.Enum("endSegment", payload.EndSegment, segmentValues, "must be a valid day segment")
	v.Required("reason", payload.Reason, "is required")
	if v.Reject(w, reqID) {
		return
	}

	// Employees book for themselves; admins may book on behalf.
	employeeID := caller.EmployeeID
	if payload.EmployeeID != 0 && payload.EmployeeID != caller.EmployeeID {
		if !caller.IsAdmin() {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot apply for another employee", reqID)
			return
		}
		employeeID = payload.EmployeeID
	}

	input := leave.ApplyInput{
		EmployeeID:              employeeID,
		StartDate:               start,
		EndDate:                 end,
		StartSegment:            segmentOrFullDay(payload.StartSegment),
		EndSegment:              segmentOrFullDay(payload.EndSegment),
		Reason:                  payload.Reason,
		Paid:                    payload.Paid,
		EmergencyType:           payload.EmergencyType,
		IsImportantDateOverride: payload.IsImportantDateOverride,
		PolicyReasonDetail:      payload.PolicyReasonDetail,
	}
	if payload.ExpectedReturnDate != "" {
		ret, ok := v.Date("expectedReturnDate", payload.ExpectedReturnDate)
		if v.Reject(w, reqID) {
			return
		}
		if ok {
			input.ExpectedReturnDate = &ret
		}
	}

	result, err := h.Service.Apply(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "leave_apply_failed", "failed to create leave request")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.request.create", result.Request.ID, result)
	api.Created(w, result, reqID)
}

func segmentOrFullDay(raw string) leave.Segment {
	seg, ok := leave.ParseSegment(raw)
	if !ok {
		return leave.SegmentFullDay
	}
	return seg
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	var (
		requests []leave.LeaveRequest
		err      error
	)
	if caller.IsAdmin() && r.URL.Query().Get("all") == "true" {
		requests, err = h.Service.ListAll(r.Context(), page.Limit, page.Offset)
	} else {
		employeeID := caller.EmployeeID
		if raw := r.URL.Query().Get("employeeId"); raw != "" && caller.IsAdmin() {
			if parsed, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
				employeeID = parsed
			}
		}
		requests, err = h.Service.ListForEmployee(r.Context(), employeeID, page.Limit, page.Offset)
	}
	if err != nil {
		h.fail(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	req, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "leave_get_failed", "failed to load leave request")
		return
	}
	if req.IsBlock() || (req.EmployeeID != caller.EmployeeID && !caller.IsAdmin()) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	}
	api.Success(w, req, reqID)
}

type decisionPayload struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Decide(r.Context(), id, payload.Approve, caller.EmployeeID, payload.Reason)
	if err != nil {
		h.fail(w, r, err, "leave_decision_failed", "failed to decide leave request")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.request.decide", id, result)
	api.Success(w, result, reqID)
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Acknowledge(r.Context(), id, payload.Approve, caller.EmployeeID)
	if err != nil {
		h.fail(w, r, err, "leave_ack_failed", "failed to acknowledge leave request")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.request.acknowledge", id, result)
	api.Success(w, result, reqID)
}

func (h *Handler) handleAckQueue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	queue, err := h.Service.AckQueue(r.Context())
	if err != nil {
		h.fail(w, r, err, "leave_ack_queue_failed", "failed to list acknowledgment queue")
		return
	}
	api.Success(w, queue, reqID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	if err := h.Service.Cancel(r.Context(), id, caller.EmployeeID, time.Now()); err != nil {
		h.fail(w, r, err, "leave_cancel_failed", "failed to cancel leave request")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.request.cancel", id, nil)
	api.Success(w, map[string]any{"cancelled": true}, reqID)
}

type movePayload struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	StartSegment string `json:"startSegment"`
	EndSegment   string `json:"endSegment"`
}

func (h *Handler) handleMoveDates(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Enum("startSegment", payload.StartSegment, segmentValues, "must be a valid day segment")
	v.Enum("endSegment", payload.EndSegment, segmentValues, "must be a valid day segment")
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.MoveDates(r.Context(), leave.MoveInput{
		LeaveID:      id,
		ActorID:      caller.EmployeeID,
		ActorIsAdmin: caller.IsAdmin(),
		StartDate:    start,
		EndDate:      end,
		StartSegment: segmentOrFullDay(payload.StartSegment),
		EndSegment:   segmentOrFullDay(payload.EndSegment),
	})
	if err != nil {
		h.fail(w, r, err, "leave_move_failed", "failed to move leave dates")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.request.move", id, result)
	api.Success(w, result, reqID)
}

type swapResponsePayload struct {
	Accept bool `json:"accept"`
}

func (h *Handler) handleSwapResponse(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	var payload swapResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Service.RespondSwap(r.Context(), id, caller.EmployeeID, payload.Accept)
	if err != nil {
		h.fail(w, r, err, "leave_swap_response_failed", "failed to record swap response")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.swap.respond", id, map[string]any{"accept": payload.Accept})
	api.Success(w, updated, reqID)
}

type uninformedPayload struct {
	EmployeeID   int64  `json:"employeeId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	StartSegment string `json:"startSegment"`
	EndSegment   string `json:"endSegment"`
	Reason       string `json:"reason"`
}

func (h *Handler) handleMarkUninformed(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload uninformedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.EmployeeID <= 0 {
		v.Add("employeeId", "must be a positive employee id")
	}
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Enum("startSegment", payload.StartSegment, segmentValues, "must be a valid day segment")
	v.Enum("endSegment", payload.EndSegment, segmentValues, "must be a valid day segment")
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.MarkUninformed(r.Context(), leave.UninformedInput{
		EmployeeID:   payload.EmployeeID,
		StartDate:    start,
		EndDate:      end,
		StartSegment: segmentOrFullDay(payload.StartSegment),
		EndSegment:   segmentOrFullDay(payload.EndSegment),
		Reason:       payload.Reason,
		RecordedBy:   caller.EmployeeID,
	})
	if err != nil {
		h.fail(w, r, err, "leave_uninformed_failed", "failed to record uninformed absence")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.uninformed.create", created.ID, created)
	api.Created(w, created, reqID)
}

func (h *Handler) handleDeleteUninformed(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	id, ok := leaveIDParam(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	if err := h.Service.DeleteUninformed(r.Context(), id); err != nil {
		h.fail(w, r, err, "leave_uninformed_delete_failed", "failed to delete uninformed absence")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.uninformed.delete", id, nil)
	api.Success(w, map[string]any{"deleted": true}, reqID)
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	start, _ := v.Date("start", r.URL.Query().Get("start"))
	end, _ := v.Date("end", r.URL.Query().Get("end"))
	v.DateOrder("start", start, "end", end)
	if v.Reject(w, reqID) {
		return
	}

	employeeID := caller.EmployeeID
	if raw := r.URL.Query().Get("employeeId"); raw != "" && caller.IsAdmin() {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			employeeID = parsed
		}
	}

	availability, err := h.Service.Availability(r.Context(), employeeID, start, end)
	if err != nil {
		h.fail(w, r, err, "leave_availability_failed", "failed to classify dates")
		return
	}
	api.Success(w, availability, reqID)
}

func (h *Handler) reportFromQuery(w http.ResponseWriter, r *http.Request) (leave.BalanceReport, bool) {
	caller, _ := middleware.GetCaller(r.Context())

	employeeID := caller.EmployeeID
	if raw := r.URL.Query().Get("employeeId"); raw != "" && caller.IsAdmin() {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			employeeID = parsed
		}
	}

	now := time.Now().UTC()
	month := leave.MonthKeyOf(now)
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 0 {
			month.Year = year
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			month.Month = time.Month(m)
		}
	}

	report, err := h.Service.Report(r.Context(), employeeID, month)
	if err != nil {
		h.fail(w, r, err, "leave_report_failed", "failed to build balance report")
		return leave.BalanceReport{}, false
	}
	return report, true
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reportFromQuery(w, r)
	if !ok {
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reportFromQuery(w, r)
	if !ok {
		return
	}
	doc, err := leave.RenderReportPDF(report)
	if err != nil {
		h.fail(w, r, err, "leave_report_pdf_failed", "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="leave-balance.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

type blockPayload struct {
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	DepartmentID *int64 `json:"departmentId"`
}

func (h *Handler) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload blockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("kind", payload.Kind, "is required")
	v.Enum("kind", payload.Kind, []string{leave.BlockReasonHoliday, leave.BlockReasonImportantEvent}, "must be HOLIDAY or IMPORTANT_EVENT")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	block, err := h.Service.CreateBlock(r.Context(), leave.BlockInput{
		Kind:         payload.Kind,
		Label:        payload.Label,
		StartDate:    start,
		EndDate:      end,
		DepartmentID: payload.DepartmentID,
		CreatedBy:    caller.EmployeeID,
	})
	if err != nil {
		h.fail(w, r, err, "leave_block_create_failed", "failed to create blocked dates")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.block.create", block.ID, block)
	api.Created(w, block, reqID)
}

func (h *Handler) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	blocks, err := h.Service.ListBlocks(r.Context(), r.URL.Query().Get("label"))
	if err != nil {
		h.fail(w, r, err, "leave_block_list_failed", "failed to list blocked dates")
		return
	}
	api.Success(w, blocks, reqID)
}

func (h *Handler) handleDeleteBlocks(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetCaller(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	date, _ := v.Date("date", r.URL.Query().Get("date"))
	if v.Reject(w, reqID) {
		return
	}

	removed, err := h.Service.RemoveBlocks(r.Context(), date, r.URL.Query().Get("label"))
	if err != nil {
		h.fail(w, r, err, "leave_block_delete_failed", "failed to delete blocked dates")
		return
	}

	h.audit(r, caller.EmployeeID, "leave.block.delete", 0, map[string]any{
		"date": date.Format("2006-01-02"), "removed": removed,
	})
	api.Success(w, map[string]any{"removed": removed}, reqID)
}
