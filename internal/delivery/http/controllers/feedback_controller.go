package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

// IdempotencyKeyHeader carries the client-generated key that makes feedback
// submission retries safe.
const IdempotencyKeyHeader = "Idempotency-Key"

// ValidateInviteRequest is the request body for POST /feedback/validate
type ValidateInviteRequest struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Token      string `json:"token,omitempty"`
}

// Validate implements Validator.
func (v ValidateInviteRequest) Validate() []string {
	var errs []string
	if !domain.InviteMethod(strings.TrimSpace(v.Method)).Valid() {
		errs = append(errs, `method must be "email", "codes", or "link"`)
	}
	if strings.TrimSpace(v.Identifier) == "" {
		errs = append(errs, "identifier is required")
	}
	return errs
}

// SubmitFeedbackRequest is the request body for POST /feedback
type SubmitFeedbackRequest struct {
	Method     string            `json:"method"`
	Identifier string            `json:"identifier"`
	Token      string            `json:"token,omitempty"`
	Answers    map[string]string `json:"answers"`
}

// Validate implements Validator.
func (s SubmitFeedbackRequest) Validate() []string {
	var errs []string
	if !domain.InviteMethod(strings.TrimSpace(s.Method)).Valid() {
		errs = append(errs, `method must be "email", "codes", or "link"`)
	}
	if strings.TrimSpace(s.Identifier) == "" {
		errs = append(errs, "identifier is required")
	}
	if len(s.Answers) == 0 {
		errs = append(errs, "answers are required")
	}
	return errs
}

// ValidatedInvite is the public view of a validated invitation: just enough
// for the feedback form, never the counters or the owner's ids.
type ValidatedInvite struct {
	Method    string `json:"method"`
	TestID    string `json:"test_id"`
	OwnerName string `json:"owner_name"`
	ExpiresAt string `json:"expires_at"`
}

// FeedbackResponseSuccessResponse is the success envelope for POST /feedback (201).
type FeedbackResponseSuccessResponse struct {
	Data  *domain.FeedbackResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// FeedbackListResponse is the data payload for the feedback list endpoint.
type FeedbackListResponse struct {
	Responses  []*domain.FeedbackResponse `json:"responses"`
	Pagination helpers.PaginationMeta     `json:"pagination"`
}

// FeedbackController handles the anonymous feedback surface: validating an
// invitation before showing the form, submitting answers, and the owner's
// view of received feedback.
type FeedbackController struct {
	Logger      *slog.Logger
	Invitations domain.InvitationService
	Service     domain.FeedbackService
}

// NewFeedbackController creates a FeedbackController.
func NewFeedbackController(logger *slog.Logger, invitations domain.InvitationService, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{Logger: logger, Invitations: invitations, Service: svc}
}

// ValidateInvite godoc
// @Summary Validate an invitation
// @Description Checks whether a submission against the invitation would be admitted, without recording anything. Anonymous.
// @Tags feedback
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Submitting device id"
// @Param body body ValidateInviteRequest true "Invitation reference"
// @Success 200 {object} helpers.APIResponse "data contains the public invitation view"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_completed, usage_exceeded, or already_submitted"
// @Failure 410 {object} helpers.APIResponse "error.code: expired"
// @Router /feedback/validate [post]
func (c *FeedbackController) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	var req ValidateInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	deviceID := middleware.DeviceIDFromContext(r.Context())
	inv, err := c.Invitations.Validate(r.Context(), domain.InviteMethod(req.Method), req.Identifier, req.Token, deviceID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ValidatedInvite{
		Method:    string(inv.Method),
		TestID:    inv.TestID,
		OwnerName: inv.OwnerName,
		ExpiresAt: inv.ExpiresAt.Format("2006-01-02"),
	})
}

// Submit godoc
// @Summary Submit feedback
// @Description Records an anonymous feedback submission against an invitation. Send the same Idempotency-Key on retries to make them safe.
// @Tags feedback
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Submitting device id"
// @Param Idempotency-Key header string false "Client-generated retry key"
// @Param body body SubmitFeedbackRequest true "Invitation reference and answers"
// @Success 201 {object} controllers.FeedbackResponseSuccessResponse "data contains the recorded response"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_completed, usage_exceeded, or already_submitted"
// @Failure 410 {object} helpers.APIResponse "error.code: expired"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /feedback [post]
func (c *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	deviceID := middleware.DeviceIDFromContext(r.Context())
	idempotencyKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	resp, err := c.Service.Record(r.Context(), domain.InviteMethod(req.Method), req.Identifier, req.Token, deviceID, idempotencyKey, req.Answers)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// List godoc
// @Summary List feedback received for a test result
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param resultID path string true "Test result id"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains responses and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /results/{resultID}/feedback [get]
func (c *FeedbackController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	resps, total, err := c.Service.ListByTestResult(r.Context(), userID, r.PathValue("resultID"), params)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, FeedbackListResponse{
		Responses:  resps,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
