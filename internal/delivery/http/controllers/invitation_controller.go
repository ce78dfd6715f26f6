package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

// IssueInvitationRequest is the request body for POST /results/{resultID}/invitations
type IssueInvitationRequest struct {
	Method       string `json:"method"`
	Recipient    string `json:"recipient,omitempty"`
	MaxUsages    *int   `json:"max_usages,omitempty"`
	MaxResponses *int   `json:"max_responses,omitempty"`
	TTLDays      int    `json:"ttl_days,omitempty"`
	Public       bool   `json:"public,omitempty"`
}

// Validate implements Validator.
func (i IssueInvitationRequest) Validate() []string {
	var errs []string
	method := domain.InviteMethod(strings.TrimSpace(i.Method))
	if !method.Valid() {
		errs = append(errs, `method must be "email", "codes", or "link"`)
	}
	if method == domain.MethodEmail && strings.TrimSpace(i.Recipient) == "" {
		errs = append(errs, "recipient is required for email invitations")
	}
	if i.MaxUsages != nil && *i.MaxUsages < 1 {
		errs = append(errs, "max_usages must be at least 1")
	}
	if i.MaxResponses != nil && *i.MaxResponses < 1 {
		errs = append(errs, "max_responses must be at least 1")
	}
	if i.TTLDays < 0 {
		errs = append(errs, "ttl_days cannot be negative")
	}
	return errs
}

// IssuedInvitation is the response body for a freshly issued invitation.
// Artifact is what the owner hands out: the invite URL, the code, or the
// share link, depending on method.
type IssuedInvitation struct {
	Invitation *domain.Invitation `json:"invitation"`
	Artifact   string             `json:"artifact"`
}

// IssuedInvitationSuccessResponse is the success envelope for POST /results/{resultID}/invitations (201).
type IssuedInvitationSuccessResponse struct {
	Data  IssuedInvitation  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// InvitationListResponse is the data payload for the invitation list endpoint.
type InvitationListResponse struct {
	Invitations []*domain.Invitation   `json:"invitations"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// InvitationController handles issuing and listing feedback invitations.
type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

// NewInvitationController creates an InvitationController.
func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// Issue godoc
// @Summary Issue a feedback invitation
// @Description Creates an invitation against one of the caller's test results. Method "email" sends an invite link to the recipient; "codes" returns a short code; "link" returns a shareable URL.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resultID path string true "Test result id"
// @Param body body IssueInvitationRequest true "Invitation settings"
// @Success 201 {object} controllers.IssuedInvitationSuccessResponse "data contains the invitation and its artifact"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /results/{resultID}/invitations [post]
func (c *InvitationController) Issue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req IssueInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	constraints := domain.InviteConstraints{
		Recipient:    req.Recipient,
		MaxUsages:    req.MaxUsages,
		MaxResponses: req.MaxResponses,
		TTL:          time.Duration(req.TTLDays) * 24 * time.Hour,
		Public:       req.Public,
	}
	inv, artifact, err := c.Service.Issue(r.Context(), userID, r.PathValue("resultID"), domain.InviteMethod(req.Method), constraints)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IssuedInvitation{Invitation: inv, Artifact: artifact})
}

// List godoc
// @Summary List invitations for a test result
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param resultID path string true "Test result id"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /results/{resultID}/invitations [get]
func (c *InvitationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	invs, total, err := c.Service.ListByTestResult(r.Context(), userID, r.PathValue("resultID"), params)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InvitationListResponse{
		Invitations: invs,
		Pagination:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
