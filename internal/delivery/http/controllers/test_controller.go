package controllers

import (
	"log/slog"
	"net/http"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

// SubmitTestRequest is the request body for POST /tests/{testID}/submit
type SubmitTestRequest struct {
	Answers map[string]string `json:"answers"`
}

// Validate implements Validator.
func (s SubmitTestRequest) Validate() []string {
	if len(s.Answers) == 0 {
		return []string{"answers are required"}
	}
	return nil
}

// TestResultSuccessResponse is the success envelope for endpoints returning a test result.
type TestResultSuccessResponse struct {
	Data  *domain.TestResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// TestController serves test definitions and the caller's own test runs.
type TestController struct {
	Logger   *slog.Logger
	Registry domain.TestRegistry
	Results  domain.TestResultService
}

// NewTestController creates a TestController.
func NewTestController(logger *slog.Logger, registry domain.TestRegistry, results domain.TestResultService) *TestController {
	return &TestController{Logger: logger, Registry: registry, Results: results}
}

// ListTests godoc
// @Summary List available tests
// @Tags tests
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the test definitions"
// @Router /tests [get]
func (c *TestController) ListTests(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Registry.List())
}

// GetTest godoc
// @Summary Get one test definition
// @Tags tests
// @Produce json
// @Param testID path string true "Test id"
// @Success 200 {object} helpers.APIResponse "data contains the test definition"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tests/{testID} [get]
func (c *TestController) GetTest(w http.ResponseWriter, r *http.Request) {
	def, ok := c.Registry.Get(r.PathValue("testID"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "test not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, def)
}

// SubmitTest godoc
// @Summary Submit answers to a test
// @Description Scores the authenticated user's answers and stores the run. Requires Bearer token.
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param testID path string true "Test id"
// @Param body body SubmitTestRequest true "Answer map keyed by question id"
// @Success 201 {object} controllers.TestResultSuccessResponse "data contains the scored result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tests/{testID}/submit [post]
func (c *TestController) SubmitTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SubmitTestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Results.Submit(r.Context(), userID, r.PathValue("testID"), req.Answers)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, res)
}

// GetResult godoc
// @Summary Get one of the caller's test results
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param resultID path string true "Test result id"
// @Success 200 {object} controllers.TestResultSuccessResponse "data contains the test result"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /results/{resultID} [get]
func (c *TestController) GetResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	res, err := c.Results.GetByID(r.Context(), r.PathValue("resultID"), userID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// ListResults godoc
// @Summary List the caller's test results
// @Tags results
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the test results"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /results [get]
func (c *TestController) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	results, err := c.Results.ListMine(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, results)
}
