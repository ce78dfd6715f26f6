package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	validateInv *domain.Invitation
	validateErr error
}

func (f *fakeInvitationService) Issue(ctx context.Context, ownerID, testResultID string, method domain.InviteMethod, constraints domain.InviteConstraints) (*domain.Invitation, string, error) {
	return nil, "", nil
}

func (f *fakeInvitationService) Validate(ctx context.Context, method domain.InviteMethod, identifier, token, deviceID string) (*domain.Invitation, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.validateInv, nil
}

func (f *fakeInvitationService) ListByTestResult(ctx context.Context, ownerID, testResultID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	return nil, 0, nil
}

// fakeFeedbackService implements domain.FeedbackService for handler tests.
type fakeFeedbackService struct {
	recordResp   *domain.FeedbackResponse
	recordErr    error
	lastKey      string
	lastDeviceID string
	listResps    []*domain.FeedbackResponse
	listErr      error
}

func (f *fakeFeedbackService) Record(ctx context.Context, method domain.InviteMethod, identifier, token, deviceID, idempotencyKey string, answers map[string]string) (*domain.FeedbackResponse, error) {
	f.lastKey = idempotencyKey
	f.lastDeviceID = deviceID
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return f.recordResp, nil
}

func (f *fakeFeedbackService) ListByTestResult(ctx context.Context, ownerID, testResultID string, params domain.PaginationParams) ([]*domain.FeedbackResponse, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResps, len(f.listResps), nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestFeedbackController_Submit_errorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "expired", err: domain.ErrExpired, wantStatus: http.StatusGone, wantCode: helpers.ErrCodeExpired},
		{name: "already completed", err: domain.ErrAlreadyCompleted, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeAlreadyCompleted},
		{name: "usage exceeded", err: domain.ErrUsageExceeded, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeUsageExceeded},
		{name: "already submitted", err: domain.ErrAlreadySubmitted, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeAlreadySubmitted},
		{name: "invalid input", err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFeedbackService{recordErr: tt.err}
			c := NewFeedbackController(testLogger(), &fakeInvitationService{}, svc)

			body, _ := json.Marshal(SubmitFeedbackRequest{
				Method:     "codes",
				Identifier: "K7XRT2MQ",
				Answers:    map[string]string{"mbti_1": "E"},
			})
			req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			c.Submit(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestFeedbackController_Submit_success(t *testing.T) {
	svc := &fakeFeedbackService{recordResp: &domain.FeedbackResponse{ID: "resp-1", TestID: "mbti"}}
	c := NewFeedbackController(testLogger(), &fakeInvitationService{}, svc)

	body, _ := json.Marshal(SubmitFeedbackRequest{
		Method:     "codes",
		Identifier: "K7XRT2MQ",
		Answers:    map[string]string{"mbti_1": "E"},
	})
	req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(body))
	req.Header.Set(IdempotencyKeyHeader, "retry-key-1")
	req = req.WithContext(middleware.SetDeviceID(req.Context(), "device-1"))
	rec := httptest.NewRecorder()
	c.Submit(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "retry-key-1", svc.lastKey)
	assert.Equal(t, "device-1", svc.lastDeviceID)
	env := decodeEnvelope(t, rec)
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestFeedbackController_Submit_badBody(t *testing.T) {
	c := NewFeedbackController(testLogger(), &fakeInvitationService{}, &fakeFeedbackService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "nope"},
		{name: "unknown method", body: `{"method":"smoke-signal","identifier":"x","answers":{"a":"1"}}`},
		{name: "missing answers", body: `{"method":"codes","identifier":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			c.Submit(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFeedbackController_ValidateInvite(t *testing.T) {
	inv := &domain.Invitation{
		Method:    domain.MethodCode,
		TestID:    "mbti",
		OwnerName: "Alice Reed",
	}
	c := NewFeedbackController(testLogger(), &fakeInvitationService{validateInv: inv}, &fakeFeedbackService{})

	body, _ := json.Marshal(ValidateInviteRequest{Method: "codes", Identifier: "K7XRT2MQ"})
	req := httptest.NewRequest(http.MethodPost, "/feedback/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	c.ValidateInvite(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error)

	view, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mbti", view["test_id"])
	assert.Equal(t, "Alice Reed", view["owner_name"])
	// The public view never leaks counters or owner ids.
	assert.NotContains(t, view, "usage_count")
	assert.NotContains(t, view, "owner_id")
}

func TestFeedbackController_List_requiresAuth(t *testing.T) {
	c := NewFeedbackController(testLogger(), &fakeInvitationService{}, &fakeFeedbackService{})
	req := httptest.NewRequest(http.MethodGet, "/results/tr-1/feedback", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFeedbackController_List(t *testing.T) {
	svc := &fakeFeedbackService{listResps: []*domain.FeedbackResponse{{ID: "resp-1"}}}
	c := NewFeedbackController(testLogger(), &fakeInvitationService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/results/tr-1/feedback", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	c.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Nil(t, env.Error)
}
