package domain

import (
	"context"
	"encoding/json"
	"time"
)

// FeedbackResponse is an anonymized answer set submitted against an
// invitation, with the computed result payload. Responses are append-only.
// swagger:model FeedbackResponse
type FeedbackResponse struct {
	ID           string       `json:"id"`
	TestResultID string       `json:"test_result_id"`
	TestID       string       `json:"test_id"`
	OwnerID      string       `json:"owner_id"`
	Method       InviteMethod `json:"method"`

	// Back-reference to the invitation that admitted this submission.
	// Code and LinkID are set only for their respective methods.
	InvitationID string `json:"invitation_id"`
	Code         string `json:"code,omitempty"`
	LinkID       string `json:"link_id,omitempty"`

	Answers        map[string]string `json:"answers"`
	Result         json.RawMessage   `json:"result"`
	IdempotencyKey string            `json:"-"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}

// FeedbackResponseRepository defines storage operations for feedback
// responses. Create must reject duplicate idempotency keys with
// ErrAlreadySubmitted so a retried submission is never double-counted.
type FeedbackResponseRepository interface {
	Create(ctx context.Context, resp *FeedbackResponse) error
	GetByIdempotencyKey(ctx context.Context, key string) (*FeedbackResponse, error)
	ListByTestResultID(ctx context.Context, testResultID string, params PaginationParams) ([]*FeedbackResponse, int, error)
}

// DedupStore is the process-local record of invitations a device has already
// used to submit feedback. It is an anti-replay guard only, not
// authoritative: another device may still use a code up to its usage cap.
type DedupStore interface {
	Seen(ctx context.Context, deviceID, invitationID string) (bool, error)
	MarkSeen(ctx context.Context, deviceID, invitationID string) error
}

// FeedbackService records validated submissions and lists received feedback.
type FeedbackService interface {
	Record(ctx context.Context, method InviteMethod, identifier, token, deviceID, idempotencyKey string, answers map[string]string) (*FeedbackResponse, error)
	ListByTestResult(ctx context.Context, ownerID, testResultID string, params PaginationParams) ([]*FeedbackResponse, int, error)
}
