package domain

import (
	"context"
	"encoding/json"
	"time"
)

// TestResult is a user's own scored test run. Feedback invitations are
// always issued against an existing test result.
// swagger:model TestResult
type TestResult struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	TestID    string            `json:"test_id"`
	Answers   map[string]string `json:"answers"`
	Result    json.RawMessage   `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

// TestResultRepository defines storage operations for test results.
type TestResultRepository interface {
	Create(ctx context.Context, res *TestResult) error
	GetByID(ctx context.Context, id string) (*TestResult, error)
	ListByUserID(ctx context.Context, userID string) ([]*TestResult, error)
}

// TestResultService scores and stores self-test runs.
type TestResultService interface {
	Submit(ctx context.Context, userID, testID string, answers map[string]string) (*TestResult, error)
	GetByID(ctx context.Context, id, callerID string) (*TestResult, error)
	ListMine(ctx context.Context, userID string) ([]*TestResult, error)
}
