package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"personafeedback/internal/domain"
	"personafeedback/internal/scoring"
)

type testResultService struct {
	resultRepo domain.TestResultRepository
	registry   domain.TestRegistry
}

// NewTestResultService creates a TestResultService backed by the given
// repository and test registry.
func NewTestResultService(resultRepo domain.TestResultRepository, registry domain.TestRegistry) domain.TestResultService {
	return &testResultService{resultRepo: resultRepo, registry: registry}
}

// Submit scores the user's own answers and stores the run.
func (s *testResultService) Submit(ctx context.Context, userID, testID string, answers map[string]string) (*domain.TestResult, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", domain.ErrInvalidInput)
	}
	if _, ok := s.registry.Get(testID); !ok {
		return nil, fmt.Errorf("%w: unknown test %q", domain.ErrInvalidInput, testID)
	}
	fn, ok := scoring.For(testID)
	if !ok {
		return nil, fmt.Errorf("%w: no scoring function for test %q", domain.ErrScoring, testID)
	}
	scored, err := fn(answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScoring, err)
	}
	resultJSON, err := json.Marshal(scored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScoring, err)
	}

	res := &domain.TestResult{
		UserID:    userID,
		TestID:    testID,
		Answers:   answers,
		Result:    resultJSON,
		CreatedAt: time.Now(),
	}
	if err := s.resultRepo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return res, nil
}

func (s *testResultService) GetByID(ctx context.Context, id, callerID string) (*domain.TestResult, error) {
	res, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load test result: %w", err)
	}
	if res.UserID != callerID {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (s *testResultService) ListMine(ctx context.Context, userID string) ([]*domain.TestResult, error) {
	results, err := s.resultRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	return results, nil
}
