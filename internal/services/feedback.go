package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"personafeedback/internal/domain"
	"personafeedback/internal/scoring"
)

type feedbackService struct {
	respRepo    domain.FeedbackResponseRepository
	invRepo     domain.InvitationRepository
	resultRepo  domain.TestResultRepository
	invitations domain.InvitationService
	registry    domain.TestRegistry
	dedup       domain.DedupStore
}

// NewFeedbackService creates a FeedbackService. Validation is delegated to
// the invitation service so the recorder enforces exactly the same admission
// rules as a dry-run validate call.
func NewFeedbackService(respRepo domain.FeedbackResponseRepository, invRepo domain.InvitationRepository, resultRepo domain.TestResultRepository, invitations domain.InvitationService, registry domain.TestRegistry, dedup domain.DedupStore) domain.FeedbackService {
	return &feedbackService{
		respRepo:    respRepo,
		invRepo:     invRepo,
		resultRepo:  resultRepo,
		invitations: invitations,
		registry:    registry,
		dedup:       dedup,
	}
}

// Record validates the submission against its invitation, scores the
// answers, persists the response, and advances the invitation's counter.
// Retries carrying the same idempotency key return the stored response
// without touching any counter again.
func (s *feedbackService) Record(ctx context.Context, method domain.InviteMethod, identifier, token, deviceID, idempotencyKey string, answers map[string]string) (*domain.FeedbackResponse, error) {
	if idempotencyKey != "" {
		stored, err := s.respRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	inv, err := s.invitations.Validate(ctx, method, identifier, token, deviceID)
	if err != nil {
		return nil, err
	}

	if err := s.validateAnswers(inv.TestID, answers); err != nil {
		return nil, err
	}

	fn, ok := scoring.For(inv.TestID)
	if !ok {
		return nil, fmt.Errorf("%w: no scoring function for test %q", domain.ErrScoring, inv.TestID)
	}
	scored, err := fn(answers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScoring, err)
	}
	resultJSON, err := json.Marshal(scored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScoring, err)
	}

	// The conditional counter update is the admission gate: it is what keeps
	// two racing submissions from overshooting a cap, so it runs before the
	// response row is written.
	now := time.Now()
	switch method {
	case domain.MethodEmail:
		err = s.invRepo.MarkCompleted(ctx, inv.ID, now)
	case domain.MethodCode:
		err = s.invRepo.IncrementUsage(ctx, inv.ID, now)
	case domain.MethodLink:
		err = s.invRepo.IncrementResponses(ctx, inv.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) || errors.Is(err, domain.ErrUsageExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	resp := &domain.FeedbackResponse{
		TestResultID:   inv.TestResultID,
		TestID:         inv.TestID,
		OwnerID:        inv.OwnerID,
		Method:         method,
		InvitationID:   inv.ID,
		Answers:        answers,
		Result:         resultJSON,
		IdempotencyKey: idempotencyKey,
		SubmittedAt:    now,
	}
	switch method {
	case domain.MethodCode:
		resp.Code = inv.Code.Code
	case domain.MethodLink:
		resp.LinkID = inv.Link.LinkID
	}

	if err := s.respRepo.Create(ctx, resp); err != nil {
		if errors.Is(err, domain.ErrAlreadySubmitted) && idempotencyKey != "" {
			// Lost a race against a retry carrying the same key.
			return s.respRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if deviceID != "" && s.dedup != nil {
		if err := s.dedup.MarkSeen(ctx, deviceID, inv.ID); err != nil {
			log.Printf("[FEEDBACK] device ledger write failed for invitation %s: %v", inv.ID, err)
		}
	}

	return resp, nil
}

func (s *feedbackService) ListByTestResult(ctx context.Context, ownerID, testResultID string, params domain.PaginationParams) ([]*domain.FeedbackResponse, int, error) {
	result, err := s.resultRepo.GetByID(ctx, testResultID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to load test result: %w", err)
	}
	if result.UserID != ownerID {
		return nil, 0, domain.ErrForbidden
	}
	resps, total, err := s.respRepo.ListByTestResultID(ctx, testResultID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", err)
	}
	return resps, total, nil
}

// validateAnswers checks every submitted answer against the test definition:
// the question must exist, choice answers must be one of the listed options,
// scale answers must be an integer inside the question's bounds.
func (s *feedbackService) validateAnswers(testID string, answers map[string]string) error {
	if len(answers) == 0 {
		return fmt.Errorf("%w: no answers submitted", domain.ErrInvalidInput)
	}
	def, ok := s.registry.Get(testID)
	if !ok {
		return fmt.Errorf("%w: unknown test %q", domain.ErrInvalidInput, testID)
	}
	questions := make(map[string]*domain.Question, len(def.Questions))
	for i := range def.Questions {
		questions[def.Questions[i].ID] = &def.Questions[i]
	}
	for id, value := range answers {
		q, ok := questions[id]
		if !ok {
			return fmt.Errorf("%w: unknown question %q", domain.ErrInvalidInput, id)
		}
		switch q.Type {
		case domain.QuestionChoice:
			if !optionAllowed(q.Options, value) {
				return fmt.Errorf("%w: invalid answer for question %q", domain.ErrInvalidInput, id)
			}
		case domain.QuestionScale:
			if !scaleAllowed(q.Min, q.Max, value) {
				return fmt.Errorf("%w: answer for question %q out of range", domain.ErrInvalidInput, id)
			}
		}
	}
	return nil
}

func optionAllowed(options []domain.QuestionOption, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func scaleAllowed(min, max int, value string) bool {
	v, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return v >= min && v <= max
}
