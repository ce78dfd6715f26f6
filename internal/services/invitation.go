package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"personafeedback/internal/domain"
)

const (
	defaultInviteTTL = 30 * 24 * time.Hour
	inviteCodeLen    = 8
	inviteTokenBytes = 16
)

// Code alphabet skips 0/O, 1/I/L and lowercase so codes survive being read
// aloud or copied by hand.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type invitationService struct {
	invRepo      domain.InvitationRepository
	resultRepo   domain.TestResultRepository
	userRepo     domain.UserRepository
	registry     domain.TestRegistry
	dedup        domain.DedupStore
	emailService domain.EmailService
	baseURL      string
}

// NewInvitationService creates an InvitationService. baseURL is the public
// origin used to build invite and share links.
func NewInvitationService(invRepo domain.InvitationRepository, resultRepo domain.TestResultRepository, userRepo domain.UserRepository, registry domain.TestRegistry, dedup domain.DedupStore, emailService domain.EmailService, baseURL string) domain.InvitationService {
	return &invitationService{
		invRepo:      invRepo,
		resultRepo:   resultRepo,
		userRepo:     userRepo,
		registry:     registry,
		dedup:        dedup,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Issue creates an invitation against one of the caller's test results. The
// second return value is the artifact handed to the caller: the invite URL
// for email, the code for codes, the share URL for link.
func (s *invitationService) Issue(ctx context.Context, ownerID, testResultID string, method domain.InviteMethod, constraints domain.InviteConstraints) (*domain.Invitation, string, error) {
	if !method.Valid() {
		return nil, "", fmt.Errorf("%w: %q", domain.ErrInvalidMethod, method)
	}
	result, err := s.resultRepo.GetByID(ctx, testResultID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to load test result: %w", err)
	}
	if result.UserID != ownerID {
		return nil, "", domain.ErrForbidden
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load owner: %w", err)
	}

	ttl := constraints.TTL
	if ttl <= 0 {
		ttl = defaultInviteTTL
	}
	now := time.Now()
	inv := &domain.Invitation{
		TestResultID: testResultID,
		TestID:       result.TestID,
		OwnerID:      ownerID,
		OwnerName:    owner.DisplayName(),
		Method:       method,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	var artifact string
	switch method {
	case domain.MethodEmail:
		recipient := strings.TrimSpace(strings.ToLower(constraints.Recipient))
		if recipient == "" {
			return nil, "", domain.ErrMissingRecipient
		}
		if !emailRegexp.MatchString(recipient) {
			return nil, "", fmt.Errorf("%w: invalid recipient email", domain.ErrInvalidInput)
		}
		token, err := generateInviteToken()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate token: %w", err)
		}
		inv.Email = &domain.EmailInvite{Recipient: recipient, Token: token}
	case domain.MethodCode:
		code, err := generateInviteCode(inviteCodeLen)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate code: %w", err)
		}
		inv.Code = &domain.CodeInvite{Code: code, MaxUsages: constraints.MaxUsages}
		artifact = code
	case domain.MethodLink:
		linkID := uuid.NewString()
		inv.Link = &domain.LinkInvite{
			LinkID:       linkID,
			URL:          fmt.Sprintf("%s/feedback/link/%s", s.baseURL, linkID),
			MaxResponses: constraints.MaxResponses,
			Public:       constraints.Public,
		}
		artifact = inv.Link.URL
	}

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	if method == domain.MethodEmail {
		artifact = fmt.Sprintf("%s/feedback/invite/%s?token=%s", s.baseURL, inv.ID, inv.Email.Token)
		testName := inv.TestID
		if def, ok := s.registry.Get(inv.TestID); ok {
			testName = def.Name
		}
		data := &domain.FeedbackInvitationEmailData{
			Email:     inv.Email.Recipient,
			OwnerName: inv.OwnerName,
			TestName:  testName,
			InviteURL: artifact,
			ExpiresAt: inv.ExpiresAt.Format("2 January 2006"),
		}
		// The invitation record exists either way; delivery is retried by
		// re-issuing, not by failing the request. sent_at is only stamped
		// once the email actually went out.
		if err := s.emailService.SendFeedbackInvitation(ctx, data); err != nil {
			log.Printf("[INVITE] invitation email failed for %s: %v", inv.Email.Recipient, err)
		} else {
			sentAt := time.Now()
			inv.Email.SentAt = &sentAt
			if err := s.invRepo.MarkSent(ctx, inv.ID, sentAt); err != nil {
				log.Printf("[INVITE] failed to record sent_at for invitation %s: %v", inv.ID, err)
			}
		}
	}

	return inv, artifact, nil
}

// Validate checks whether a submission attempt against the identified
// invitation may proceed. Checks run in a fixed order so callers always see
// the most specific refusal: unknown invitation, then expiry, then
// completion or usage caps, then the per-device replay guard.
func (s *invitationService) Validate(ctx context.Context, method domain.InviteMethod, identifier, token, deviceID string) (*domain.Invitation, error) {
	inv, err := s.lookup(ctx, method, identifier)
	if err != nil {
		return nil, err
	}

	if method == domain.MethodEmail {
		if inv.Email == nil || !tokenMatches(inv.Email.Token, token) {
			// A bad token is indistinguishable from a missing invitation.
			return nil, domain.ErrNotFound
		}
	}

	if time.Now().After(inv.ExpiresAt) {
		return nil, domain.ErrExpired
	}

	switch method {
	case domain.MethodEmail:
		if inv.Status == domain.StatusCompleted || inv.Email.CompletedAt != nil {
			return nil, domain.ErrAlreadyCompleted
		}
	case domain.MethodCode:
		if inv.Code.MaxUsages != nil && inv.Code.UsageCount >= *inv.Code.MaxUsages {
			return nil, domain.ErrUsageExceeded
		}
	case domain.MethodLink:
		if inv.Link.MaxResponses != nil && inv.Link.ResponseCount >= *inv.Link.MaxResponses {
			return nil, domain.ErrUsageExceeded
		}
	}

	if deviceID != "" && s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, deviceID, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check device ledger: %w", err)
		}
		if seen {
			return nil, domain.ErrAlreadySubmitted
		}
	}

	return inv, nil
}

func (s *invitationService) ListByTestResult(ctx context.Context, ownerID, testResultID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
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
	invs, total, err := s.invRepo.ListByTestResultID(ctx, testResultID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invs, total, nil
}

func (s *invitationService) lookup(ctx context.Context, method domain.InviteMethod, identifier string) (*domain.Invitation, error) {
	var (
		inv *domain.Invitation
		err error
	)
	switch method {
	case domain.MethodEmail:
		inv, err = s.invRepo.GetByID(ctx, identifier)
	case domain.MethodCode:
		inv, err = s.invRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(identifier)))
	case domain.MethodLink:
		inv, err = s.invRepo.GetByLinkID(ctx, identifier)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, method)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if inv.Method != method {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func tokenMatches(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func generateInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func generateInviteCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
