package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personafeedback/internal/domain"
)

func mbtiTestDef() *domain.TestDefinition {
	ei := []domain.QuestionOption{{Value: "E", Text: "Out"}, {Value: "I", Text: "In"}}
	return &domain.TestDefinition{
		ID:   "mbti",
		Name: "Myers-Briggs Type Indicator",
		Questions: []domain.Question{
			{ID: "mbti_1", Type: domain.QuestionChoice, Options: ei},
			{ID: "mbti_2", Type: domain.QuestionChoice, Options: ei},
			{ID: "mbti_3", Type: domain.QuestionChoice, Options: ei},
		},
	}
}

type invitationFixture struct {
	svc      domain.InvitationService
	invRepo  *fakeInvitationRepo
	resRepo  *fakeResultRepo
	userRepo *fakeUserRepo
	dedup    *fakeDedupStore
	email    *fakeEmailService
	resultID string
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	invRepo := newFakeInvitationRepo()
	resRepo := newFakeResultRepo()
	userRepo := newFakeUserRepo()
	dedup := newFakeDedupStore()
	email := &fakeEmailService{}

	owner := &domain.User{ID: "user-1", Email: "owner@example.com", Name: "Alice", LastName: "Reed"}
	userRepo.add(owner)
	res := &domain.TestResult{UserID: "user-1", TestID: "mbti"}
	require.NoError(t, resRepo.Create(context.Background(), res))

	svc := NewInvitationService(invRepo, resRepo, userRepo, newFakeRegistry(mbtiTestDef()), dedup, email, "https://persona.example.com/")
	return &invitationFixture{
		svc:      svc,
		invRepo:  invRepo,
		resRepo:  resRepo,
		userRepo: userRepo,
		dedup:    dedup,
		email:    email,
		resultID: res.ID,
	}
}

func TestInvitationService_Issue_errors(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)

	tests := []struct {
		name        string
		ownerID     string
		resultID    string
		method      domain.InviteMethod
		constraints domain.InviteConstraints
		wantErr     error
	}{
		{
			name:    "unknown method",
			ownerID: "user-1", resultID: fx.resultID,
			method:  domain.InviteMethod("carrier-pigeon"),
			wantErr: domain.ErrInvalidMethod,
		},
		{
			name:    "missing test result",
			ownerID: "user-1", resultID: "tr-nope",
			method:  domain.MethodCode,
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "someone else's test result",
			ownerID: "user-2", resultID: fx.resultID,
			method:  domain.MethodCode,
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "email without recipient",
			ownerID: "user-1", resultID: fx.resultID,
			method:  domain.MethodEmail,
			wantErr: domain.ErrMissingRecipient,
		},
		{
			name:    "email with bad recipient",
			ownerID: "user-1", resultID: fx.resultID,
			method:      domain.MethodEmail,
			constraints: domain.InviteConstraints{Recipient: "not-an-email"},
			wantErr:     domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.svc.Issue(ctx, tt.ownerID, tt.resultID, tt.method, tt.constraints)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInvitationService_Issue_email(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)

	inv, artifact, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodEmail, domain.InviteConstraints{
		Recipient: "Colleague@Example.COM",
	})
	require.NoError(t, err)

	require.NotNil(t, inv.Email)
	assert.Equal(t, "colleague@example.com", inv.Email.Recipient)
	assert.Equal(t, "Alice Reed", inv.OwnerName)
	assert.Equal(t, domain.StatusActive, inv.Status)

	// 128-bit token, hex-encoded
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), inv.Email.Token)

	// The artifact embeds the invitation id and the token.
	assert.Contains(t, artifact, inv.ID)
	assert.Contains(t, artifact, inv.Email.Token)
	assert.True(t, strings.HasPrefix(artifact, "https://persona.example.com/feedback/invite/"))

	require.Len(t, fx.email.invitations, 1)
	assert.Equal(t, "colleague@example.com", fx.email.invitations[0].Email)
	assert.Equal(t, artifact, fx.email.invitations[0].InviteURL)
	assert.Equal(t, "Myers-Briggs Type Indicator", fx.email.invitations[0].TestName)

	// sent_at is stamped only after the email went out.
	assert.NotNil(t, inv.Email.SentAt)
}

func TestInvitationService_Issue_email_sendFailure(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)
	fx.email.sendErr = errors.New("ses unavailable")

	inv, artifact, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodEmail, domain.InviteConstraints{
		Recipient: "colleague@example.com",
	})
	require.NoError(t, err)

	// The invitation still exists and the artifact is usable, but a
	// never-delivered invitation must not claim a send time.
	assert.Contains(t, artifact, inv.ID)
	require.NotNil(t, inv.Email)
	assert.Nil(t, inv.Email.SentAt)

	stored, err := fx.invRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Email.SentAt)
}

func TestInvitationService_Issue_code(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)
	max := 5

	inv, artifact, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodCode, domain.InviteConstraints{MaxUsages: &max})
	require.NoError(t, err)

	require.NotNil(t, inv.Code)
	assert.Equal(t, inv.Code.Code, artifact)
	assert.Len(t, artifact, inviteCodeLen)
	for _, c := range artifact {
		assert.Contains(t, codeAlphabet, string(c))
	}
	require.NotNil(t, inv.Code.MaxUsages)
	assert.Equal(t, 5, *inv.Code.MaxUsages)
	assert.Zero(t, inv.Code.UsageCount)
}

func TestInvitationService_Issue_link_roundtrip(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)

	inv, artifact, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodLink, domain.InviteConstraints{Public: true})
	require.NoError(t, err)

	require.NotNil(t, inv.Link)
	assert.Equal(t, inv.Link.URL, artifact)
	assert.Contains(t, artifact, inv.Link.LinkID)

	// Resolving the link id from the URL must land on the same invitation.
	got, err := fx.svc.Validate(ctx, domain.MethodLink, inv.Link.LinkID, "", "")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
}

func TestInvitationService_Validate(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)

	emailInv, _, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodEmail, domain.InviteConstraints{Recipient: "c@example.com"})
	require.NoError(t, err)

	one := 1
	codeInv, code, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodCode, domain.InviteConstraints{MaxUsages: &one})
	require.NoError(t, err)

	t.Run("email happy path", func(t *testing.T) {
		got, err := fx.svc.Validate(ctx, domain.MethodEmail, emailInv.ID, emailInv.Email.Token, "device-1")
		require.NoError(t, err)
		assert.Equal(t, emailInv.ID, got.ID)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		_, err := fx.svc.Validate(ctx, domain.MethodCode, "NOSUCHCD", "", "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong token reads as not found", func(t *testing.T) {
		_, err := fx.svc.Validate(ctx, domain.MethodEmail, emailInv.ID, "deadbeefdeadbeefdeadbeefdeadbeef", "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("code is case-insensitive", func(t *testing.T) {
		got, err := fx.svc.Validate(ctx, domain.MethodCode, strings.ToLower(code), "", "")
		require.NoError(t, err)
		assert.Equal(t, codeInv.ID, got.ID)
	})

	t.Run("usage cap reached", func(t *testing.T) {
		require.NoError(t, fx.invRepo.IncrementUsage(ctx, codeInv.ID, time.Now()))
		_, err := fx.svc.Validate(ctx, domain.MethodCode, code, "", "")
		require.ErrorIs(t, err, domain.ErrUsageExceeded)
	})

	t.Run("expiry outranks usage cap", func(t *testing.T) {
		codeInv.ExpiresAt = time.Now().Add(-time.Hour)
		_, err := fx.svc.Validate(ctx, domain.MethodCode, code, "", "")
		require.ErrorIs(t, err, domain.ErrExpired)
	})

	t.Run("completed email invitation", func(t *testing.T) {
		require.NoError(t, fx.invRepo.MarkCompleted(ctx, emailInv.ID, time.Now()))
		_, err := fx.svc.Validate(ctx, domain.MethodEmail, emailInv.ID, emailInv.Email.Token, "")
		require.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})

	t.Run("device already submitted", func(t *testing.T) {
		linkInv, _, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodLink, domain.InviteConstraints{})
		require.NoError(t, err)
		require.NoError(t, fx.dedup.MarkSeen(ctx, "device-9", linkInv.ID))

		_, err = fx.svc.Validate(ctx, domain.MethodLink, linkInv.Link.LinkID, "", "device-9")
		require.ErrorIs(t, err, domain.ErrAlreadySubmitted)

		// A different device is still admitted.
		_, err = fx.svc.Validate(ctx, domain.MethodLink, linkInv.Link.LinkID, "", "device-10")
		require.NoError(t, err)
	})
}

func TestInvitationService_ListByTestResult(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)

	_, _, err := fx.svc.Issue(ctx, "user-1", fx.resultID, domain.MethodCode, domain.InviteConstraints{})
	require.NoError(t, err)

	invs, total, err := fx.svc.ListByTestResult(ctx, "user-1", fx.resultID, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, invs, 1)

	_, _, err = fx.svc.ListByTestResult(ctx, "user-2", fx.resultID, domain.PaginationParams{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
