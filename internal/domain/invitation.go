package domain

import (
	"context"
	"time"
)

// InviteMethod discriminates the three invitation kinds. The wire tags match
// the values stored with each invitation and response.
type InviteMethod string

const (
	MethodEmail InviteMethod = "email"
	MethodCode  InviteMethod = "codes"
	MethodLink  InviteMethod = "link"
)

// Valid reports whether m is one of the three known methods.
func (m InviteMethod) Valid() bool {
	switch m {
	case MethodEmail, MethodCode, MethodLink:
		return true
	}
	return false
}

// InviteStatus is the lifecycle state of an invitation.
type InviteStatus string

const (
	StatusActive    InviteStatus = "active"
	StatusExpired   InviteStatus = "expired"
	StatusCompleted InviteStatus = "completed"
)

// Invitation authorizes one or more feedback submissions against a test
// result. Exactly one of Email, Code, Link is non-nil, matching Method.
// Invitations are never deleted; expiry is time-based and checked at
// validation time only.
// swagger:model Invitation
type Invitation struct {
	ID           string       `json:"id"`
	TestResultID string       `json:"test_result_id"`
	TestID       string       `json:"test_id"`
	OwnerID      string       `json:"owner_id"`
	OwnerName    string       `json:"owner_name"`
	Method       InviteMethod `json:"method"`
	Status       InviteStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`

	Email *EmailInvite `json:"email,omitempty"`
	Code  *CodeInvite  `json:"codes,omitempty"`
	Link  *LinkInvite  `json:"link,omitempty"`
}

// EmailInvite is the single-use email variant. The token is compared in
// constant time by the validator and never reused after completion.
type EmailInvite struct {
	Recipient   string     `json:"recipient"`
	Token       string     `json:"-"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CodeInvite is the multi-use code variant. The code is distributed
// out-of-band (displayed, not transmitted).
type CodeInvite struct {
	Code       string     `json:"code"`
	UsageCount int        `json:"usage_count"`
	MaxUsages  *int       `json:"max_usages,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// LinkInvite is the shareable-link variant.
type LinkInvite struct {
	LinkID        string `json:"link_id"`
	URL           string `json:"url"`
	ResponseCount int    `json:"response_count"`
	MaxResponses  *int   `json:"max_responses,omitempty"`
	Public        bool   `json:"public"`
}

// InviteConstraints are optional caller-supplied limits applied at issuance.
type InviteConstraints struct {
	Recipient    string        `json:"recipient,omitempty"`
	MaxUsages    *int          `json:"max_usages,omitempty"`
	MaxResponses *int          `json:"max_responses,omitempty"`
	TTL          time.Duration `json:"-"`
	Public       bool          `json:"public,omitempty"`
}

// InvitationRepository defines storage operations for invitations.
//
// MarkCompleted and the two increment operations are conditional single-row
// updates: they fail with ErrAlreadyCompleted / ErrUsageExceeded instead of
// overshooting a cap when two submissions race.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByCode(ctx context.Context, code string) (*Invitation, error)
	GetByLinkID(ctx context.Context, linkID string) (*Invitation, error)
	ListByTestResultID(ctx context.Context, testResultID string, params PaginationParams) ([]*Invitation, int, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	IncrementUsage(ctx context.Context, id string, at time.Time) error
	IncrementResponses(ctx context.Context, id string) error
}

// InvitationService is the issuing and validation surface consumed by the
// HTTP layer.
type InvitationService interface {
	Issue(ctx context.Context, ownerID, testResultID string, method InviteMethod, constraints InviteConstraints) (*Invitation, string, error)
	Validate(ctx context.Context, method InviteMethod, identifier, token, deviceID string) (*Invitation, error)
	ListByTestResult(ctx context.Context, ownerID, testResultID string, params PaginationParams) ([]*Invitation, int, error)
}
