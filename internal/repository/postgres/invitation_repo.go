package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"personafeedback/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

// NewInvitationRepository returns a domain.InvitationRepository implemented with Postgres.
func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

const invitationColumns = `
	id, test_result_id, test_id, owner_id, owner_name, method, status, created_at, expires_at,
	recipient, token, sent_at, completed_at,
	code, usage_count, max_usages, last_used_at,
	link_id, url, response_count, max_responses, public
`

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (
			test_result_id, test_id, owner_id, owner_name, method, status, created_at, expires_at,
			recipient, token, sent_at,
			code, max_usages,
			link_id, url, max_responses, public
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	var (
		recipient, token, code, linkID, url sql.NullString
		sentAt                              sql.NullTime
		maxUsages, maxResponses             sql.NullInt64
		public                              bool
	)
	switch inv.Method {
	case domain.MethodEmail:
		recipient = sql.NullString{String: inv.Email.Recipient, Valid: true}
		token = sql.NullString{String: inv.Email.Token, Valid: true}
		if inv.Email.SentAt != nil {
			sentAt = sql.NullTime{Time: *inv.Email.SentAt, Valid: true}
		}
	case domain.MethodCode:
		code = sql.NullString{String: inv.Code.Code, Valid: true}
		if inv.Code.MaxUsages != nil {
			maxUsages = sql.NullInt64{Int64: int64(*inv.Code.MaxUsages), Valid: true}
		}
	case domain.MethodLink:
		linkID = sql.NullString{String: inv.Link.LinkID, Valid: true}
		url = sql.NullString{String: inv.Link.URL, Valid: true}
		if inv.Link.MaxResponses != nil {
			maxResponses = sql.NullInt64{Int64: int64(*inv.Link.MaxResponses), Valid: true}
		}
		public = inv.Link.Public
	default:
		return domain.ErrInvalidMethod
	}
	return r.DB.QueryRowContext(ctx, query,
		inv.TestResultID, inv.TestID, inv.OwnerID, inv.OwnerName, inv.Method, inv.Status, inv.CreatedAt, inv.ExpiresAt,
		recipient, token, sentAt,
		code, maxUsages,
		linkID, url, maxResponses, public,
	).Scan(&inv.ID)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.DB.QueryRowContext(ctx, query, id))
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE method = 'codes' AND code = $1`
	return scanInvitation(r.DB.QueryRowContext(ctx, query, code))
}

func (r *invitationRepository) GetByLinkID(ctx context.Context, linkID string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE method = 'link' AND link_id = $1`
	return scanInvitation(r.DB.QueryRowContext(ctx, query, linkID))
}

func (r *invitationRepository) ListByTestResultID(ctx context.Context, testResultID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM invitations WHERE test_result_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, testResultID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE test_result_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, testResultID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// MarkSent records the delivery time of an email invitation. sent_at stays
// NULL until the invitation email actually went out.
func (r *invitationRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE invitations
		SET sent_at = $2
		WHERE id = $1 AND method = 'email'
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkCompleted flips a single-use email invitation from active to
// completed. The status guard in the WHERE clause makes the transition
// atomic: the second of two racing submissions sees zero rows affected.
func (r *invitationRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE invitations
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND method = 'email' AND status = 'active'
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyCompleted
	}
	return nil
}

// IncrementUsage counts one use of a code invitation. The cap check is part
// of the UPDATE, so a concurrent submission can never push the counter past
// max_usages.
func (r *invitationRepository) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE invitations
		SET usage_count = usage_count + 1, last_used_at = $2
		WHERE id = $1 AND method = 'codes'
		  AND (max_usages IS NULL OR usage_count < max_usages)
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUsageExceeded
	}
	return nil
}

// IncrementResponses counts one response against a link invitation, with
// the same conditional-update guard as IncrementUsage.
func (r *invitationRepository) IncrementResponses(ctx context.Context, id string) error {
	query := `
		UPDATE invitations
		SET response_count = response_count + 1
		WHERE id = $1 AND method = 'link'
		  AND (max_responses IS NULL OR response_count < max_responses)
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUsageExceeded
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanInvitation reads one invitation row and builds the variant payload
// matching its method tag. Columns of the other variants stay nil.
func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var (
		recipient, token, code, linkID, url sql.NullString
		sentAt, completedAt, lastUsedAt     sql.NullTime
		usageCount, responseCount           sql.NullInt64
		maxUsages, maxResponses             sql.NullInt64
		public                              sql.NullBool
	)
	err := row.Scan(
		&inv.ID, &inv.TestResultID, &inv.TestID, &inv.OwnerID, &inv.OwnerName,
		&inv.Method, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt,
		&recipient, &token, &sentAt, &completedAt,
		&code, &usageCount, &maxUsages, &lastUsedAt,
		&linkID, &url, &responseCount, &maxResponses, &public,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	switch inv.Method {
	case domain.MethodEmail:
		inv.Email = &domain.EmailInvite{
			Recipient: recipient.String,
			Token:     token.String,
		}
		if sentAt.Valid {
			inv.Email.SentAt = &sentAt.Time
		}
		if completedAt.Valid {
			inv.Email.CompletedAt = &completedAt.Time
		}
	case domain.MethodCode:
		inv.Code = &domain.CodeInvite{
			Code:       code.String,
			UsageCount: int(usageCount.Int64),
		}
		if maxUsages.Valid {
			v := int(maxUsages.Int64)
			inv.Code.MaxUsages = &v
		}
		if lastUsedAt.Valid {
			inv.Code.LastUsedAt = &lastUsedAt.Time
		}
	case domain.MethodLink:
		inv.Link = &domain.LinkInvite{
			LinkID:        linkID.String,
			URL:           url.String,
			ResponseCount: int(responseCount.Int64),
			Public:        public.Bool,
		}
		if maxResponses.Valid {
			v := int(maxResponses.Int64)
			inv.Link.MaxResponses = &v
		}
	}
	return inv, nil
}
