package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"personafeedback/internal/domain"
)

type responseRepository struct {
	DB *sql.DB
}

// NewResponseRepository returns a domain.FeedbackResponseRepository implemented with Postgres.
func NewResponseRepository(db *sql.DB) domain.FeedbackResponseRepository {
	return &responseRepository{DB: db}
}

// Create inserts the response. The idempotency key is stored as NULL when
// absent so the unique index only constrains submissions that carry one.
func (r *responseRepository) Create(ctx context.Context, resp *domain.FeedbackResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	query := `
		INSERT INTO feedback_responses (
			test_result_id, test_id, owner_id, method,
			invitation_id, code, link_id,
			answers, result, idempotency_key, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = r.DB.QueryRowContext(ctx, query,
		resp.TestResultID, resp.TestID, resp.OwnerID, resp.Method,
		resp.InvitationID, nullString(resp.Code), nullString(resp.LinkID),
		answers, []byte(resp.Result), nullString(resp.IdempotencyKey), resp.SubmittedAt,
	).Scan(&resp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadySubmitted
		}
		return err
	}
	return nil
}

func (r *responseRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.FeedbackResponse, error) {
	query := responseSelect + ` WHERE idempotency_key = $1`
	return scanResponse(r.DB.QueryRowContext(ctx, query, key))
}

func (r *responseRepository) ListByTestResultID(ctx context.Context, testResultID string, params domain.PaginationParams) ([]*domain.FeedbackResponse, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM feedback_responses WHERE test_result_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, testResultID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := responseSelect + `
		WHERE test_result_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, testResultID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	resps := []*domain.FeedbackResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, 0, err
		}
		resps = append(resps, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return resps, total, nil
}

const responseSelect = `
	SELECT id, test_result_id, test_id, owner_id, method,
	       invitation_id, code, link_id,
	       answers, result, idempotency_key, submitted_at
	FROM feedback_responses
`

func scanResponse(row rowScanner) (*domain.FeedbackResponse, error) {
	resp := &domain.FeedbackResponse{}
	var (
		code, linkID, idemKey sql.NullString
		answers, result       []byte
	)
	err := row.Scan(
		&resp.ID, &resp.TestResultID, &resp.TestID, &resp.OwnerID, &resp.Method,
		&resp.InvitationID, &code, &linkID,
		&answers, &result, &idemKey, &resp.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	resp.Code = code.String
	resp.LinkID = linkID.String
	resp.IdempotencyKey = idemKey.String
	if err := json.Unmarshal(answers, &resp.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	resp.Result = json.RawMessage(result)
	return resp, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
