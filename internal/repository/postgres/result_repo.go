package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"personafeedback/internal/domain"
)

type testResultRepository struct {
	DB *sql.DB
}

// NewTestResultRepository returns a domain.TestResultRepository implemented with Postgres.
func NewTestResultRepository(db *sql.DB) domain.TestResultRepository {
	return &testResultRepository{DB: db}
}

func (r *testResultRepository) Create(ctx context.Context, res *domain.TestResult) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	query := `
		INSERT INTO test_results (user_id, test_id, answers, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, res.UserID, res.TestID, answers, []byte(res.Result), res.CreatedAt).
		Scan(&res.ID)
}

func (r *testResultRepository) GetByID(ctx context.Context, id string) (*domain.TestResult, error) {
	query := `
		SELECT id, user_id, test_id, answers, result, created_at
		FROM test_results
		WHERE id = $1
	`
	return scanTestResult(r.DB.QueryRowContext(ctx, query, id))
}

func (r *testResultRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.TestResult, error) {
	query := `
		SELECT id, user_id, test_id, answers, result, created_at
		FROM test_results
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*domain.TestResult{}
	for rows.Next() {
		res, err := scanTestResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanTestResult(row rowScanner) (*domain.TestResult, error) {
	res := &domain.TestResult{}
	var answers, result []byte
	err := row.Scan(&res.ID, &res.UserID, &res.TestID, &answers, &result, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(answers, &res.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	res.Result = json.RawMessage(result)
	return res, nil
}
