package postgres

import (
	"context"
	"database/sql"

	"personafeedback/internal/domain"
)

type uiMessageRepository struct {
	DB *sql.DB
}

// NewUIMessageRepository returns a domain.UIMessageRepository implemented with Postgres.
func NewUIMessageRepository(db *sql.DB) domain.UIMessageRepository {
	return &uiMessageRepository{DB: db}
}

func (r *uiMessageRepository) Upsert(ctx context.Context, msg *domain.UIMessage) error {
	query := `
		INSERT INTO ui_messages (locale, key, text, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (locale, key) DO UPDATE SET text = EXCLUDED.text, updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, msg.Locale, msg.Key, msg.Text, msg.UpdatedAt).Scan(&msg.ID)
}

func (r *uiMessageRepository) ListByLocale(ctx context.Context, locale string) ([]*domain.UIMessage, error) {
	query := `
		SELECT id, locale, key, text, updated_at
		FROM ui_messages
		WHERE locale = $1
		ORDER BY key
	`
	rows, err := r.DB.QueryContext(ctx, query, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []*domain.UIMessage{}
	for rows.Next() {
		msg := &domain.UIMessage{}
		if err := rows.Scan(&msg.ID, &msg.Locale, &msg.Key, &msg.Text, &msg.UpdatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *uiMessageRepository) Delete(ctx context.Context, locale, key string) error {
	query := `DELETE FROM ui_messages WHERE locale = $1 AND key = $2`
	res, err := r.DB.ExecContext(ctx, query, locale, key)
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

type languageRepository struct {
	DB *sql.DB
}

// NewLanguageRepository returns a domain.LanguageRepository implemented with Postgres.
func NewLanguageRepository(db *sql.DB) domain.LanguageRepository {
	return &languageRepository{DB: db}
}

func (r *languageRepository) Upsert(ctx context.Context, lang *domain.Language) error {
	query := `
		INSERT INTO languages (code, name, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, enabled = EXCLUDED.enabled
	`
	_, err := r.DB.ExecContext(ctx, query, lang.Code, lang.Name, lang.Enabled)
	return err
}

func (r *languageRepository) List(ctx context.Context) ([]*domain.Language, error) {
	query := `
		SELECT code, name, enabled
		FROM languages
		ORDER BY code
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	langs := []*domain.Language{}
	for rows.Next() {
		lang := &domain.Language{}
		if err := rows.Scan(&lang.Code, &lang.Name, &lang.Enabled); err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}
