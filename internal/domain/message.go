package domain

import (
	"context"
	"time"
)

// UIMessage is a localized interface string managed through the admin panel.
// swagger:model UIMessage
type UIMessage struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale"`
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Language is an available interface language.
// swagger:model Language
type Language struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// UIMessageRepository defines storage operations for localized messages.
// Upsert inserts or replaces the text for (locale, key).
type UIMessageRepository interface {
	Upsert(ctx context.Context, msg *UIMessage) error
	ListByLocale(ctx context.Context, locale string) ([]*UIMessage, error)
	Delete(ctx context.Context, locale, key string) error
}

// LanguageRepository defines storage operations for languages.
type LanguageRepository interface {
	Upsert(ctx context.Context, lang *Language) error
	List(ctx context.Context) ([]*Language, error)
}

// MessageService is the admin-facing CRUD surface for messages and
// languages. All mutating operations require the admin role.
type MessageService interface {
	UpsertMessage(ctx context.Context, callerID string, msg *UIMessage) error
	ListMessages(ctx context.Context, locale string) ([]*UIMessage, error)
	DeleteMessage(ctx context.Context, callerID, locale, key string) error
	UpsertLanguage(ctx context.Context, callerID string, lang *Language) error
	ListLanguages(ctx context.Context) ([]*Language, error)
}
