package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"personafeedback/internal/domain"
)

const adminRole = "admin"

type messageService struct {
	msgRepo  domain.UIMessageRepository
	langRepo domain.LanguageRepository
	users    domain.UserService
}

// NewMessageService creates the admin-facing MessageService. Mutating
// operations require the caller to hold the admin role.
func NewMessageService(msgRepo domain.UIMessageRepository, langRepo domain.LanguageRepository, users domain.UserService) domain.MessageService {
	return &messageService{msgRepo: msgRepo, langRepo: langRepo, users: users}
}

func (s *messageService) UpsertMessage(ctx context.Context, callerID string, msg *domain.UIMessage) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	msg.Locale = strings.TrimSpace(strings.ToLower(msg.Locale))
	msg.Key = strings.TrimSpace(msg.Key)
	if msg.Locale == "" || msg.Key == "" {
		return fmt.Errorf("%w: locale and key are required", domain.ErrInvalidInput)
	}
	msg.UpdatedAt = time.Now()
	if err := s.msgRepo.Upsert(ctx, msg); err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}
	return nil
}

func (s *messageService) ListMessages(ctx context.Context, locale string) ([]*domain.UIMessage, error) {
	msgs, err := s.msgRepo.ListByLocale(ctx, strings.TrimSpace(strings.ToLower(locale)))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (s *messageService) DeleteMessage(ctx context.Context, callerID, locale, key string) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.msgRepo.Delete(ctx, strings.TrimSpace(strings.ToLower(locale)), strings.TrimSpace(key)); err != nil {
		if err == domain.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *messageService) UpsertLanguage(ctx context.Context, callerID string, lang *domain.Language) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	lang.Code = strings.TrimSpace(strings.ToLower(lang.Code))
	if lang.Code == "" {
		return fmt.Errorf("%w: language code is required", domain.ErrInvalidInput)
	}
	if err := s.langRepo.Upsert(ctx, lang); err != nil {
		return fmt.Errorf("failed to upsert language: %w", err)
	}
	return nil
}

func (s *messageService) ListLanguages(ctx context.Context) ([]*domain.Language, error) {
	langs, err := s.langRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return langs, nil
}

func (s *messageService) requireAdmin(ctx context.Context, callerID string) error {
	ok, err := s.users.HasRole(ctx, callerID, adminRole)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
