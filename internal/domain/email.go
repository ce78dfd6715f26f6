package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
}

// LoginCodeEmailData holds data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// FeedbackInvitationEmailData holds data for the feedback invitation email.
// InviteURL embeds the invitation id and security token.
type FeedbackInvitationEmailData struct {
	Email     string
	OwnerName string
	TestName  string
	InviteURL string
	ExpiresAt string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
	SendFeedbackInvitation(ctx context.Context, data *FeedbackInvitationEmailData) error
}
