package models

import "context"

// Notification template ids understood by the delivery side.
const (
	TemplateEmailVerification = "EMAIL_VERIFICATION"
	TemplatePasswordReset     = "EMAIL_PASSWORD_RESET"
	TemplateInvite            = "EMAIL_INVITE"
)

// Lifecycle event names.
const (
	EventAccountCreated = "account.created"
	EventAccountUpdated = "account.updated"
)

// Notifier delivers templated notifications out of band. Implementations are
// fire-and-forget: they log failures and never surface them to the entity
// lifecycle.
type Notifier interface {
	SendTemplatedNotification(ctx context.Context, templateID string, payload map[string]any) error
}

// Publisher emits lifecycle events. Same fire-and-forget contract as Notifier.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
}
