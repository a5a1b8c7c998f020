package library

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Notification is a message addressed to a member.
type Notification struct {
	MemberID uuid.UUID
	To       string
	Subject  string
	Message  string
}

// Notifier delivers notifications. Delivery failures never undo the operation
// that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to a structured logger instead of sending them.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, msg Notification) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification sent",
		slog.String("to", msg.To),
		slog.String("member_id", msg.MemberID.String()),
		slog.String("subject", msg.Subject),
		slog.String("message", msg.Message),
	)
	return nil
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error { return nil }
