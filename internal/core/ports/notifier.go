package ports

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
)

// NotificationKind discriminates the events fanned out to interpreters
// and operators.
type NotificationKind string

const (
	// NotificationInvitation invites a candidate to accept an order.
	NotificationInvitation NotificationKind = "invitation"

	// NotificationCancellation tells a candidate the order is no longer
	// available to them, either because someone else accepted or the
	// order was refused.
	NotificationCancellation NotificationKind = "cancellation"

	// NotificationRepeatReminder re-pushes an invitation to unresponsive
	// candidates without changing order state.
	NotificationRepeatReminder NotificationKind = "repeat-reminder"

	// NotificationAdminEscalation alerts a human operator that automated
	// search exhausted its tiers.
	NotificationAdminEscalation NotificationKind = "admin-escalation"
)

// Notification is one event addressed to a set of actors.
type Notification struct {
	Kind       NotificationKind
	OrderID    kernel.UUID
	PlatformID string
	Targets    []kernel.UUID
}

// Notifier is the fan-out contract of the notification dispatcher.
//
// Dispatch is best-effort and must never fail the command that triggered
// it; implementations queue for retryable delivery and log failures
// instead of returning them. Callers invoke it after their own
// transaction commits.
type Notifier interface {
	Dispatch(ctx context.Context, notification Notification)
}
