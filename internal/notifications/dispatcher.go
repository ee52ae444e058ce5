// Package notifications connects the command side to the push channel.
// The dispatcher fans a notification out to one queued delivery job per
// target; the delivery handler pushes over the hub when the target is
// online and logs the miss otherwise. Nothing in here ever fails the
// command that triggered the notification: dispatch errors are logged
// and swallowed, which is the contract the Notifier port promises.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/queue"
)

const (
	// LaneName is the queue lane delivery jobs run on.
	LaneName = "notifications"

	// JobName identifies the delivery job.
	JobName = "notification-delivery"
)

// deliveryPayload is the queued form of one notification for one target.
type deliveryPayload struct {
	Kind       string `json:"kind"`
	OrderID    string `json:"order_id"`
	PlatformID string `json:"platform_id"`
	TargetID   string `json:"target_id"`
}

// pushMessage is the wire format sent over the WebSocket.
type pushMessage struct {
	Kind       string `json:"kind"`
	OrderID    string `json:"order_id"`
	PlatformID string `json:"platform_id,omitempty"`
}

var _ ports.Notifier = &Dispatcher{}

// Dispatcher implements the Notifier port by enqueueing one delivery
// job per target. Queue retries give delivery its at-least-once
// semantics; the payload is self-contained so a retry needs no state.
type Dispatcher struct {
	manager *queue.Manager
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher over the given queue manager.
func NewDispatcher(manager *queue.Manager, logger *slog.Logger) (*Dispatcher, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("queue manager")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Dispatcher{
		manager: manager,
		logger:  logger.With("component", "notifications"),
	}, nil
}

// Dispatch queues the notification for every target. Best-effort: a
// target that cannot be enqueued is logged and skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, notification ports.Notification) {
	for _, target := range notification.Targets {
		payload := deliveryPayload{
			Kind:       string(notification.Kind),
			OrderID:    notification.OrderID.String(),
			PlatformID: notification.PlatformID,
			TargetID:   target.String(),
		}
		if err := d.manager.Enqueue(ctx, JobName, payload); err != nil {
			d.logger.Error("notification enqueue failed",
				"kind", payload.Kind,
				"order_id", payload.OrderID,
				"target_id", payload.TargetID,
				"error", err)
		}
	}
}

// Pusher is the delivery handler's view of the hub.
type Pusher interface {
	Push(actorID kernel.UUID, payload []byte) bool
}

// DeliveryHandler runs queued delivery jobs: it pushes the notification
// to the target's live connections, or logs the miss when the target is
// offline. Offline targets are not an error; the platform's reconnect
// flow re-reads canonical order state, so a missed push loses nothing.
type DeliveryHandler struct {
	pusher Pusher
	logger *slog.Logger
}

// NewDeliveryHandler creates a delivery handler over the given pusher.
func NewDeliveryHandler(pusher Pusher, logger *slog.Logger) (*DeliveryHandler, error) {
	if pusher == nil {
		return nil, errs.NewValueIsRequiredError("pusher")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &DeliveryHandler{
		pusher: pusher,
		logger: logger.With("component", "notifications"),
	}, nil
}

// Register binds the handler to the notifications lane on the manager.
func (h *DeliveryHandler) Register(manager *queue.Manager) error {
	return queue.RegisterJSON(manager, JobName, LaneName, h.Handle)
}

// Handle delivers one queued notification to one target.
func (h *DeliveryHandler) Handle(_ context.Context, payload deliveryPayload) error {
	targetID, err := kernel.UUIDFromString(payload.TargetID)
	if err != nil {
		h.logger.Error("dropping notification with invalid target",
			"target_id", payload.TargetID, "error", err)
		return nil
	}

	message, err := json.Marshal(pushMessage{
		Kind:       payload.Kind,
		OrderID:    payload.OrderID,
		PlatformID: payload.PlatformID,
	})
	if err != nil {
		return err
	}

	if !h.pusher.Push(targetID, message) {
		h.logger.Info("notification target offline",
			"kind", payload.Kind,
			"order_id", payload.OrderID,
			"target_id", payload.TargetID)
	}
	return nil
}
