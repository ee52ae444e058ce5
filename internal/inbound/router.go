// Package inbound routes provider-tagged events arriving from outside
// the service (payment provider callbacks, platform webhooks) through
// the durable queue. The router never interprets event semantics: it
// queues the raw body under its provider tag and hands it to whichever
// processor is registered for that tag, so providers plug in at
// composition time without transport or queue changes.
package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"interpreting/internal/pkg/errs"
	"interpreting/internal/queue"
)

const (
	// PaymentLaneName is the queue lane payment events run on.
	PaymentLaneName = "payments"

	// WebhookLaneName is the queue lane platform webhooks run on.
	WebhookLaneName = "webhook-inbound"

	// PaymentJobName identifies a queued payment event.
	PaymentJobName = "payment-event"

	// WebhookJobName identifies a queued webhook event.
	WebhookJobName = "webhook-event"
)

// Event is the queued form of one inbound call: the provider tag it
// arrived under and the body exactly as received.
type Event struct {
	Provider string          `json:"provider"`
	Body     json.RawMessage `json:"body"`
}

// Processor handles decoded events for one provider tag. Returning an
// error makes the queue retry per its lane policy.
type Processor func(ctx context.Context, body []byte) error

// Router implements the generic inbound routing for both lanes. Events
// with no registered processor are logged and dropped rather than
// retried; a retry cannot conjure a processor.
type Router struct {
	manager *queue.Manager
	logger  *slog.Logger

	mu         sync.RWMutex
	processors map[string]Processor
}

// NewRouter creates a router over the given queue manager.
func NewRouter(manager *queue.Manager, logger *slog.Logger) (*Router, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("queue manager")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Router{
		manager:    manager,
		logger:     logger.With("component", "inbound"),
		processors: make(map[string]Processor),
	}, nil
}

// Register binds the routing jobs to their lanes on the manager. Must
// run before the manager starts.
func (r *Router) Register(manager *queue.Manager) error {
	if err := queue.RegisterJSON(manager, PaymentJobName, PaymentLaneName, r.route); err != nil {
		return err
	}
	return queue.RegisterJSON(manager, WebhookJobName, WebhookLaneName, r.route)
}

// RegisterProcessor binds a processor to a provider tag. One processor
// per tag; a second registration for the same tag is a wiring mistake.
func (r *Router) RegisterProcessor(provider string, processor Processor) error {
	if provider == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	if processor == nil {
		return errs.NewValueIsRequiredError("processor")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.processors[provider]; exists {
		return errs.NewValueIsInvalidError("provider " + provider + " already has a processor")
	}
	r.processors[provider] = processor
	return nil
}

// EnqueuePayment queues one payment event for routing.
func (r *Router) EnqueuePayment(ctx context.Context, provider string, body []byte) error {
	return r.enqueue(ctx, PaymentJobName, provider, body)
}

// EnqueueWebhook queues one webhook event for routing.
func (r *Router) EnqueueWebhook(ctx context.Context, provider string, body []byte) error {
	return r.enqueue(ctx, WebhookJobName, provider, body)
}

func (r *Router) enqueue(ctx context.Context, jobName, provider string, body []byte) error {
	if provider == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	return r.manager.Enqueue(ctx, jobName, Event{Provider: provider, Body: body})
}

func (r *Router) route(ctx context.Context, event Event) error {
	r.mu.RLock()
	processor, ok := r.processors[event.Provider]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("dropping event with no registered processor",
			"provider", event.Provider)
		return nil
	}
	return processor(ctx, event.Body)
}
