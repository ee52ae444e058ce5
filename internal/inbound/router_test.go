package inbound_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"interpreting/internal/inbound"
	"interpreting/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*inbound.Router, *queue.Manager) {
	t.Helper()

	m, err := queue.NewManager(slog.Default(),
		queue.Lane{Name: inbound.PaymentLaneName},
		queue.Lane{Name: inbound.WebhookLaneName})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})

	r, err := inbound.NewRouter(m, slog.Default())
	require.NoError(t, err)
	require.NoError(t, r.Register(m))
	return r, m
}

func TestRouter_RoutesToRegisteredProcessor(t *testing.T) {
	r, m := newRouter(t)

	received := make(chan []byte, 1)
	require.NoError(t, r.RegisterProcessor("stripe", func(_ context.Context, body []byte) error {
		received <- body
		return nil
	}))
	require.NoError(t, m.Start())

	require.NoError(t, r.EnqueuePayment(context.Background(), "stripe", []byte(`{"charge":"ch_1"}`)))

	select {
	case body := <-received:
		assert.JSONEq(t, `{"charge":"ch_1"}`, string(body))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not routed")
	}
}

func TestRouter_WebhookAndPaymentLanesAreIndependent(t *testing.T) {
	r, m := newRouter(t)

	payments := make(chan []byte, 1)
	webhooks := make(chan []byte, 1)
	require.NoError(t, r.RegisterProcessor("stripe", func(_ context.Context, body []byte) error {
		payments <- body
		return nil
	}))
	require.NoError(t, r.RegisterProcessor("booking-platform", func(_ context.Context, body []byte) error {
		webhooks <- body
		return nil
	}))
	require.NoError(t, m.Start())

	require.NoError(t, r.EnqueuePayment(context.Background(), "stripe", []byte(`{}`)))
	require.NoError(t, r.EnqueueWebhook(context.Background(), "booking-platform", []byte(`{}`)))

	for name, ch := range map[string]chan []byte{"payment": payments, "webhook": webhooks} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s event was not routed", name)
		}
	}
}

func TestRouter_DropsUnknownProvider(t *testing.T) {
	r, m := newRouter(t)

	routed := make(chan []byte, 1)
	require.NoError(t, r.RegisterProcessor("known", func(_ context.Context, body []byte) error {
		routed <- body
		return nil
	}))
	require.NoError(t, m.Start())

	require.NoError(t, r.EnqueueWebhook(context.Background(), "unknown", []byte(`{}`)))
	require.NoError(t, r.EnqueueWebhook(context.Background(), "known", []byte(`{}`)))

	select {
	case <-routed:
	case <-time.After(2 * time.Second):
		t.Fatal("event behind the dropped one was not routed")
	}
	assert.Empty(t, routed)
}

func TestRouter_Validation(t *testing.T) {
	r, _ := newRouter(t)

	assert.Error(t, r.RegisterProcessor("", func(context.Context, []byte) error { return nil }))
	assert.Error(t, r.RegisterProcessor("stripe", nil))

	require.NoError(t, r.RegisterProcessor("stripe", func(context.Context, []byte) error { return nil }))
	assert.Error(t, r.RegisterProcessor("stripe", func(context.Context, []byte) error { return nil }))

	assert.Error(t, r.EnqueuePayment(context.Background(), "", []byte(`{}`)))
}