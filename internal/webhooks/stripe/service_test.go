package stripewebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

type fakeCompleter struct {
	completed []uuid.UUID
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, orderID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.completed = append(f.completed, orderID)
	return nil
}

func newWebhookService(t *testing.T, completer *fakeCompleter, logOutput *bytes.Buffer) *Service {
	t.Helper()

	output := logOutput
	if output == nil {
		output = &bytes.Buffer{}
	}
	svc, err := NewService(ServiceParams{
		Orders: completer,
		Logger: logger.New(logger.Options{ServiceName: "webhook-test", Output: output}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func checkoutCompletedEvent(t *testing.T, metadata map[string]string) *stripe.Event {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"id":       "cs_test_abc",
		"metadata": metadata,
	})
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_1",
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventCompletesOrder(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{}
	svc := newWebhookService(t, completer, nil)
	orderID := uuid.New()

	event := checkoutCompletedEvent(t, map[string]string{"order_id": orderID.String()})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(completer.completed) != 1 || completer.completed[0] != orderID {
		t.Fatalf("expected completion for %s, got %v", orderID, completer.completed)
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{}
	svc := newWebhookService(t, completer, nil)

	event := &stripe.Event{
		ID:   "evt_2",
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(completer.completed) != 0 {
		t.Fatalf("expected no completions, got %v", completer.completed)
	}
}

func TestHandleEventMissingMetadataWarnsAndAcks(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{}
	var logs bytes.Buffer
	svc := newWebhookService(t, completer, &logs)

	event := checkoutCompletedEvent(t, nil)
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected ack, got %v", err)
	}
	if !strings.Contains(logs.String(), "without order_id") {
		t.Fatalf("expected warning, got %q", logs.String())
	}
	if len(completer.completed) != 0 {
		t.Fatalf("expected no completions, got %v", completer.completed)
	}
}

func TestHandleEventPropagatesCompletionFailure(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{err: pkgerrors.New(pkgerrors.CodeInternal, "db down")}
	svc := newWebhookService(t, completer, nil)

	event := checkoutCompletedEvent(t, map[string]string{"order_id": uuid.NewString()})
	err := svc.HandleEvent(context.Background(), event)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR so the delivery is retried, got %v", err)
	}
}

func TestHandleEventRequiresData(t *testing.T) {
	t.Parallel()

	svc := newWebhookService(t, &fakeCompleter{}, nil)

	err := svc.HandleEvent(context.Background(), &stripe.Event{ID: "evt_3"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

type fakeIdempotencyStore struct {
	keys   map[string]bool
	setErr error
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) Exists(_ context.Context, key string) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("idem:%s:%s", scope, id)
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func TestIdempotencyGuardLifecycle(t *testing.T) {
	t.Parallel()

	store := &fakeIdempotencyStore{keys: map[string]bool{}}
	guard, err := NewIdempotencyGuard(store, 0, "stripe_events")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	ctx := context.Background()

	// Seen is a pure read, so a failed handling attempt between the check
	// and the mark leaves the event eligible for redelivery.
	seen, err := guard.Seen(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("expected unmarked event unseen, got seen=%v err=%v", seen, err)
	}
	seen, err = guard.Seen(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("expected seen check to leave no mark, got seen=%v err=%v", seen, err)
	}

	seen, err = guard.CheckAndMark(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("expected first delivery unseen, got seen=%v err=%v", seen, err)
	}

	seen, err = guard.Seen(ctx, "evt_1")
	if err != nil || !seen {
		t.Fatalf("expected marked event seen, got seen=%v err=%v", seen, err)
	}

	seen, err = guard.CheckAndMark(ctx, "evt_1")
	if err != nil || !seen {
		t.Fatalf("expected duplicate flagged, got seen=%v err=%v", seen, err)
	}

	if err := guard.Delete(ctx, "evt_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	seen, err = guard.CheckAndMark(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("expected retry allowed after delete, got seen=%v err=%v", seen, err)
	}
}
