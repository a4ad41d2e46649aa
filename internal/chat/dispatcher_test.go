package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Cyril-dot/billionBackend/internal/notify"
)

type pushRecord struct {
	roomID     uint64
	targetRole string
	payload    []byte
}

type fakePusher struct {
	mu        sync.Mutex
	pushes    []pushRecord
	delivered int
}

func (f *fakePusher) Publish(roomID uint64, targetRole string, payload []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, pushRecord{roomID: roomID, targetRole: targetRole, payload: payload})
	return f.delivered
}

func (f *fakePusher) all() []pushRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pushRecord(nil), f.pushes...)
}

type fakeSink struct {
	submitted chan notify.Notification
	err       error
}

func newFakeSink() *fakeSink {
	return &fakeSink{submitted: make(chan notify.Notification, 16)}
}

func (f *fakeSink) Submit(ctx context.Context, n notify.Notification) error {
	_ = ctx
	if f.err != nil {
		return f.err
	}
	f.submitted <- n
	return nil
}

func (f *fakeSink) wait(t *testing.T) notify.Notification {
	t.Helper()
	select {
	case n := <-f.submitted:
		return n
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
		return notify.Notification{}
	}
}

func testDispatcher(t *testing.T) (*Dispatcher, *Service, *fakePusher, *fakeSink) {
	t.Helper()
	svc, _ := testService(t)
	pusher := &fakePusher{}
	sink := newFakeSink()
	return NewDispatcher(svc, pusher, sink), svc, pusher, sink
}

func TestSendAsCustomer_PushesToMerchantAndNotifies(t *testing.T) {
	d, svc, pusher, sink := testDispatcher(t)

	room, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	view, err := d.SendAsCustomer(context.Background(), "cust-1", room.RoomID, "Does it have 32GB RAM?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if view.MessageID == 0 || view.SenderRole != RoleCustomer {
		t.Fatalf("unexpected view: %+v", view)
	}

	pushes := pusher.all()
	if len(pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(pushes))
	}
	if pushes[0].roomID != room.RoomID || pushes[0].targetRole != RoleMerchant {
		t.Fatalf("push misrouted: room=%d role=%q", pushes[0].roomID, pushes[0].targetRole)
	}
	var pushed MessageView
	if err := json.Unmarshal(pushes[0].payload, &pushed); err != nil {
		t.Fatalf("push payload: %v", err)
	}
	if pushed.MessageID != view.MessageID || pushed.Content != "Does it have 32GB RAM?" {
		t.Fatalf("push payload mismatch: %+v", pushed)
	}

	n := sink.wait(t)
	if n.ToRole != RoleMerchant || n.ToEmail != "shop@example.com" {
		t.Fatalf("notification misrouted: %+v", n)
	}
	if n.FromName != "Ada Lovelace" || n.ProductName != "XPS 13" || n.RoomID != room.RoomID {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.JobID == "" {
		t.Fatalf("expected a job id")
	}
}

func TestSendAsMerchant_PushesToCustomerAndNotifies(t *testing.T) {
	d, svc, pusher, sink := testDispatcher(t)

	room, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	if _, err := d.SendAsMerchant(context.Background(), "merchant-1", room.RoomID, "Yes, 32GB."); err != nil {
		t.Fatalf("send: %v", err)
	}

	pushes := pusher.all()
	if len(pushes) != 1 || pushes[0].targetRole != RoleCustomer {
		t.Fatalf("expected 1 push to the customer side, got %+v", pushes)
	}

	n := sink.wait(t)
	if n.ToRole != RoleCustomer || n.ToEmail != "ada@example.com" {
		t.Fatalf("notification misrouted: %+v", n)
	}
	if n.FromName != "Billions Laptops" {
		t.Fatalf("unexpected sender name: %q", n.FromName)
	}
}

func TestSend_NotificationFiresEvenWithLiveDelivery(t *testing.T) {
	d, svc, pusher, sink := testDispatcher(t)
	pusher.delivered = 2 // counterparty is online on two handles

	room, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	if _, err := d.SendAsCustomer(context.Background(), "cust-1", room.RoomID, "ping"); err != nil {
		t.Fatalf("send: %v", err)
	}

	// live delivery does not suppress the out-of-band notice
	sink.wait(t)
}

func TestSend_SinkFailureDoesNotFailSend(t *testing.T) {
	d, svc, _, sink := testDispatcher(t)
	sink.err = errors.New("broker down")

	room, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	view, err := d.SendAsCustomer(context.Background(), "cust-1", room.RoomID, "still works")
	if err != nil {
		t.Fatalf("send must not surface sink errors: %v", err)
	}
	if view == nil || view.MessageID == 0 {
		t.Fatalf("expected persisted message despite sink failure")
	}

	history, err := svc.History(context.Background(), room.RoomID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected card + message, got %d", len(history))
	}
}

func TestSend_RejectedAppendHasNoSideEffects(t *testing.T) {
	d, svc, pusher, sink := testDispatcher(t)

	room, err := svc.StartRoom(context.Background(), "cust-1", 42)
	if err != nil {
		t.Fatalf("start room: %v", err)
	}

	if _, err := d.SendAsCustomer(context.Background(), "cust-2", room.RoomID, "let me in"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := d.SendAsCustomer(context.Background(), "cust-1", room.RoomID, "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}

	if got := pusher.all(); len(got) != 0 {
		t.Fatalf("rejected sends must not push, got %d", len(got))
	}
	select {
	case n := <-sink.submitted:
		t.Fatalf("rejected sends must not notify, got %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}
